package main

import "github.com/oshokin/vent-panel/cmd/panel-monitor/cmd"

func main() {
	cmd.Execute()
}
