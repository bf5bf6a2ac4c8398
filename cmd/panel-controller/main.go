package main

import "github.com/oshokin/vent-panel/cmd/panel-controller/cmd"

func main() {
	cmd.Execute()
}
