package panelio

import (
	"errors"
	"fmt"

	"github.com/oshokin/vent-panel/internal/domain/button"
)

// ErrUnknownButton is returned for a press naming no panel button.
var ErrUnknownButton = errors.New("unknown button name")

// Press is one scripted press.
type Press struct {
	// Button is a button name such as set_peep or adjust_up.
	Button string
	// At is the first cycle the button is down.
	At uint32
	// Hold is how many cycles it stays down.
	Hold uint32
}

type scriptedPress struct {
	pos      button.Positions
	from, to uint32
}

// Script replays presses against a cycle counter advanced by NextFrame.
type Script struct {
	presses []scriptedPress
	frame   uint32
	started bool
}

// NewScript resolves button names and builds a replay source.
func NewScript(presses []Press) (*Script, error) {
	s := &Script{presses: make([]scriptedPress, 0, len(presses))}

	for _, p := range presses {
		pos, err := ParseButton(p.Button)
		if err != nil {
			return nil, err
		}

		s.presses = append(s.presses, scriptedPress{pos: pos, from: p.At, to: p.At + p.Hold})
	}

	return s, nil
}

// NextFrame advances to the next cycle. The first call selects cycle zero.
func (s *Script) NextFrame() {
	if !s.started {
		s.started = true
		return
	}

	s.frame++
}

// Frame returns the current cycle.
func (s *Script) Frame() uint32 {
	return s.frame
}

// Read returns every button scripted to be down in the current cycle.
func (s *Script) Read() (button.Positions, error) {
	var out button.Positions

	for _, p := range s.presses {
		if s.frame < p.from || s.frame >= p.to {
			continue
		}

		for i, down := range p.pos.Primary {
			out.Primary[i] = out.Primary[i] || down
		}

		for i, down := range p.pos.Adjust {
			out.Adjust[i] = out.Adjust[i] || down
		}
	}

	return out, nil
}

// ParseButton returns a sample with only the named button down.
func ParseButton(name string) (button.Positions, error) {
	var pos button.Positions

	for id := range button.NumPrimary {
		if id.String() == name {
			pos.Primary[id] = true
			return pos, nil
		}
	}

	for id := range button.NumAdjust {
		if id.String() == name {
			pos.Adjust[id] = true
			return pos, nil
		}
	}

	return pos, fmt.Errorf("%q: %w", name, ErrUnknownButton)
}
