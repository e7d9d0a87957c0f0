// This file is part of Teensytrace.
//
// Teensytrace is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Teensytrace is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Teensytrace.  If not, see <https://www.gnu.org/licenses/>.

// Package interactive puts the controlling terminal into raw mode for the
// CLI's single-step surface: one keypress, no line buffering, no echo. It
// is trimmed to what a "step / run / quit" prompt needs; there is no
// terminal geometry tracking and no SIGWINCH handling because this mode
// never redraws a screen.
package interactive

import (
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Controller reads single keypresses from a terminal placed in raw mode,
// restoring the terminal's original settings on Close.
type Controller struct {
	f       *os.File
	canAttr unix.Termios
	rawAttr unix.Termios
}

// NewController puts f (normally os.Stdin) into raw mode.
func NewController(f *os.File) *Controller {
	c := &Controller{f: f}
	termios.Tcgetattr(f.Fd(), &c.canAttr)
	c.rawAttr = c.canAttr
	termios.Cfmakeraw(&c.rawAttr)
	termios.Tcsetattr(f.Fd(), termios.TCIFLUSH, &c.rawAttr)
	return c
}

// Close restores the terminal's canonical settings.
func (c *Controller) Close() {
	termios.Tcsetattr(c.f.Fd(), termios.TCIFLUSH, &c.canAttr)
}

// ReadKey blocks for a single keypress and returns it.
func (c *Controller) ReadKey() (byte, error) {
	var buf [1]byte
	if _, err := c.f.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Command is one of the three actions a keypress in interactive mode can
// request.
type Command int

const (
	// CommandStep executes exactly one more instruction.
	CommandStep Command = iota
	// CommandRun executes to the step budget or a fatal error, without
	// further prompting.
	CommandRun
	// CommandQuit stops the emulator early.
	CommandQuit
)

// Parse maps a keypress to a Command. Any key other than 'r' or 'q' steps;
// an unrecognised key is never an error.
func Parse(key byte) Command {
	switch key {
	case 'r', 'R':
		return CommandRun
	case 'q', 'Q':
		return CommandQuit
	default:
		return CommandStep
	}
}
