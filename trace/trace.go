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

// Package trace implements the emulator's primary deliverable: a
// newline-delimited, deterministic narration of every decoded instruction
// and its observable side effects. It is distinct from package logger's
// ring-buffered diagnostic log, which carries non-fatal operator notes
// rather than the instruction-by-instruction trace.
package trace

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Sink implements arm.Tracer: Instruction opens each step with its address
// and raw encoding, and Notef narrates one observable effect, indented
// beneath it, as the instruction executes.
type Sink struct {
	w      io.Writer
	isTerm bool
}

// NewSink wraps w. When w is a terminal, Sink adds a blank line between
// instructions for on-screen readability; redirected to a file (the common
// case for golden-master testing) it omits that padding so the output
// stays exactly reproducible byte for byte.
func NewSink(w io.Writer) *Sink {
	s := &Sink{w: w}
	if f, ok := w.(*os.File); ok {
		s.isTerm = term.IsTerminal(int(f.Fd()))
	}
	return s
}

// Header writes the boot banner: the three vector-table words, then the
// line that introduces the instruction stream.
func (s *Sink) Header(sp, rawPC, nmi uint32) {
	fmt.Fprintf(s.w, "Initial Stack Pointer:   %08X\n", sp)
	fmt.Fprintf(s.w, "Initial Program Counter: %08X\n", rawPC)
	fmt.Fprintf(s.w, "NMI Address:             %08X\n", nmi)
	fmt.Fprintf(s.w, "\nExecution:\n")
}

// Instruction writes the "<PC>: <hw1>[ <hw2>]" header line that begins
// every decoded step, then the mnemonic on its own indented line.
func (s *Sink) Instruction(pc uint32, hw1, hw2 uint16, is32 bool, mnemonic string) {
	if s.isTerm {
		fmt.Fprintln(s.w)
	}
	if is32 {
		fmt.Fprintf(s.w, "%08X: %04X %04X\n", pc, hw1, hw2)
	} else {
		fmt.Fprintf(s.w, "%08X: %04X\n", pc, hw1)
	}
	fmt.Fprintf(s.w, "  %s\n", mnemonic)
}

// Notef writes one indented effect line beneath the current instruction's
// header.
func (s *Sink) Notef(format string, args ...any) {
	fmt.Fprintf(s.w, "  > "+format+"\n", args...)
}
