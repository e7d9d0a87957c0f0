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

package arm

import (
	"fmt"

	"github.com/kurin/teensytrace/logger"
)

// Machine is the runnable emulator: a Registers value, a Memory instance,
// and the Tracer both narrate to. It owns the Stepper and Boot/Trace
// components described by the design — fetch, classify, dispatch, and
// advance PC and IT state once per call to Step.
type Machine struct {
	Regs  Registers
	Mem   *Memory
	Trace Tracer

	// The three vector-table words read at boot, kept for the run header.
	InitialSP uint32
	InitialPC uint32
	NMIAddr   uint32
}

// NewMachine loads image into flash and initialises registers from the
// reset vector table: SP at offset 0, the raw reset PC at offset 4 (stored
// with bit 0 cleared), and the NMI vector at offset 8 (read for
// completeness and noted to the diagnostic logger; this emulator never
// delivers it). The three boot reads happen before trace is attached, so
// the trace stream opens with the first executed instruction rather than
// the bookkeeping that preceded it.
func NewMachine(image []byte, trace Tracer) *Machine {
	if trace == nil {
		trace = nullTracer{}
	}

	mem := NewMemory(image)
	sp := mem.ReadWord(0)
	rawPC := mem.ReadWord(4)
	nmi := mem.ReadWord(8)
	logger.Logf("boot", "NMI vector at %08X", nmi)

	mem.Trace = trace

	m := &Machine{Mem: mem, Trace: trace, InitialSP: sp, InitialPC: rawPC, NMIAddr: nmi}
	m.Regs.reset(sp, rawPC)
	return m
}

// Step fetches, classifies, dispatches and retires exactly one
// instruction. It returns the first fatal error
// encountered (an unknown opcode, an unmapped or flash-writing memory
// access, or an illegal processor state), recovering from the panics the
// memory map and the mnemonic executors raise for those conditions.
func (m *Machine) Step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asFatal(r)
		}
	}()

	pc := m.Regs.R[rPC]
	hw1 := m.Mem.FetchHalfword(pc)

	is32 := hw1&0xE000 == 0xE000 && hw1&0x1800 != 0

	var hw2 uint16
	var inst Instruction
	if is32 {
		hw2 = m.Mem.FetchHalfword(pc + 2)
		inst, err = decodeThumb32(hw1, hw2, pc)
	} else {
		inst, err = decodeThumb16(hw1, pc)
	}
	if err != nil {
		return err
	}

	m.Trace.Instruction(pc, hw1, hw2, is32, inst.Mnemonic.String())

	isITInst := inst.Mnemonic == MnemIT

	branched, err := m.Regs.Execute(inst, m.Mem, m.Trace)
	if err != nil {
		return err
	}

	if !branched {
		m.Regs.R[rPC] = pc + uint32(inst.Size)
	}

	if m.Regs.InITBlock() && !isITInst {
		m.Regs.ITAdvance()
	}

	return nil
}

// Run drives Step up to steps times, stopping at the first fatal error. It
// returns the number of instructions actually executed.
func (m *Machine) Run(steps int) (ran int, err error) {
	for ran = 0; ran < steps; ran++ {
		if err := m.Step(); err != nil {
			return ran, err
		}
	}
	return ran, nil
}

// asFatal normalises a recovered panic value into an error. The memory map
// panics with category errors built with errors.Errorf; anything
// else reaching here is a genuine programmer error and is reported as-is.
func asFatal(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
