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

// Register name constants for the sixteen general-purpose registers.
const (
	rSP = 13 + iota
	rLR
	rPC
	NumRegisters
)

// thumbBit is EPSR bit 24, the Thumb-state bit. It is always set after
// reset for this target and this emulator never clears it; Cortex-M cannot
// execute ARM-mode code.
const thumbBit = 0x01000000

// Registers is the process-local processor state: the general-purpose
// register file, status words, and the IT-block state machine.
type Registers struct {
	R [NumRegisters]uint32

	Status

	IPSR      uint32
	EPSR      uint32
	PRIMASK   uint32
	FAULTMASK uint32
}

// PC returns the value instruction semantics must see when they read PC
// directly: the architectural "PC + 4" offset that accounts for Thumb's
// three-stage-pipeline fiction.
func (r *Registers) PC() uint32 {
	return r.R[rPC] + 4
}

// AlignedPC is Align(PC, 4), used by PC-relative literal loads.
func (r *Registers) AlignedPC() uint32 {
	return r.PC() &^ 3
}

// APSR packs the N, Z, C, V flags into the layout described in bits 31..28
// of the application program status register.
func (r *Registers) APSR() uint32 {
	var v uint32
	if r.negative {
		v |= 1 << 31
	}
	if r.zero {
		v |= 1 << 30
	}
	if r.carry {
		v |= 1 << 29
	}
	if r.overflow {
		v |= 1 << 28
	}
	return v
}

// reset initialises registers to their boot-time state. SP and PC come
// from the vector table; the PC is stored with its Thumb bit cleared, and
// EPSR.T is always set since Cortex-M only ever executes Thumb code.
func (r *Registers) reset(sp, rawPC uint32) {
	*r = Registers{}
	r.R[rSP] = sp
	r.R[rPC] = rawPC &^ 1
	r.EPSR = thumbBit
}
