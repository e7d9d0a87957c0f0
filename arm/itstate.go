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

// InITBlock reports whether the processor is currently inside an IT block,
// i.e. ITSTATE's mask nibble is non-zero.
func (r *Registers) InITBlock() bool {
	return r.itMask != 0
}

// LastInITBlock reports whether the current instruction is the last one
// inside its IT block (the mask nibble is 0b1000; the next ITAdvance clears
// ITSTATE).
func (r *Registers) LastInITBlock() bool {
	return r.itMask == 0b1000
}

// CurrentCond returns the condition code that should gate the instruction
// currently being decoded. Inside an IT block this is ITSTATE's condition
// nibble; a standalone conditional branch supplies its own condition field
// instead; anything else is unconditional ("always").
func (r *Registers) CurrentCond(ownCond uint8, hasOwnCond bool) uint8 {
	if r.InITBlock() {
		return r.itCond
	}
	if hasOwnCond {
		return ownCond
	}
	return 0b1110
}

// ConditionPassed evaluates cond against the current flags.
func (r *Registers) ConditionPassed(cond uint8) bool {
	return r.condition(cond)
}

// setIT loads ITSTATE from the IT instruction's firstcond:mask encoding.
func (r *Registers) setIT(firstcond, mask uint8) {
	r.itCond = firstcond
	r.itMask = mask
}

// ITAdvance must run after every instruction except IT itself. If the low
// three bits of ITSTATE's mask nibble are all zero, the whole register is
// cleared; otherwise ITSTATE's low five bits shift left by one. The shift
// spans the condition's lowest bit, which is how the mask's then/else
// pattern reaches CurrentCond one instruction at a time.
func (r *Registers) ITAdvance() {
	if r.itMask&0b0111 == 0 {
		r.itCond = 0
		r.itMask = 0
		return
	}
	low5 := (r.itCond&1)<<4 | r.itMask
	low5 = (low5 << 1) & 0b11111
	r.itCond = (r.itCond &^ 1) | low5>>4
	r.itMask = low5 & 0b1111
}
