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
	"math/bits"

	"github.com/kurin/teensytrace/errors"
)

// regNames gives the trace-friendly spelling of each register index.
var regNames = [NumRegisters]string{
	"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7",
	"R8", "R9", "R10", "R11", "R12", "SP", "LR", "PC",
}

func regName(n uint8) string {
	if int(n) < len(regNames) {
		return regNames[n]
	}
	return "R?"
}

// GetReg reads register n, returning the architectural PC+4 value when n is
// the program counter.
func (r *Registers) GetReg(n uint8) uint32 {
	if n == rPC {
		return r.PC()
	}
	return r.R[n]
}

// SetReg writes v to register n and notes the change. Writes to PC store
// the raw target address (not PC+4); callers that branch are responsible
// for telling the stepper a branch occurred.
func (r *Registers) SetReg(n uint8, v uint32, trace Tracer) {
	r.R[n] = v
	trace.Notef("%s = %08X", regName(n), v)
}

// updatesFlags resolves an encoding's flag-setting behaviour against the IT
// state. The flag-setting 16-bit data-processing encodings only set flags
// outside an IT block; compares always set them; the 32-bit forms carry an
// explicit S bit that is honoured either way.
func (r *Registers) updatesFlags(inst Instruction) bool {
	if inst.Size == 2 && r.InITBlock() && inst.Mnemonic != MnemCMP && inst.Mnemonic != MnemCMN {
		return false
	}
	return inst.SetFlags
}

// noteFlags narrates the APSR after a flag-setting instruction.
func (r *Registers) noteFlags(trace Tracer) {
	trace.Notef("APSR = %s", r.Status)
}

// operand2 resolves the second operand of a data-processing instruction:
// a register (Rm) or an immediate, the immediate being either a small
// plain value (2-byte encodings) or a Thumb modified-immediate field
// (4-byte encodings, which can themselves produce a carry out). A modified
// immediate whose replicating form carries a zero byte is UNPREDICTABLE
// and reported rather than expanded.
func (r *Registers) operand2(inst Instruction) (uint32, bool, error) {
	if !inst.ImmOperand {
		return r.GetReg(inst.Rm), r.carry, nil
	}
	if inst.Size == 4 {
		imm32, c, ok := ThumbExpandImm_C(uint16(inst.Imm), r.carry)
		if !ok {
			return 0, false, errors.Errorf(errors.UnpredictableEncoding, "zero-byte immediate expansion", r.R[rPC])
		}
		return imm32, c, nil
	}
	return inst.Imm, r.carry, nil
}

// effectiveAddress computes the memory address an LDR/STR/LDRB/... targets
// and the value an indexed encoding writes back to Rn. Pre-indexed forms use
// the offset address for the access itself; post-indexed forms access at the
// unmodified base and only the write-back sees the offset.
func (r *Registers) effectiveAddress(inst Instruction) (addr, wback uint32) {
	if inst.AddrMode == AddrModeLiteral {
		a := r.AlignedPC() + inst.Imm
		if !inst.Add {
			a = r.AlignedPC() - inst.Imm
		}
		return a, a
	}

	base := r.GetReg(inst.Rn)
	offset := inst.Imm
	if inst.AddrMode == AddrModeRegister {
		offset = Shift(r.GetReg(inst.Rm), inst.ShiftType, inst.ShiftAmount, r.carry)
	}

	offsetAddr := base + offset
	if !inst.Add {
		offsetAddr = base - offset
	}
	if inst.Index {
		return offsetAddr, offsetAddr
	}
	return base, offsetAddr
}

// Execute runs one decoded instruction's semantics. branched reports
// whether the instruction itself updated PC (a taken branch, BX/BLX, or a
// POP that reloads PC); the stepper must not also advance PC by the
// encoding's size in that case.
func (r *Registers) Execute(inst Instruction, mem *Memory, trace Tracer) (branched bool, err error) {
	cond := r.CurrentCond(inst.Cond, inst.HasCond)
	if !r.ConditionPassed(cond) {
		return false, nil
	}

	switch inst.Mnemonic {
	case MnemNOP:
		// no effect

	case MnemIT:
		if r.InITBlock() {
			return false, errors.Errorf(errors.UnpredictableEncoding, "IT", r.R[rPC])
		}
		r.setIT(inst.ITFirstCond, inst.ITMask)

	case MnemADD:
		op2, _, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		x := r.GetReg(inst.Rn)
		if inst.AlignPC {
			x = r.AlignedPC()
		}
		result, c, v := AddWithCarry(x, op2, 0)
		if r.updatesFlags(inst) {
			r.setFlags(result, c, v)
			r.noteFlags(trace)
		}
		r.SetReg(inst.Rd, result, trace)

	case MnemSUB:
		op2, _, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		result, c, v := AddWithCarry(r.GetReg(inst.Rn), ^op2, 1)
		if r.updatesFlags(inst) {
			r.setFlags(result, c, v)
			r.noteFlags(trace)
		}
		r.SetReg(inst.Rd, result, trace)

	case MnemRSB:
		op2, _, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		result, c, v := AddWithCarry(^r.GetReg(inst.Rn), op2, 1)
		if r.updatesFlags(inst) {
			r.setFlags(result, c, v)
			r.noteFlags(trace)
		}
		r.SetReg(inst.Rd, result, trace)

	case MnemCMP:
		op2, _, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		result, c, v := AddWithCarry(r.GetReg(inst.Rn), ^op2, 1)
		r.setFlags(result, c, v)
		r.noteFlags(trace)

	case MnemCMN:
		op2, _, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		result, c, v := AddWithCarry(r.GetReg(inst.Rn), op2, 0)
		r.setFlags(result, c, v)
		r.noteFlags(trace)

	case MnemAND:
		op2, c, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		result := r.GetReg(inst.Rn) & op2
		if r.updatesFlags(inst) {
			r.setFlags(result, c, r.overflow)
			r.noteFlags(trace)
		}
		r.SetReg(inst.Rd, result, trace)

	case MnemORR:
		op2, c, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		result := r.GetReg(inst.Rn) | op2
		if r.updatesFlags(inst) {
			r.setFlags(result, c, r.overflow)
			r.noteFlags(trace)
		}
		r.SetReg(inst.Rd, result, trace)

	case MnemEOR:
		op2, c, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		result := r.GetReg(inst.Rn) ^ op2
		if r.updatesFlags(inst) {
			r.setFlags(result, c, r.overflow)
			r.noteFlags(trace)
		}
		r.SetReg(inst.Rd, result, trace)

	case MnemBIC:
		op2, c, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		result := r.GetReg(inst.Rn) &^ op2
		if r.updatesFlags(inst) {
			r.setFlags(result, c, r.overflow)
			r.noteFlags(trace)
		}
		r.SetReg(inst.Rd, result, trace)

	case MnemMVN:
		op2, c, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		result := ^op2
		if r.updatesFlags(inst) {
			r.setFlags(result, c, r.overflow)
			r.noteFlags(trace)
		}
		r.SetReg(inst.Rd, result, trace)

	case MnemMOV:
		op2, c, err := r.operand2(inst)
		if err != nil {
			return false, err
		}
		if inst.Rd == rPC {
			// ALUWritePC: on ARMv7-M a branch to the raw value with bit 0
			// cleared. Never sets flags (only the high-register MOV can
			// target PC, and it has no S variant).
			r.SetReg(rPC, op2&^1, trace)
			branched = true
			break
		}
		if r.updatesFlags(inst) {
			r.setNZ(op2)
			r.carry = c
			r.noteFlags(trace)
		}
		r.SetReg(inst.Rd, op2, trace)

	case MnemMOVW:
		r.SetReg(inst.Rd, inst.Imm, trace)

	case MnemMOVT:
		cur := r.GetReg(inst.Rd)
		r.SetReg(inst.Rd, (cur&0x0000FFFF)|(inst.Imm<<16), trace)

	case MnemLSL, MnemLSR, MnemASR:
		var styp SRType
		switch inst.Mnemonic {
		case MnemLSL:
			styp = SRTypeLSL
		case MnemLSR:
			styp = SRTypeLSR
		case MnemASR:
			styp = SRTypeASR
		}
		var value uint32
		var amount uint
		if inst.ShiftType != SRTypeNone { // register form: Rn holds the value, Rm the shift count
			value = r.GetReg(inst.Rn)
			amount = uint(r.GetReg(inst.Rm) & 0xFF)
		} else { // immediate form: Rm holds the value, Imm the shift count
			value = r.GetReg(inst.Rm)
			amount = uint(inst.Imm)
		}
		result, c := Shift_C(value, styp, amount, r.carry)
		if r.updatesFlags(inst) {
			r.setFlags(result, c, r.overflow)
			r.noteFlags(trace)
		}
		r.SetReg(inst.Rd, result, trace)

	case MnemUXTB:
		r.SetReg(inst.Rd, r.GetReg(inst.Rm)&0xFF, trace)

	case MnemUBFX:
		width := uint32(inst.Widthm1) + 1
		if uint32(inst.Lsbit)+uint32(inst.Widthm1) > 31 {
			return false, errors.Errorf(errors.IllegalState, "UBFX lsbit+widthminus1 out of range")
		}
		mask := uint32(1)<<width - 1
		result := (r.GetReg(inst.Rn) >> inst.Lsbit) & mask
		r.SetReg(inst.Rd, result, trace)

	case MnemUDIV:
		divisor := r.GetReg(inst.Rm)
		if divisor == 0 {
			return false, errors.Errorf(errors.IllegalState, "UDIV by zero")
		}
		r.SetReg(inst.Rd, r.GetReg(inst.Rn)/divisor, trace)

	case MnemMLA:
		result := r.GetReg(inst.Rn)*r.GetReg(inst.Rm) + r.GetReg(inst.Ra)
		r.SetReg(inst.Rd, result, trace)

	case MnemMLS:
		result := r.GetReg(inst.Ra) - r.GetReg(inst.Rn)*r.GetReg(inst.Rm)
		r.SetReg(inst.Rd, result, trace)

	case MnemCPS:
		var v uint32
		if !inst.CPSEnable {
			v = 1
		}
		if inst.CPSPrimask {
			r.PRIMASK = v
			trace.Notef("PRIMASK = %d", v)
		}
		if inst.CPSFaultmask {
			r.FAULTMASK = v
			trace.Notef("FAULTMASK = %d", v)
		}

	case MnemB:
		target := uint32(int32(r.PC()) + inst.BranchOffset)
		r.SetReg(rPC, target, trace)
		branched = true

	case MnemBL:
		next := r.R[rPC] + uint32(inst.Size)
		r.SetReg(rLR, next|1, trace)
		target := uint32(int32(r.PC()) + inst.BranchOffset)
		r.SetReg(rPC, target, trace)
		branched = true

	case MnemBX:
		target := r.GetReg(inst.Rm) &^ 1
		r.SetReg(rPC, target, trace)
		branched = true

	case MnemBLX:
		next := r.R[rPC] + uint32(inst.Size)
		target := r.GetReg(inst.Rm) &^ 1
		r.SetReg(rLR, next|1, trace)
		r.SetReg(rPC, target, trace)
		branched = true

	case MnemCBZ, MnemCBNZ:
		zero := r.GetReg(inst.Rn) == 0
		take := zero == (inst.Mnemonic == MnemCBZ)
		if take {
			target := uint32(int32(r.PC()) + inst.BranchOffset)
			r.SetReg(rPC, target, trace)
			branched = true
		}

	case MnemPUSH:
		err = r.execPush(inst, mem, trace)

	case MnemPOP:
		branched, err = r.execPop(inst, mem, trace)

	case MnemLDR, MnemLDRB, MnemLDRH:
		addr, wback := r.effectiveAddress(inst)
		var val uint32
		switch inst.Mnemonic {
		case MnemLDR:
			val = mem.ReadWord(addr)
		case MnemLDRB:
			val = uint32(mem.ReadByte(addr))
		case MnemLDRH:
			val = uint32(mem.ReadHalfword(addr))
		}
		if inst.WBack {
			r.SetReg(inst.Rn, wback, trace)
		}
		if inst.Rd == rPC {
			target, werr := loadWritePC(val)
			if werr != nil {
				return false, werr
			}
			r.SetReg(rPC, target, trace)
			branched = true
		} else {
			r.SetReg(inst.Rd, val, trace)
		}

	case MnemSTR, MnemSTRB, MnemSTRH:
		addr, wback := r.effectiveAddress(inst)
		switch inst.Mnemonic {
		case MnemSTR:
			mem.WriteWord(addr, r.GetReg(inst.Rd))
		case MnemSTRB:
			mem.WriteByte(addr, uint8(r.GetReg(inst.Rd)))
		case MnemSTRH:
			mem.WriteHalfword(addr, uint16(r.GetReg(inst.Rd)))
		}
		if inst.WBack {
			r.SetReg(inst.Rn, wback, trace)
		}
	}

	return branched, err
}

func (r *Registers) execPush(inst Instruction, mem *Memory, trace Tracer) error {
	n := bits.OnesCount16(inst.RegList)
	if inst.PushLR {
		n++
	}
	if n == 0 {
		return errors.Errorf(errors.UnpredictableEncoding, "PUSH", r.R[rPC])
	}
	addr := r.R[rSP] - uint32(n)*4
	cur := addr
	for i := uint8(0); i < 8; i++ {
		if inst.RegList&(1<<i) != 0 {
			mem.WriteWord(cur, r.R[i])
			cur += 4
		}
	}
	if inst.PushLR {
		mem.WriteWord(cur, r.R[rLR])
	}
	r.SetReg(rSP, addr, trace)
	return nil
}

// loadWritePC validates and clears the Thumb bit of a value loaded into PC.
// The ARMv7-M pseudocode requires bit 0 to be set (this target never clears
// the Thumb state); a value with bit 0 clear is a fatal illegal state.
func loadWritePC(val uint32) (uint32, error) {
	if val&1 == 0 {
		return 0, errors.Errorf(errors.IllegalState, "load to PC with bit 0 clear")
	}
	return val &^ 1, nil
}

func (r *Registers) execPop(inst Instruction, mem *Memory, trace Tracer) (bool, error) {
	if inst.RegList == 0 && !inst.PopPC {
		return false, errors.Errorf(errors.UnpredictableEncoding, "POP", r.R[rPC])
	}
	addr := r.R[rSP]
	for i := uint8(0); i < 8; i++ {
		if inst.RegList&(1<<i) != 0 {
			r.SetReg(i, mem.ReadWord(addr), trace)
			addr += 4
		}
	}
	if inst.PopPC {
		val := mem.ReadWord(addr)
		addr += 4
		r.SetReg(rSP, addr, trace)
		target, err := loadWritePC(val)
		if err != nil {
			return false, err
		}
		r.SetReg(rPC, target, trace)
		return true, nil
	}
	r.SetReg(rSP, addr, trace)
	return false, nil
}
