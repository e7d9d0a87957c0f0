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
	"github.com/kurin/teensytrace/errors"
)

// decodeThumb16 classifies a 16-bit Thumb halfword using the hierarchical
// §A5.2 encoding tables, selecting first on the top six bits and then
// refining within each group.
func decodeThumb16(hw1 uint16, pc uint32) (Instruction, error) {
	top6 := hw1 >> 10

	switch {
	case top6>>4 == 0b00: // 00xxxx: shift (imm) / add / sub / move / compare
		return decodeShiftAddSubMoveCompare(hw1, pc)

	case top6 == 0b010000: // data-processing register
		return decodeDataProcessingRegister(hw1, pc)

	case top6 == 0b010001: // special data + branch/exchange
		return decodeSpecialDataBranchExchange(hw1, pc)

	case top6>>1 == 0b01001: // LDR (literal)
		return decodeLDRLiteral(hw1, pc)

	case top6>>2 == 0b0101, top6>>3 == 0b011, top6>>3 == 0b100:
		return decodeLoadStoreSingle(hw1, pc)

	case top6>>2 == 0b1010: // PC/SP relative ADD (ADR and ADD Rd,SP,#imm8)
		return decodeGenerateAddress(hw1, pc)

	case top6>>2 == 0b1011: // miscellaneous 16-bit
		return decodeMisc16(hw1, pc)

	case top6>>2 == 0b1101: // conditional branch / UDF
		return decodeConditionalBranch(hw1, pc)

	case top6>>1 == 0b11100: // unconditional branch
		return decodeUnconditionalBranch16(hw1, pc)
	}

	return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt16(hw1), pc)
}

func fmt16(hw1 uint16) string {
	return bitString(uint32(hw1), 16)
}

func bitString(v uint32, bits int) string {
	out := make([]byte, bits)
	for i := 0; i < bits; i++ {
		bit := (v >> uint(bits-1-i)) & 1
		if bit == 1 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

// decodeShiftAddSubMoveCompare covers A5.2.1: LSL/LSR/ASR (imm), ADD/SUB
// (register and 3-bit immediate), and MOV/CMP/ADD/SUB with an 8-bit
// immediate.
func decodeShiftAddSubMoveCompare(hw1 uint16, pc uint32) (Instruction, error) {
	op := (hw1 >> 9) & 0x1F // opcode, bits 13:9

	switch op {
	case 0b00000, 0b00001, 0b00010, 0b00011: // LSL (imm): opcode bits 13:11 == 000
		imm5 := uint8((hw1 >> 6) & 0x1F)
		rm := uint8((hw1 >> 3) & 0x7)
		rd := uint8(hw1 & 0x7)
		return Instruction{Mnemonic: MnemLSL, Size: 2, Rd: rd, Rm: rm, Imm: uint32(imm5), SetFlags: true}, nil
	case 0b00100, 0b00101, 0b00110, 0b00111: // LSR (imm)
		imm5 := uint8((hw1 >> 6) & 0x1F)
		rm := uint8((hw1 >> 3) & 0x7)
		rd := uint8(hw1 & 0x7)
		_, n := DecodeImmShift(0b01, imm5) // imm5 == 0 encodes a shift of 32
		return Instruction{Mnemonic: MnemLSR, Size: 2, Rd: rd, Rm: rm, Imm: uint32(n), SetFlags: true}, nil
	case 0b01000, 0b01001, 0b01010, 0b01011: // ASR (imm)
		imm5 := uint8((hw1 >> 6) & 0x1F)
		rm := uint8((hw1 >> 3) & 0x7)
		rd := uint8(hw1 & 0x7)
		_, n := DecodeImmShift(0b10, imm5)
		return Instruction{Mnemonic: MnemASR, Size: 2, Rd: rd, Rm: rm, Imm: uint32(n), SetFlags: true}, nil
	case 0b01100: // ADD (register), T1
		rm := uint8((hw1 >> 6) & 0x7)
		rn := uint8((hw1 >> 3) & 0x7)
		rd := uint8(hw1 & 0x7)
		return Instruction{Mnemonic: MnemADD, Size: 2, Rd: rd, Rn: rn, Rm: rm, SetFlags: true}, nil
	case 0b01101: // SUB (register), T1
		rm := uint8((hw1 >> 6) & 0x7)
		rn := uint8((hw1 >> 3) & 0x7)
		rd := uint8(hw1 & 0x7)
		return Instruction{Mnemonic: MnemSUB, Size: 2, Rd: rd, Rn: rn, Rm: rm, SetFlags: true}, nil
	case 0b01110: // ADD (3-bit immediate)
		imm3 := uint32((hw1 >> 6) & 0x7)
		rn := uint8((hw1 >> 3) & 0x7)
		rd := uint8(hw1 & 0x7)
		return Instruction{Mnemonic: MnemADD, Size: 2, Rd: rd, Rn: rn, Imm: imm3, SetFlags: true, ImmOperand: true}, nil
	case 0b01111: // SUB (3-bit immediate)
		imm3 := uint32((hw1 >> 6) & 0x7)
		rn := uint8((hw1 >> 3) & 0x7)
		rd := uint8(hw1 & 0x7)
		return Instruction{Mnemonic: MnemSUB, Size: 2, Rd: rd, Rn: rn, Imm: imm3, SetFlags: true, ImmOperand: true}, nil
	}

	// 001xx group: MOV/CMP/ADD/SUB Rdn, #imm8
	if op>>4 == 0b1 {
		sub := (hw1 >> 11) & 0x3
		rdn := uint8((hw1 >> 8) & 0x7)
		imm8 := uint32(hw1 & 0xFF)
		switch sub {
		case 0b00:
			return Instruction{Mnemonic: MnemMOV, Size: 2, Rd: rdn, Imm: imm8, SetFlags: true, ImmOperand: true}, nil
		case 0b01:
			return Instruction{Mnemonic: MnemCMP, Size: 2, Rn: rdn, Imm: imm8, SetFlags: true, ImmOperand: true}, nil
		case 0b10:
			return Instruction{Mnemonic: MnemADD, Size: 2, Rd: rdn, Rn: rdn, Imm: imm8, SetFlags: true, ImmOperand: true}, nil
		case 0b11:
			return Instruction{Mnemonic: MnemSUB, Size: 2, Rd: rdn, Rn: rdn, Imm: imm8, SetFlags: true, ImmOperand: true}, nil
		}
	}

	return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt16(hw1), pc)
}

// decodeDataProcessingRegister covers A5.2.2 (010000 op Rm Rdn).
func decodeDataProcessingRegister(hw1 uint16, pc uint32) (Instruction, error) {
	op := (hw1 >> 6) & 0xF
	rm := uint8((hw1 >> 3) & 0x7)
	rdn := uint8(hw1 & 0x7)

	switch op {
	case 0b0000: // AND
		return Instruction{Mnemonic: MnemAND, Size: 2, Rd: rdn, Rn: rdn, Rm: rm, SetFlags: true}, nil
	case 0b0001: // EOR
		return Instruction{Mnemonic: MnemEOR, Size: 2, Rd: rdn, Rn: rdn, Rm: rm, SetFlags: true}, nil
	case 0b0010: // LSL (register)
		return Instruction{Mnemonic: MnemLSL, Size: 2, Rd: rdn, Rn: rdn, Rm: rm, SetFlags: true, ShiftType: SRTypeLSL}, nil
	case 0b0011: // LSR (register)
		return Instruction{Mnemonic: MnemLSR, Size: 2, Rd: rdn, Rn: rdn, Rm: rm, SetFlags: true, ShiftType: SRTypeLSR}, nil
	case 0b0100: // ASR (register)
		return Instruction{Mnemonic: MnemASR, Size: 2, Rd: rdn, Rn: rdn, Rm: rm, SetFlags: true, ShiftType: SRTypeASR}, nil
	case 0b1001: // RSB (immediate #0), aka NEG
		return Instruction{Mnemonic: MnemRSB, Size: 2, Rd: rdn, Rn: rm, Imm: 0, SetFlags: true, ImmOperand: true}, nil
	case 0b1010: // CMP (register)
		return Instruction{Mnemonic: MnemCMP, Size: 2, Rn: rdn, Rm: rm, SetFlags: true}, nil
	case 0b1011: // CMN (register)
		return Instruction{Mnemonic: MnemCMN, Size: 2, Rn: rdn, Rm: rm, SetFlags: true}, nil
	case 0b1100: // ORR
		return Instruction{Mnemonic: MnemORR, Size: 2, Rd: rdn, Rn: rdn, Rm: rm, SetFlags: true}, nil
	case 0b1110: // BIC
		return Instruction{Mnemonic: MnemBIC, Size: 2, Rd: rdn, Rn: rdn, Rm: rm, SetFlags: true}, nil
	case 0b1111: // MVN
		return Instruction{Mnemonic: MnemMVN, Size: 2, Rd: rdn, Rm: rm, SetFlags: true}, nil
	}

	return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt16(hw1), pc)
}

// decodeSpecialDataBranchExchange covers A5.2.3 (010001 op Dn/Rm Rdn).
func decodeSpecialDataBranchExchange(hw1 uint16, pc uint32) (Instruction, error) {
	op := (hw1 >> 8) & 0x3
	dn := uint8((hw1 >> 7) & 0x1)
	rm := uint8((hw1 >> 3) & 0xF)
	rdn := uint8(hw1&0x7) | dn<<3

	switch op {
	case 0b00: // ADD (register), high registers, does not set flags
		return Instruction{Mnemonic: MnemADD, Size: 2, Rd: rdn, Rn: rdn, Rm: rm, SetFlags: false}, nil
	case 0b01: // CMP (register), high registers
		return Instruction{Mnemonic: MnemCMP, Size: 2, Rn: rdn, Rm: rm, SetFlags: true}, nil
	case 0b10: // MOV (register), high registers
		return Instruction{Mnemonic: MnemMOV, Size: 2, Rd: rdn, Rm: rm, SetFlags: false}, nil
	case 0b11:
		l := (hw1 >> 7) & 0x1
		if l == 0 {
			return Instruction{Mnemonic: MnemBX, Size: 2, Rm: rm}, nil
		}
		return Instruction{Mnemonic: MnemBLX, Size: 2, Rm: rm}, nil
	}

	return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt16(hw1), pc)
}

// decodeLDRLiteral covers A5.2.3's near neighbour, LDR (literal), 01001 Rt imm8.
func decodeLDRLiteral(hw1 uint16, pc uint32) (Instruction, error) {
	rt := uint8((hw1 >> 8) & 0x7)
	imm8 := uint32(hw1 & 0xFF)
	return Instruction{
		Mnemonic: MnemLDR, Size: 2, Rd: rt, Imm: imm8 << 2,
		AddrMode: AddrModeLiteral, Add: true, Index: true,
	}, nil
}

// decodeLoadStoreSingle covers A5.2.4, the biggest 16-bit family: register-
// and immediate-offset LDR/STR/LDRB/STRB/LDRH/STRH, plus SP-relative
// LDR/STR. Byte/halfword signed loads are not in this firmware's
// instruction set and are left unrecognised.
func decodeLoadStoreSingle(hw1 uint16, pc uint32) (Instruction, error) {
	top4 := (hw1 >> 12) & 0xF
	l := (hw1 >> 11) & 1

	if top4 == 0b0101 { // register offset: 0101 op Rm Rn Rt
		op := (hw1 >> 9) & 0x7
		rm := uint8((hw1 >> 6) & 0x7)
		rn := uint8((hw1 >> 3) & 0x7)
		rt := uint8(hw1 & 0x7)
		base := Instruction{Rd: rt, Rn: rn, Rm: rm, AddrMode: AddrModeRegister, Add: true, Index: true,
			ShiftType: SRTypeLSL, ShiftAmount: 0, Size: 2}
		switch op {
		case 0b000:
			base.Mnemonic = MnemSTR
		case 0b001:
			base.Mnemonic = MnemSTRH
		case 0b010:
			base.Mnemonic = MnemSTRB
		case 0b100:
			base.Mnemonic = MnemLDR
		case 0b101:
			base.Mnemonic = MnemLDRH
		case 0b110:
			base.Mnemonic = MnemLDRB
		default:
			return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt16(hw1), pc)
		}
		return base, nil
	}

	imm5 := uint32((hw1 >> 6) & 0x1F)
	rn := uint8((hw1 >> 3) & 0x7)
	rt := uint8(hw1 & 0x7)

	switch top4 {
	case 0b0110: // STR/LDR (immediate, word)
		inst := Instruction{Rd: rt, Rn: rn, Imm: imm5 << 2, AddrMode: AddrModeImmediate, Add: true, Index: true, Size: 2}
		if l == 1 {
			inst.Mnemonic = MnemLDR
		} else {
			inst.Mnemonic = MnemSTR
		}
		return inst, nil

	case 0b0111: // STRB/LDRB (immediate)
		inst := Instruction{Rd: rt, Rn: rn, Imm: imm5, AddrMode: AddrModeImmediate, Add: true, Index: true, Size: 2}
		if l == 1 {
			inst.Mnemonic = MnemLDRB
		} else {
			inst.Mnemonic = MnemSTRB
		}
		return inst, nil

	case 0b1000: // STRH/LDRH (immediate)
		inst := Instruction{Rd: rt, Rn: rn, Imm: imm5 << 1, AddrMode: AddrModeImmediate, Add: true, Index: true, Size: 2}
		if l == 1 {
			inst.Mnemonic = MnemLDRH
		} else {
			inst.Mnemonic = MnemSTRH
		}
		return inst, nil

	case 0b1001: // STR/LDR (immediate, SP-relative)
		rt8 := uint8((hw1 >> 8) & 0x7)
		imm8 := uint32(hw1 & 0xFF)
		inst := Instruction{Rd: rt8, Rn: rSP, Imm: imm8 << 2, AddrMode: AddrModeImmediate, Add: true, Index: true, Size: 2}
		if l == 1 {
			inst.Mnemonic = MnemLDR
		} else {
			inst.Mnemonic = MnemSTR
		}
		return inst, nil
	}

	return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt16(hw1), pc)
}

// decodeGenerateAddress covers the 1010xx group: ADR (ADD from the aligned
// PC) and ADD Rd, SP, #imm8. Neither form sets flags.
func decodeGenerateAddress(hw1 uint16, pc uint32) (Instruction, error) {
	rd := uint8((hw1 >> 8) & 0x7)
	imm8 := uint32(hw1&0xFF) << 2
	if hw1&0x0800 == 0 { // ADR
		return Instruction{Mnemonic: MnemADD, Size: 2, Rd: rd, Imm: imm8, ImmOperand: true, AlignPC: true}, nil
	}
	return Instruction{Mnemonic: MnemADD, Size: 2, Rd: rd, Rn: rSP, Imm: imm8, ImmOperand: true}, nil
}

// decodeMisc16 covers A5.2.5: push/pop, SP adjustment, CBZ/CBNZ, IT, hints
// (NOP), CPS, and the extend/reverse family (UXTB is the only one this
// firmware uses).
func decodeMisc16(hw1 uint16, pc uint32) (Instruction, error) {
	switch {
	case (hw1 >> 7) == 0b101100000: // ADD SP, SP, #imm7
		imm7 := uint32(hw1&0x7F) << 2
		return Instruction{Mnemonic: MnemADD, Size: 2, Rd: rSP, Rn: rSP, Imm: imm7, ImmOperand: true}, nil

	case (hw1 >> 7) == 0b101100001: // SUB SP, SP, #imm7
		imm7 := uint32(hw1&0x7F) << 2
		return Instruction{Mnemonic: MnemSUB, Size: 2, Rd: rSP, Rn: rSP, Imm: imm7, ImmOperand: true}, nil
	}

	switch {
	case (hw1 >> 9) == 0b1011010: // PUSH: 1011 010 M reglist
		m := (hw1 >> 8) & 1
		reglist := hw1 & 0xFF
		return Instruction{Mnemonic: MnemPUSH, Size: 2, RegList: reglist, PushLR: m == 1}, nil

	case (hw1 >> 9) == 0b1011110: // POP: 1011 110 P reglist
		p := (hw1 >> 8) & 1
		reglist := hw1 & 0xFF
		return Instruction{Mnemonic: MnemPOP, Size: 2, RegList: reglist, PopPC: p == 1}, nil
	}

	// CBZ/CBNZ: 1011 op0 1 i 1 imm5 Rn, recognised as bits [15:12]=1011, bit10=0, bit8=1
	if hw1&0xF500 == 0xB100 {
		op := (hw1 >> 11) & 1
		i := (hw1 >> 9) & 1
		imm5 := (hw1 >> 3) & 0x1F
		rn := uint8(hw1 & 0x7)
		offset := int32(i<<6|imm5<<1) & 0x7F
		inst := Instruction{Rn: rn, BranchOffset: offset, Size: 2}
		if op == 1 {
			inst.Mnemonic = MnemCBNZ
		} else {
			inst.Mnemonic = MnemCBZ
		}
		return inst, nil
	}

	if hw1&0xFF00 == 0xBF00 { // IT / hints: 1011 1111 firstcond mask
		firstcond := uint8((hw1 >> 4) & 0xF)
		mask := uint8(hw1 & 0xF)
		if mask != 0 {
			return Instruction{Mnemonic: MnemIT, Size: 2, ITFirstCond: firstcond, ITMask: mask}, nil
		}
		if firstcond == 0 { // NOP
			return Instruction{Mnemonic: MnemNOP, Size: 2}, nil
		}
		// The rest of the hint space (YIELD, WFE, WFI, SEV) is well-defined
		// but outside this target's instruction set; report it rather than
		// aliasing it to NOP in the trace.
		return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt16(hw1), pc)
	}

	if hw1&0xFFC0 == 0xB2C0 { // UXTB: 1011 0010 11 Rm Rd
		rm := uint8((hw1 >> 3) & 0x7)
		rd := uint8(hw1 & 0x7)
		return Instruction{Mnemonic: MnemUXTB, Size: 2, Rd: rd, Rm: rm}, nil
	}

	if hw1&0xFFEC == 0xB660 { // CPS: 1011 0110 011 im 00 I F
		im := (hw1 >> 4) & 1
		i := (hw1 >> 1) & 1
		f := hw1 & 1
		return Instruction{Mnemonic: MnemCPS, Size: 2, CPSEnable: im == 0, CPSPrimask: i == 1, CPSFaultmask: f == 1}, nil
	}

	return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt16(hw1), pc)
}

// decodeConditionalBranch covers A5.2.6 (1101 cond imm8); cond 1111 is the
// SVC encoding and cond 1110 is UDF, neither of which this firmware uses.
func decodeConditionalBranch(hw1 uint16, pc uint32) (Instruction, error) {
	cond := uint8((hw1 >> 8) & 0xF)
	if cond >= 0b1110 { // 1110 is UDF, 1111 is SVC
		return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt16(hw1), pc)
	}
	imm8 := uint32(hw1 & 0xFF)
	offset := int32(signExtend(imm8<<1, 9))
	return Instruction{Mnemonic: MnemB, Size: 2, HasCond: true, Cond: cond, BranchOffset: offset}, nil
}

// decodeUnconditionalBranch16 covers the 11100x B (T2) encoding.
func decodeUnconditionalBranch16(hw1 uint16, pc uint32) (Instruction, error) {
	imm11 := uint32(hw1 & 0x7FF)
	offset := int32(signExtend(imm11<<1, 12))
	return Instruction{Mnemonic: MnemB, Size: 2, BranchOffset: offset}, nil
}
