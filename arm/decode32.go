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

// decodeThumb32 classifies a 32-bit Thumb instruction using the §A5.3
// encoding tables. Only the encodings this target's instruction set names
// are recognised; every other 32-bit form is an unknown opcode.
func decodeThumb32(hw1, hw2 uint16, pc uint32) (Instruction, error) {
	op1 := (hw1 >> 11) & 0x3 // bits 12:11

	switch op1 {
	case 0b01:
		return decodeThumb32Group01(hw1, hw2, pc)
	case 0b10:
		return decodeThumb32Group10(hw1, hw2, pc)
	case 0b11:
		return decodeThumb32Group11(hw1, hw2, pc)
	}

	return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt32(hw1, hw2), pc)
}

func fmt32(hw1, hw2 uint16) string {
	return bitString(uint32(hw1), 16) + " " + bitString(uint32(hw2), 16)
}

// decodeThumb32Group01 covers load/store multiple (PUSH/POP's 32-bit
// forms), load/store dual/exclusive, data-processing (shifted register),
// and coprocessor. This firmware's semantics list never needs the 32-bit
// STM/LDM forms, so no encoding in this group is recognised: every one is
// reported as an unknown opcode.
func decodeThumb32Group01(hw1, hw2 uint16, pc uint32) (Instruction, error) {
	return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt32(hw1, hw2), pc)
}

// decodeThumb32Group10 covers data-processing (modified immediate),
// data-processing (plain binary immediate, i.e. MOVW/MOVT), and branches
// and misc control (B T3/T4, BL).
func decodeThumb32Group10(hw1, hw2 uint16, pc uint32) (Instruction, error) {
	// B T3: conditional 32-bit branch. cond 111x is not a branch but the
	// misc-control space (MSR, barriers, hints), none of which this target's
	// instruction set reaches.
	if hw1&0xF800 == 0xF000 && hw2&0xD000 == 0x8000 && (hw1>>7)&0x7 != 0b111 {
		cond := uint8((hw1 >> 6) & 0xF)
		s := uint32((hw1 >> 10) & 1)
		imm6 := uint32(hw1 & 0x3F)
		j1 := uint32((hw2 >> 13) & 1)
		j2 := uint32((hw2 >> 11) & 1)
		imm11 := uint32(hw2 & 0x7FF)
		imm32raw := s<<20 | j2<<19 | j1<<18 | imm6<<12 | imm11<<1
		offset := int32(signExtend(imm32raw, 21))
		return Instruction{Mnemonic: MnemB, Size: 4, HasCond: true, Cond: cond, BranchOffset: offset}, nil
	}

	if hw1&0xF800 == 0xF000 && hw2&0xD000 == 0x9000 { // B T4: unconditional 32-bit branch
		s := uint32((hw1 >> 10) & 1)
		imm10 := uint32(hw1 & 0x3FF)
		j1 := uint32((hw2 >> 13) & 1)
		j2 := uint32((hw2 >> 11) & 1)
		imm11 := uint32(hw2 & 0x7FF)
		i1 := 1 - (j1 ^ s)
		i2 := 1 - (j2 ^ s)
		imm32raw := s<<24 | i1<<23 | i2<<22 | imm10<<12 | imm11<<1
		offset := int32(signExtend(imm32raw, 25))
		return Instruction{Mnemonic: MnemB, Size: 4, BranchOffset: offset}, nil
	}

	if hw2&0xD000 == 0xD000 { // BL T1: hw2[15]=1, hw2[14]=1, hw2[12]=1 (J1/J2 vary)
		s := uint32((hw1 >> 10) & 1)
		imm10 := uint32(hw1 & 0x3FF)
		j1 := uint32((hw2 >> 13) & 1)
		j2 := uint32((hw2 >> 11) & 1)
		imm11 := uint32(hw2 & 0x7FF)
		i1 := 1 - (j1 ^ s)
		i2 := 1 - (j2 ^ s)
		imm32raw := s<<24 | i1<<23 | i2<<22 | imm10<<12 | imm11<<1
		offset := int32(signExtend(imm32raw, 25))
		return Instruction{Mnemonic: MnemBL, Size: 4, BranchOffset: offset}, nil
	}

	if hw1&0xFBF0 == 0xF2C0 { // MOVT: 11110 i 10 1 1 0 0 imm4 / 0 imm3 Rd imm8
		imm4 := uint32(hw1 & 0xF)
		i := uint32((hw1 >> 10) & 1)
		imm3 := uint32((hw2 >> 12) & 0x7)
		rd := uint8((hw2 >> 8) & 0xF)
		imm8 := uint32(hw2 & 0xFF)
		imm16 := imm4<<12 | i<<11 | imm3<<8 | imm8
		return Instruction{Mnemonic: MnemMOVT, Size: 4, Rd: rd, Imm: imm16}, nil
	}

	if hw1&0xFBF0 == 0xF240 { // MOVW: 11110 i 10 0 1 0 0 imm4 / 0 imm3 Rd imm8
		imm4 := uint32(hw1 & 0xF)
		i := uint32((hw1 >> 10) & 1)
		imm3 := uint32((hw2 >> 12) & 0x7)
		rd := uint8((hw2 >> 8) & 0xF)
		imm8 := uint32(hw2 & 0xFF)
		imm16 := imm4<<12 | i<<11 | imm3<<8 | imm8
		return Instruction{Mnemonic: MnemMOVW, Size: 4, Rd: rd, Imm: imm16}, nil
	}

	if hw1&0xFBF0 == 0xF3C0 && hw2&0x8000 == 0 { // UBFX: 11110 (0) 111100 Rn / 0 imm3 Rd imm2 (0) widthm1
		rn := uint8(hw1 & 0xF)
		widthm1 := uint8(hw2 & 0x1F)
		rd := uint8((hw2 >> 8) & 0xF)
		imm3 := uint8((hw2 >> 12) & 0x7)
		imm2 := uint8((hw2 >> 6) & 0x3)
		lsbit := imm3<<2 | imm2
		return Instruction{Mnemonic: MnemUBFX, Size: 4, Rd: rd, Rn: rn, Lsbit: lsbit, Widthm1: widthm1}, nil
	}

	// Data-processing (modified immediate): 11110 i op(4) S Rn / 0 imm3 Rd imm8
	if hw1&0xFA00 == 0xF000 && hw2&0x8000 == 0 {
		i := uint16((hw1 >> 10) & 1)
		op := (hw1 >> 5) & 0xF
		s := (hw1 >> 4) & 1
		rn := uint8(hw1 & 0xF)
		imm3 := (hw2 >> 12) & 0x7
		rd := uint8((hw2 >> 8) & 0xF)
		imm8 := hw2 & 0xFF
		imm12 := i<<11 | imm3<<8 | imm8

		base := Instruction{Size: 4, Rd: rd, Rn: rn, Imm: uint32(imm12), SetFlags: s == 1, ImmOperand: true}
		switch op {
		case 0b0000:
			base.Mnemonic = MnemAND
		case 0b0001:
			base.Mnemonic = MnemBIC
		case 0b0010:
			if rn == 0xF {
				base.Mnemonic = MnemMOV
			} else {
				base.Mnemonic = MnemORR
			}
		case 0b0011:
			if rn != 0xF { // ORN is outside this target's instruction set
				return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt32(hw1, hw2), pc)
			}
			base.Mnemonic = MnemMVN
		case 0b0100:
			base.Mnemonic = MnemEOR
		case 0b1000:
			if rd == 0xF && s == 1 {
				base.Mnemonic = MnemCMN
			} else {
				base.Mnemonic = MnemADD
			}
		case 0b1101:
			if rd == 0xF && s == 1 {
				base.Mnemonic = MnemCMP
			} else {
				base.Mnemonic = MnemSUB
			}
		case 0b1110:
			base.Mnemonic = MnemRSB
		default:
			return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt32(hw1, hw2), pc)
		}
		return base, nil
	}

	return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt32(hw1, hw2), pc)
}

// decodeThumb32Group11 covers store single, load byte/halfword/word,
// data-processing (register), multiply/divide, and coprocessor.
func decodeThumb32Group11(hw1, hw2 uint16, pc uint32) (Instruction, error) {
	rn := uint8(hw1 & 0xF)

	switch {
	case hw1&0xFFF0 == 0xFB00 && hw2&0x00F0 == 0x0000: // MUL / MLA: 111110110000 Rn / Ra Rd 0000 Rm
		rd := uint8((hw2 >> 8) & 0xF)
		ra := uint8((hw2 >> 12) & 0xF)
		rm := uint8(hw2 & 0xF)
		if ra == 0xF {
			return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt32(hw1, hw2), pc) // MUL not in this firmware's list
		}
		return Instruction{Mnemonic: MnemMLA, Size: 4, Rd: rd, Rn: rn, Rm: rm, Ra: ra}, nil

	case hw1&0xFFF0 == 0xFB00 && hw2&0x00F0 == 0x0010: // MLS: 111110110000 Rn / Ra Rd 0001 Rm
		rd := uint8((hw2 >> 8) & 0xF)
		ra := uint8((hw2 >> 12) & 0xF)
		rm := uint8(hw2 & 0xF)
		return Instruction{Mnemonic: MnemMLS, Size: 4, Rd: rd, Rn: rn, Rm: rm, Ra: ra}, nil

	case hw1&0xFFF0 == 0xFBB0 && hw2&0xF0F0 == 0xF0F0: // UDIV: 111110111011 Rn / Rd 1111 Rm
		rd := uint8((hw2 >> 8) & 0xF)
		rm := uint8(hw2 & 0xF)
		return Instruction{Mnemonic: MnemUDIV, Size: 4, Rd: rd, Rn: rn, Rm: rm}, nil
	}

	// Load/store (immediate, 12-bit positive offset) and (register):
	// covers the 32-bit LDR/STR/LDRB/STRB/LDRH/STRH forms this firmware
	// needs when the 8-bit-immediate encodings in §A5.2.4 can't reach far
	// enough, or when the base/index register is from R8-R15.
	if hw1&0xFF00 == 0xF800 { // 11111000 size L Rn: load/store byte/halfword/word (unsigned; 0xF9xx is the signed space)
		l := (hw1 >> 4) & 1
		size := (hw1 >> 5) & 0x3 // 00=byte, 01=halfword, 10=word
		rt := uint8((hw2 >> 12) & 0xF)

		if rn == 0xF { // literal: PC-relative, U is hw1 bit 7
			imm12 := uint32(hw2 & 0xFFF)
			inst := Instruction{Rd: rt, Imm: imm12, AddrMode: AddrModeLiteral, Add: hw1&0x0080 != 0, Index: true, Size: 4}
			return finishLoadStoreSize(inst, l, size, hw1, hw2, pc)
		}
		if hw1&0x0080 != 0 { // 12-bit immediate, always added (T3 forms)
			imm12 := uint32(hw2 & 0xFFF)
			inst := Instruction{Rd: rt, Rn: rn, Imm: imm12, AddrMode: AddrModeImmediate, Add: true, Index: true, Size: 4}
			return finishLoadStoreSize(inst, l, size, hw1, hw2, pc)
		}
		if hw2&0x0800 != 0 { // imm8 with explicit P/U/W: added or subtracted offset, pre- or post-indexed
			imm8 := uint32(hw2 & 0xFF)
			index := hw2&0x0400 != 0
			add := hw2&0x0200 != 0
			wback := hw2&0x0100 != 0
			inst := Instruction{Rd: rt, Rn: rn, Imm: imm8, AddrMode: AddrModeImmediate, Add: add, Index: index, WBack: wback, Size: 4}
			return finishLoadStoreSize(inst, l, size, hw1, hw2, pc)
		}
		if hw2&0x0FC0 == 0 { // register offset with LSL shift: Rm, imm2
			rm := uint8(hw2 & 0xF)
			imm2 := uint(hw2>>4) & 0x3
			inst := Instruction{Rd: rt, Rn: rn, Rm: rm, AddrMode: AddrModeRegister, Add: true, Index: true,
				ShiftType: SRTypeLSL, ShiftAmount: imm2, Size: 4}
			return finishLoadStoreSize(inst, l, size, hw1, hw2, pc)
		}
	}

	return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt32(hw1, hw2), pc)
}

func finishLoadStoreSize(inst Instruction, l uint16, size uint16, hw1, hw2 uint16, pc uint32) (Instruction, error) {
	switch size {
	case 0b00:
		if l == 1 {
			inst.Mnemonic = MnemLDRB
		} else {
			inst.Mnemonic = MnemSTRB
		}
	case 0b01:
		if l == 1 {
			inst.Mnemonic = MnemLDRH
		} else {
			inst.Mnemonic = MnemSTRH
		}
	case 0b10:
		if l == 1 {
			inst.Mnemonic = MnemLDR
		} else {
			inst.Mnemonic = MnemSTR
		}
	default:
		return Instruction{}, errors.Errorf(errors.UnknownOpcode, fmt32(hw1, hw2), pc)
	}
	return inst, nil
}
