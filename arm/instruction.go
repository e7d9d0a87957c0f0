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

// Mnemonic identifies the operation an Instruction performs. The decoder's
// job ends at producing one of these; exec.go holds one executor per
// mnemonic rather than one per encoding, so the many equivalent 16-bit and
// 32-bit spellings of e.g. ADD collapse onto a single code path.
type Mnemonic int

const (
	MnemUnknown Mnemonic = iota
	MnemADD
	MnemSUB
	MnemRSB
	MnemAND
	MnemORR
	MnemBIC
	MnemEOR
	MnemMVN
	MnemMOV
	MnemMOVT
	MnemMOVW
	MnemCMP
	MnemCMN
	MnemLSL
	MnemLSR
	MnemASR
	MnemB
	MnemBL
	MnemBX
	MnemBLX
	MnemCBZ
	MnemCBNZ
	MnemIT
	MnemLDR
	MnemLDRB
	MnemLDRH
	MnemSTR
	MnemSTRB
	MnemSTRH
	MnemPUSH
	MnemPOP
	MnemCPS
	MnemUBFX
	MnemUDIV
	MnemMLA
	MnemMLS
	MnemUXTB
	MnemNOP
)

func (m Mnemonic) String() string {
	switch m {
	case MnemADD:
		return "ADD"
	case MnemSUB:
		return "SUB"
	case MnemRSB:
		return "RSB"
	case MnemAND:
		return "AND"
	case MnemORR:
		return "ORR"
	case MnemBIC:
		return "BIC"
	case MnemEOR:
		return "EOR"
	case MnemMVN:
		return "MVN"
	case MnemMOV:
		return "MOV"
	case MnemMOVT:
		return "MOVT"
	case MnemMOVW:
		return "MOVW"
	case MnemCMP:
		return "CMP"
	case MnemCMN:
		return "CMN"
	case MnemLSL:
		return "LSL"
	case MnemLSR:
		return "LSR"
	case MnemASR:
		return "ASR"
	case MnemB:
		return "B"
	case MnemBL:
		return "BL"
	case MnemBX:
		return "BX"
	case MnemBLX:
		return "BLX"
	case MnemCBZ:
		return "CBZ"
	case MnemCBNZ:
		return "CBNZ"
	case MnemIT:
		return "IT"
	case MnemLDR:
		return "LDR"
	case MnemLDRB:
		return "LDRB"
	case MnemLDRH:
		return "LDRH"
	case MnemSTR:
		return "STR"
	case MnemSTRB:
		return "STRB"
	case MnemSTRH:
		return "STRH"
	case MnemPUSH:
		return "PUSH"
	case MnemPOP:
		return "POP"
	case MnemCPS:
		return "CPS"
	case MnemUBFX:
		return "UBFX"
	case MnemUDIV:
		return "UDIV"
	case MnemMLA:
		return "MLA"
	case MnemMLS:
		return "MLS"
	case MnemUXTB:
		return "UXTB"
	case MnemNOP:
		return "NOP"
	default:
		return "UNKNOWN"
	}
}

// AddrMode distinguishes the addressing variants LDR/STR share.
type AddrMode int

const (
	AddrModeImmediate AddrMode = iota
	AddrModeRegister
	AddrModeLiteral
)

// Instruction is a decoded, not-yet-executed Thumb instruction. Only the
// fields relevant to its Mnemonic are populated; the rest are zero.
type Instruction struct {
	Mnemonic Mnemonic
	Size     uint8 // 2 or 4, the encoding's width in bytes

	Raw1, Raw2 uint16

	HasCond bool // true for a standalone B<cond> encoding
	Cond    uint8

	Rd, Rn, Rm, Ra uint8
	SetFlags       bool
	AlignPC        bool // ADR: first operand is Align(PC,4) rather than a register

	// ImmOperand selects the second operand source for the data-processing
	// mnemonics that have both a register and an (immediate or
	// modified-immediate) form: true reads Imm, false reads Rm. Size
	// distinguishes a plain small immediate (2-byte encodings) from a
	// Thumb modified-immediate field (4-byte encodings) within that.
	ImmOperand bool

	Imm         uint32
	ShiftType   SRType
	ShiftAmount uint

	AddrMode AddrMode
	Add      bool // true: effective address adds the offset, false: subtracts
	Index    bool // pre-indexed (effective address used directly)
	WBack    bool // write the effective address back to Rn

	BranchOffset int32

	RegList uint16 // PUSH/POP register bitmask, bits 0..7 plus LR/PC flags below
	PushLR  bool
	PopPC   bool

	ITFirstCond, ITMask uint8

	CPSEnable    bool
	CPSPrimask   bool
	CPSFaultmask bool

	Widthm1 uint8
	Lsbit   uint8
}
