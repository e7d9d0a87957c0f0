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

import "testing"

func TestDecodeADR(t *testing.T) {
	// ADR R2, #16 → 1010 0 010 00000100
	inst, err := decodeThumb16(0xA204, 0)
	if err != nil {
		t.Fatalf("decodeThumb16: %v", err)
	}
	if inst.Mnemonic != MnemADD || !inst.AlignPC {
		t.Fatalf("ADR must decode to an aligned-PC ADD, got %v AlignPC=%v", inst.Mnemonic, inst.AlignPC)
	}
	if inst.Imm != 16 {
		t.Fatalf("Imm = %d, want 16 (imm8 scaled by 4)", inst.Imm)
	}
}

func TestDecodeAddSPImm8(t *testing.T) {
	// ADD R1, SP, #32 → 1010 1 001 00001000
	inst, err := decodeThumb16(0xA908, 0)
	if err != nil {
		t.Fatalf("decodeThumb16: %v", err)
	}
	if inst.Mnemonic != MnemADD || inst.Rn != rSP || inst.Rd != 1 {
		t.Fatalf("got %v Rn=%d Rd=%d, want ADD Rn=SP Rd=1", inst.Mnemonic, inst.Rn, inst.Rd)
	}
	if inst.Imm != 32 || inst.SetFlags {
		t.Fatalf("Imm=%d SetFlags=%v, want 32/false", inst.Imm, inst.SetFlags)
	}
}

func TestDecodeSPAdjust(t *testing.T) {
	// ADD SP, SP, #8 → 1011 0000 0 0000010
	inst, err := decodeThumb16(0xB002, 0)
	if err != nil {
		t.Fatalf("decodeThumb16: %v", err)
	}
	if inst.Mnemonic != MnemADD || inst.Rd != rSP || inst.Rn != rSP || inst.Imm != 8 {
		t.Fatalf("got %v Rd=%d Rn=%d Imm=%d, want ADD SP,SP,#8", inst.Mnemonic, inst.Rd, inst.Rn, inst.Imm)
	}

	// SUB SP, SP, #8 → 1011 0000 1 0000010
	inst, err = decodeThumb16(0xB082, 0)
	if err != nil {
		t.Fatalf("decodeThumb16: %v", err)
	}
	if inst.Mnemonic != MnemSUB || inst.Rd != rSP || inst.Rn != rSP || inst.Imm != 8 {
		t.Fatalf("got %v Rd=%d Rn=%d Imm=%d, want SUB SP,SP,#8", inst.Mnemonic, inst.Rd, inst.Rn, inst.Imm)
	}
}

func TestDecodeShiftImmZeroMeans32(t *testing.T) {
	// LSRS R0, R1, #0 → 0000 1 00000 001 000: imm5 == 0 encodes a 32-bit shift
	inst, err := decodeThumb16(0x0808, 0)
	if err != nil {
		t.Fatalf("decodeThumb16: %v", err)
	}
	if inst.Mnemonic != MnemLSR || inst.Imm != 32 {
		t.Fatalf("got %v Imm=%d, want LSR #32", inst.Mnemonic, inst.Imm)
	}

	// ASRS R0, R1, #0
	inst, err = decodeThumb16(0x1008, 0)
	if err != nil {
		t.Fatalf("decodeThumb16: %v", err)
	}
	if inst.Mnemonic != MnemASR || inst.Imm != 32 {
		t.Fatalf("got %v Imm=%d, want ASR #32", inst.Mnemonic, inst.Imm)
	}
}

func TestDecodeHintSpace(t *testing.T) {
	// NOP: 1011 1111 0000 0000.
	inst, err := decodeThumb16(0xBF00, 0)
	if err != nil {
		t.Fatalf("decodeThumb16: %v", err)
	}
	if inst.Mnemonic != MnemNOP {
		t.Fatalf("got %v, want NOP", inst.Mnemonic)
	}

	// The other hints (YIELD, WFE, WFI, SEV) must not alias to NOP.
	for _, hw := range []uint16{0xBF10, 0xBF20, 0xBF30, 0xBF40} {
		if _, err := decodeThumb16(hw, 0); err == nil {
			t.Fatalf("%04X: expected the hint to be reported, not decoded as NOP", hw)
		}
	}
}

func TestDecodeCBZAndCBNZ(t *testing.T) {
	// CBZ R3, +8 → 1011 0 0 0 1 00100 011
	inst, err := decodeThumb16(0xB123, 0)
	if err != nil {
		t.Fatalf("decodeThumb16: %v", err)
	}
	if inst.Mnemonic != MnemCBZ || inst.Rn != 3 || inst.BranchOffset != 8 {
		t.Fatalf("got %v Rn=%d off=%d, want CBZ R3 +8", inst.Mnemonic, inst.Rn, inst.BranchOffset)
	}

	// CBNZ R3, +8 → same with op (bit 11) set
	inst, err = decodeThumb16(0xB923, 0)
	if err != nil {
		t.Fatalf("decodeThumb16: %v", err)
	}
	if inst.Mnemonic != MnemCBNZ {
		t.Fatalf("got %v, want CBNZ", inst.Mnemonic)
	}
}
