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

func TestAddWithCarry(t *testing.T) {
	cases := []struct {
		name           string
		x, y, carryIn  uint32
		result         uint32
		carry, overflow bool
	}{
		{"simple sum", 1, 1, 0, 2, false, false},
		{"carry out", 0xFFFFFFFF, 1, 0, 0, true, false},
		{"carry in propagates", 0xFFFFFFFE, 1, 1, 0, true, false},
		{"signed overflow", 0x7FFFFFFF, 1, 0, 0x80000000, false, true},
		{"signed underflow", 0x80000000, 0xFFFFFFFF, 0, 0x7FFFFFFF, true, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, carry, overflow := AddWithCarry(c.x, c.y, c.carryIn)
			if result != c.result || carry != c.carry || overflow != c.overflow {
				t.Fatalf("AddWithCarry(%08X,%08X,%d) = %08X,%v,%v, want %08X,%v,%v",
					c.x, c.y, c.carryIn, result, carry, overflow, c.result, c.carry, c.overflow)
			}
		})
	}
}

func TestShiftCBoundaries(t *testing.T) {
	if v, c := Shift_C(1, SRTypeLSL, 32, false); v != 0 || !c {
		t.Fatalf("LSL by 32 of 1 = %08X,%v, want 0,true", v, c)
	}
	if v, c := Shift_C(1, SRTypeLSL, 33, true); v != 0 || c {
		t.Fatalf("LSL by 33 of 1 = %08X,%v, want 0,false", v, c)
	}
	if v, c := Shift_C(0x80000000, SRTypeLSR, 32, false); v != 0 || !c {
		t.Fatalf("LSR by 32 of 0x80000000 = %08X,%v, want 0,true", v, c)
	}
	if v, c := Shift_C(0x80000000, SRTypeASR, 32, false); v != 0xFFFFFFFF || !c {
		t.Fatalf("ASR by 32 of a negative value = %08X,%v, want FFFFFFFF,true", v, c)
	}
	if v, c := Shift_C(0x00000001, SRTypeRRX, 1, true); v != 0x80000000 || !c {
		t.Fatalf("RRX of 1 with carry in = %08X,%v, want 80000000,true", v, c)
	}
	if v, _ := Shift_C(0xF0F0F0F0, SRTypeNone, 5, true); v != 0xF0F0F0F0 {
		t.Fatalf("SRTypeNone must be the identity, got %08X", v)
	}
}

func TestDecodeImmShift(t *testing.T) {
	if typ, amt := DecodeImmShift(0b01, 0); typ != SRTypeLSR || amt != 32 {
		t.Fatalf("LSR #0 must decode to a shift of 32, got %v,%d", typ, amt)
	}
	if typ, amt := DecodeImmShift(0b11, 0); typ != SRTypeRRX || amt != 1 {
		t.Fatalf("ROR #0 must decode to RRX #1, got %v,%d", typ, amt)
	}
	if typ, amt := DecodeImmShift(0b11, 4); typ != SRTypeROR || amt != 4 {
		t.Fatalf("ROR #4 got %v,%d", typ, amt)
	}
}

func TestThumbExpandImmC(t *testing.T) {
	// top==0, 00: imm8 unchanged.
	if v, _, ok := ThumbExpandImm_C(0x007F, false); v != 0x7F || !ok {
		t.Fatalf("plain imm8 expansion got %08X,%v, want 7F,true", v, ok)
	}
	// top==0, 01: 00XY00XY.
	if v, _, ok := ThumbExpandImm_C(0x01AB, false); v != 0x00AB00AB || !ok {
		t.Fatalf("00XY00XY expansion got %08X,%v, want 00AB00AB,true", v, ok)
	}
	// Rotated form: unrotated 0x80 (low7 all zero), rotated right by 8.
	v, c, ok := ThumbExpandImm_C(0x0400, false)
	want := uint32(0x80000000)
	if v != want || !c || !ok {
		t.Fatalf("rotated expansion got %08X,%v,%v, want %08X,true,true", v, c, ok, want)
	}
}

func TestThumbExpandImmCZeroByteIsUnpredictable(t *testing.T) {
	// A zero byte in the 01, 10 and 11 replicating forms has no defined
	// expansion. The plain 00 form is the one place a zero byte is fine.
	for _, imm12 := range []uint16{0x0100, 0x0200, 0x0300} {
		if _, _, ok := ThumbExpandImm_C(imm12, false); ok {
			t.Fatalf("imm12 %03X: a zero-byte replicating expansion must be rejected", imm12)
		}
	}
	if _, _, ok := ThumbExpandImm_C(0x0000, false); !ok {
		t.Fatal("the plain zero immediate must still expand")
	}
}

func TestSignExtend(t *testing.T) {
	if v := signExtend(0x7F, 8); v != 0x7F {
		t.Fatalf("positive 8-bit field got %08X, want 7F", v)
	}
	if v := signExtend(0xFF, 8); v != 0xFFFFFFFF {
		t.Fatalf("negative 8-bit field got %08X, want FFFFFFFF", v)
	}
}
