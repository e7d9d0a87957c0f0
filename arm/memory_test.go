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
	"testing"

	"github.com/kurin/teensytrace/errors"
)

// recoverCategory runs f, which is expected to panic with a category error,
// and returns the recovered error.
func recoverCategory(t *testing.T, f func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a fatal memory access to panic")
		}
		var ok bool
		if err, ok = r.(error); !ok {
			t.Fatalf("recovered %v, want an error value", r)
		}
	}()
	f()
	return nil
}

func TestSRAMWordRoundTrip(t *testing.T) {
	mem := NewMemory(nil)
	mem.WriteWord(0x20000040, 0x01234567)
	if got := mem.ReadWord(0x20000040); got != 0x01234567 {
		t.Fatalf("ReadWord = %08X, want 01234567", got)
	}
}

func TestFlashReadsBackImage(t *testing.T) {
	mem := NewMemory([]byte{0xBD, 0x01, 0x00, 0x00})
	if got := mem.ReadWord(0); got != 0x000001BD {
		t.Fatalf("ReadWord(0) = %08X, want 000001BD", got)
	}
}

func TestWriteToFlashIsFatal(t *testing.T) {
	mem := NewMemory(nil)
	err := recoverCategory(t, func() { mem.WriteByte(0x00000100, 0xAA) })
	if !errors.Is(err, errors.WriteToFlash) {
		t.Fatalf("expected WriteToFlash, got %v", err)
	}
}

func TestUnmappedAccessIsFatal(t *testing.T) {
	mem := NewMemory(nil)

	err := recoverCategory(t, func() { mem.ReadByte(0x10000000) })
	if !errors.Is(err, errors.UnmappedAccess) {
		t.Fatalf("expected UnmappedAccess on read, got %v", err)
	}

	err = recoverCategory(t, func() { mem.WriteByte(0x10000000, 1) })
	if !errors.Is(err, errors.UnmappedAccess) {
		t.Fatalf("expected UnmappedAccess on write, got %v", err)
	}
}

func TestPeripheralWritesAreDiscarded(t *testing.T) {
	mem := NewMemory(nil)
	mem.WriteWord(0x40048038, 0xFFFFFFFF) // SIM_SCGC5
	if got := mem.ReadWord(0x40048038); got != 0 {
		t.Fatalf("peripheral readback = %08X, want 0 (writes are discarded)", got)
	}
}

func TestBitBandAndPPBReadZero(t *testing.T) {
	mem := NewMemory(nil)
	if got := mem.ReadWord(0x42000010); got != 0 {
		t.Fatalf("bit-band read = %08X, want 0", got)
	}
	if got := mem.ReadWord(0xE000E100); got != 0 {
		t.Fatalf("PPB read = %08X, want 0", got)
	}
}

func TestAddressNames(t *testing.T) {
	if got := addressName(0x40052000); got != "WDOG_STCTRLH" {
		t.Fatalf("got %q, want WDOG_STCTRLH", got)
	}
	if got := addressName(0xE000E100); got != "NVIC_ISER0" {
		t.Fatalf("got %q, want NVIC_ISER0", got)
	}
	if got := addressName(0xE0001234); got != ppbLabel {
		t.Fatalf("got %q, want the generic PPB label", got)
	}
	if got := addressName(0x20000000); got != "" {
		t.Fatalf("got %q, want the empty name", got)
	}
}

func TestZeroByteModifiedImmediateIsUnpredictable(t *testing.T) {
	var r Registers
	mem := NewMemory(nil)
	// MOV.W R0, #<imm12=0x100>: the 00XY00XY replicating form with XY == 00.
	inst := Instruction{Mnemonic: MnemMOV, Size: 4, Rd: 0, Imm: 0x100, ImmOperand: true}
	_, err := r.Execute(inst, mem, nullTracer{})
	if !errors.Is(err, errors.UnpredictableEncoding) {
		t.Fatalf("expected UnpredictableEncoding, got %v", err)
	}
}

func TestUDIVByZeroIsFatal(t *testing.T) {
	var r Registers
	mem := NewMemory(nil)
	r.R[1] = 100
	inst := Instruction{Mnemonic: MnemUDIV, Size: 4, Rd: 0, Rn: 1, Rm: 2}
	_, err := r.Execute(inst, mem, nullTracer{})
	if !errors.Is(err, errors.IllegalState) {
		t.Fatalf("expected IllegalState for UDIV by zero, got %v", err)
	}
}

func TestUBFXRangeIsFatal(t *testing.T) {
	var r Registers
	mem := NewMemory(nil)
	inst := Instruction{Mnemonic: MnemUBFX, Size: 4, Rd: 0, Rn: 1, Lsbit: 28, Widthm1: 7}
	_, err := r.Execute(inst, mem, nullTracer{})
	if !errors.Is(err, errors.IllegalState) {
		t.Fatalf("expected IllegalState for an out-of-range bit field, got %v", err)
	}
}
