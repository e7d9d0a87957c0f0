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
	"encoding/binary"
	"fmt"

	"github.com/kurin/teensytrace/errors"
)

// Region bounds of the address space this emulator partitions. Addresses
// outside all of these are unmapped and every access to them is fatal.
const (
	flashBase = 0x00000000
	flashTop  = 0x07FFFFFF

	// flashSize is the physical program flash of the MK20DX256; the rest
	// of the flash decode window reads as erased-to-zero.
	flashSize = 256 * 1024

	sramBase = 0x1FFF8000
	sramTop  = 0x20007FFF

	peripheralBase = 0x40000000
	peripheralTop  = 0x400FFFFF

	bitBandBase = 0x42000000
	bitBandTop  = 0x43FFFFFF

	ppbBase = 0xE0000000
	ppbTop  = 0xE00FFFFF
)

// Tracer receives one formatted note per observable memory or register side
// effect, plus one Instruction header per step. The stepper and instruction
// semantics share this interface (see package trace) so that instruction
// tracing and memory tracing interleave in program order.
type Tracer interface {
	Notef(format string, args ...any)
	Instruction(pc uint32, hw1, hw2 uint16, is32 bool, mnemonic string)
}

// nullTracer discards every note; used when a caller doesn't care to
// observe memory traffic (unit tests, mostly).
type nullTracer struct{}

func (nullTracer) Notef(string, ...any)                             {}
func (nullTracer) Instruction(uint32, uint16, uint16, bool, string) {}

// PeripheralModel answers a scripted read for one peripheral register. It
// returns ok == false to decline, letting the memory map fall through to
// its default (discarded writes, zero reads).
type PeripheralModel interface {
	Read(addr uint32) (value uint8, ok bool)
}

// Memory is the address-decoded byte/halfword/word load and store engine
// described by the memory map: flash, SRAM, a scripted peripheral region,
// the bit-band alias, and the Private Peripheral Bus.
type Memory struct {
	flash []byte
	sram  []byte

	// eeprom models the MK20DX256's 2 KiB of FlexRAM-backed EEPROM. No
	// bus region reaches it: the target firmware configures but never
	// reads or writes it, so it exists only to complete the device model.
	eeprom []byte

	peripherals []PeripheralModel

	Trace Tracer
}

// NewMemory creates a Memory instance with image loaded at the base of
// flash and a zeroed SRAM bank. The scripted peripheral registers the
// firmware is known to poll (FTFL_FSTAT, MCG_S, the systick millis
// counter) are wired in by default.
func NewMemory(image []byte) *Memory {
	m := &Memory{
		flash:  make([]byte, flashSize),
		sram:   make([]byte, sramTop-sramBase+1),
		eeprom: make([]byte, 2048),
		Trace:  nullTracer{},
	}
	copy(m.flash, image)
	m.peripherals = []PeripheralModel{
		newFTFLFSTAT(),
		newMCGS(),
		newSystickMillis(),
	}
	return m
}

func inRange(addr, base, top uint32) bool { return addr >= base && addr <= top }

// ReadByte returns the byte owning addr. A read outside every defined
// region is fatal.
func (m *Memory) ReadByte(addr uint32) uint8 {
	v := m.readByteQuiet(addr)
	m.Trace.Notef("READ (%s) MemU[%08X,1] = %02X", addressName(addr), addr, v)
	return v
}

func (m *Memory) readByteQuiet(addr uint32) uint8 {
	// Scripted registers take priority over their backing region: the
	// systick millis counter lives inside the SRAM range but must be
	// intercepted before the plain byte array answers the read.
	for _, p := range m.peripherals {
		if v, ok := p.Read(addr); ok {
			return v
		}
	}

	switch {
	case inRange(addr, flashBase, flashTop):
		if int(addr-flashBase) >= len(m.flash) {
			return 0
		}
		return m.flash[addr-flashBase]
	case inRange(addr, sramBase, sramTop):
		return m.sram[addr-sramBase]
	case inRange(addr, peripheralBase, peripheralTop):
		return 0
	case inRange(addr, bitBandBase, bitBandTop):
		return 0
	case inRange(addr, ppbBase, ppbTop):
		return 0
	default:
		panic(errors.Errorf(errors.UnmappedAccess, fmt.Sprintf("read at %08X", addr)))
	}
}

// ReadHalfword returns a little-endian 16-bit value built from two byte
// reads. Each byte goes through the scripted path, so a counter-driven
// register advances once per halfword read: only the byte at the register's
// own address matches its model.
func (m *Memory) ReadHalfword(addr uint32) uint16 {
	v := m.FetchHalfword(addr)
	m.Trace.Notef("READ (%s) MemU[%08X,2] = %04X", addressName(addr), addr, v)
	return v
}

// FetchHalfword is ReadHalfword without the trace note. The stepper uses it
// for instruction fetch, which is not a data access and does not appear in
// the trace; the decoded instruction's own header line stands in for it.
func (m *Memory) FetchHalfword(addr uint32) uint16 {
	lo := m.readByteQuiet(addr)
	hi := m.readByteQuiet(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// ReadWord returns a little-endian 32-bit value built from four byte
// reads.
func (m *Memory) ReadWord(addr uint32) uint32 {
	var b [4]byte
	for i := range b {
		b[i] = m.readByteQuiet(addr + uint32(i))
	}
	v := binary.LittleEndian.Uint32(b[:])
	m.Trace.Notef("READ (%s) MemU[%08X,4] = %08X", addressName(addr), addr, v)
	return v
}

// WriteByte stores v at addr. Writes to flash are fatal; writes to the
// peripheral/bit-band/PPB regions are acknowledged but discarded.
func (m *Memory) WriteByte(addr uint32, v uint8) {
	m.writeByteQuiet(addr, v)
	m.Trace.Notef("WRITE (%s) MemU[%08X,1] = %02X", addressName(addr), addr, v)
}

// WriteHalfword stores v at addr, little-endian.
func (m *Memory) WriteHalfword(addr uint32, v uint16) {
	m.writeHalfwordQuiet(addr, v)
	m.Trace.Notef("WRITE (%s) MemU[%08X,2] = %04X", addressName(addr), addr, v)
}

func (m *Memory) writeHalfwordQuiet(addr uint32, v uint16) {
	m.writeByteQuiet(addr, uint8(v))
	m.writeByteQuiet(addr+1, uint8(v>>8))
}

// WriteWord stores v at addr, little-endian.
func (m *Memory) WriteWord(addr uint32, v uint32) {
	m.writeByteQuiet(addr, uint8(v))
	m.writeByteQuiet(addr+1, uint8(v>>8))
	m.writeByteQuiet(addr+2, uint8(v>>16))
	m.writeByteQuiet(addr+3, uint8(v>>24))
	m.Trace.Notef("WRITE (%s) MemU[%08X,4] = %08X", addressName(addr), addr, v)
}

func (m *Memory) writeByteQuiet(addr uint32, v uint8) {
	switch {
	case inRange(addr, flashBase, flashTop):
		panic(errors.Errorf(errors.WriteToFlash, addr))
	case inRange(addr, sramBase, sramTop):
		m.sram[addr-sramBase] = v
	case inRange(addr, peripheralBase, peripheralTop),
		inRange(addr, bitBandBase, bitBandTop),
		inRange(addr, ppbBase, ppbTop):
	default:
		panic(errors.Errorf(errors.UnmappedAccess, fmt.Sprintf("write at %08X", addr)))
	}
}
