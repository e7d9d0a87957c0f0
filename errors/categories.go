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

package errors

// Category message templates, one per error kind in the system's error
// handling design. Is() matches one of these against the outermost error
// only; Has() matches it however many layers have wrapped it on the way up.
const (
	// HexParse covers every way an I8HEX file can be malformed: a bad
	// record, a bad checksum, a non-contiguous load address, or an
	// unsupported record type.
	HexParse = "hex parse error: %v"

	// IO covers file open/read/write failure.
	IO = "I/O error: %v"

	// UnknownOpcode is raised when the decoder reaches a leaf table entry
	// with no matching case.
	UnknownOpcode = "unknown opcode %s at PC %08X"

	// UnmappedAccess is raised when a memory access falls outside every
	// defined region of the address space.
	UnmappedAccess = "unmapped memory access: %v"

	// WriteToFlash is raised on any attempted write to the flash region.
	WriteToFlash = "write to flash at %08X"

	// IllegalState covers contract violations the ARM pseudocode declares
	// impossible: LDR or POP to PC without bit 0 set, UDIV by zero, an
	// out-of-range UBFX bit field, and similar.
	IllegalState = "illegal processor state: %v"

	// UnpredictableEncoding is raised when the decoder reaches an encoding
	// the ARMv7-M architecture reference manual declares UNPREDICTABLE or
	// UNDEFINED.
	UnpredictableEncoding = "unpredictable encoding %s at PC %08X"
)
