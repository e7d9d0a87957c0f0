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

// The scripted peripheral registers below exist only to make the
// firmware's polling loops terminate; no other peripheral behaviour is
// modelled. Each is a tiny stateful object behind the PeripheralModel
// capability; the memory map itself holds no counter state.

const (
	ftflFstatAddr = 0x40020000
	mcgSAddr      = 0x40064006
	systickMillis = 0x1FFF8AE8
)

// ftflFSTAT always reports the flash controller as idle and the last
// command as successful.
type ftflFSTAT struct{}

func newFTFLFSTAT() PeripheralModel { return ftflFSTAT{} }

func (ftflFSTAT) Read(addr uint32) (uint8, bool) {
	if addr != ftflFstatAddr {
		return 0, false
	}
	return 0x80, true
}

// mcgS walks the MCG_S clock-status register through the sequence the
// reference firmware expects while it waits for the external/PLL clock to
// stabilise, landing on PLL-locked (0x0C) on the sixth read and staying
// there.
type mcgS struct {
	reads int
}

func newMCGS() PeripheralModel { return &mcgS{} }

var mcgSSequence = [...]uint8{0x02, 0x00, 0x08, 0x20, 0x40, 0x0C}

func (s *mcgS) Read(addr uint32) (uint8, bool) {
	if addr != mcgSAddr {
		return 0, false
	}
	i := s.reads
	if i >= len(mcgSSequence) {
		i = len(mcgSSequence) - 1
	}
	s.reads++
	return mcgSSequence[i], true
}

// systickMillisCounter models systick_millis_count, a free-running
// millisecond counter the firmware busy-waits on. It advances slowly at
// first (the reference sequence 0, 4, 4, 4, 4, 5) and then holds at its
// final value; this emulator never runs long enough for real elapsed time
// to matter.
type systickMillisCounter struct {
	reads int
}

func newSystickMillis() PeripheralModel { return &systickMillisCounter{} }

var systickSequence = [...]uint8{0, 4, 4, 4, 4, 5}

func (s *systickMillisCounter) Read(addr uint32) (uint8, bool) {
	if addr != systickMillis {
		return 0, false
	}
	i := s.reads
	if i >= len(systickSequence) {
		i = len(systickSequence) - 1
	}
	s.reads++
	return systickSequence[i], true
}
