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

package hex_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kurin/teensytrace/errors"
	"github.com/kurin/teensytrace/hex"
)

func TestParseRoundTrip(t *testing.T) {
	line := ":1000000000800020BD0100008113000081130000" + "6A\n"
	data, err := hex.Parse(strings.NewReader(line + ":00000001FF\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(data) != 16 {
		t.Fatalf("got %d bytes, want 16", len(data))
	}

	var buf bytes.Buffer
	if err := hex.Write(&buf, data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := line + ":00000001FF\n"
	if got := buf.String(); got != want {
		t.Fatalf("round trip mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestParseRejectsBadChecksum(t *testing.T) {
	_, err := hex.Parse(strings.NewReader(":1000000000800020BD01000081130000811300001C\n"))
	if err == nil {
		t.Fatal("expected a checksum error")
	}
	if !errors.Is(err, errors.HexParse) {
		t.Fatalf("expected HexParse category, got %v", err)
	}
}

func TestParseRejectsNonContiguousAddress(t *testing.T) {
	_, err := hex.Parse(strings.NewReader(":02001000AABB89\n"))
	if err == nil {
		t.Fatal("expected a non-contiguous address error")
	}
	if !errors.Is(err, errors.HexParse) {
		t.Fatalf("expected HexParse category, got %v", err)
	}
}

func TestParseMultipleRecords(t *testing.T) {
	// Two four-byte records followed by an EOF record.
	lines := ":040000000011223396\n:040004004455667782\n:00000001FF\n"
	data, err := hex.Parse(strings.NewReader(lines))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}
	if !bytes.Equal(data, want) {
		t.Fatalf("got %X, want %X", data, want)
	}
}

func TestParseStopsAtEOFRecord(t *testing.T) {
	lines := ":040000000011223396\n:00000001FF\n:040004004455667782\n"
	data, err := hex.Parse(strings.NewReader(lines))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(data) != 4 {
		t.Fatalf("expected data to stop at the EOF record, got %d bytes", len(data))
	}
}

func TestWriteChunksAt16Bytes(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := hex.Write(&buf, data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (16 bytes + 4 bytes + EOF)", len(lines))
	}
	if !strings.HasPrefix(lines[0], ":10000000") {
		t.Fatalf("first record header wrong: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], ":04001000") {
		t.Fatalf("second record header wrong: %s", lines[1])
	}
	if lines[2] != ":00000001FF" {
		t.Fatalf("EOF record wrong: %s", lines[2])
	}
}
