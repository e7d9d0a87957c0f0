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

package firmware_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kurin/teensytrace/firmware"
)

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blink.hex")
	want := ":1000000000800020BD01000081130000811300001C\n:00000001FF\n"
	if err := os.WriteFile(path, []byte(want), 0o644); err != nil {
		t.Fatal(err)
	}

	ld, err := firmware.NewLoader(path)
	if err != nil {
		t.Fatal(err)
	}
	if ld.Name != "blink" {
		t.Fatalf("got name %q, want %q", ld.Name, "blink")
	}
	if err := ld.Open(); err != nil {
		t.Fatal(err)
	}
	if ld.HashSHA1 == "" {
		t.Fatal("expected a non-empty hash after Open")
	}

	got, err := io.ReadAll(ld)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNewLoaderRejectsEmptyPath(t *testing.T) {
	if _, err := firmware.NewLoader("  "); err == nil {
		t.Fatal("expected an error for a blank path")
	}
}
