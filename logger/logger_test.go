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

package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kurin/teensytrace/logger"
)

func TestLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	if w.String() != "" {
		t.Fatalf("expected empty log, got %q", w.String())
	}

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(w)
	if got, want := w.String(), "test: this is a test\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	w.Reset()
	log.Log(logger.Allow, "test2", "this is another test")
	log.Write(w)
	want := "test: this is a test\ntest2: this is another test\n"
	if got := w.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	w.Reset()
	log.Tail(w, 100)
	if got := w.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	w.Reset()
	log.Tail(w, 1)
	if got, want := w.String(), "test2: this is another test\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	w.Reset()
	log.Tail(w, 0)
	if got := w.String(); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestLoggerWraps(t *testing.T) {
	log := logger.NewLogger(2)
	w := &strings.Builder{}

	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	log.Log(logger.Allow, "c", "3")
	log.Write(w)

	want := "b: 2\nc: 3\n"
	if got := w.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

type denyAll struct{}

func (denyAll) AllowLogging() bool { return false }

func TestLoggerPermission(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(denyAll{}, "tag", "detail")
	log.Write(w)
	if got := w.String(); got != "" {
		t.Fatalf("expected denied entry to be dropped, got %q", got)
	}
}

func TestLoggerErrorAndFormat(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", errors.New("boom"))
	log.Logf(logger.Allow, "tag", "n=%d", 4)
	log.Write(w)

	want := "tag: boom\ntag: n=4\n"
	if got := w.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPackageLevelLogger(t *testing.T) {
	logger.Clear()
	w := &strings.Builder{}

	logger.Log("pkg", "hello")
	logger.Write(w)
	if got, want := w.String(), "pkg: hello\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	logger.Clear()
}
