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

// Package logger is a small ring-buffered diagnostic log. It is distinct
// from the instruction trace (see package trace): this package carries
// short, non-fatal operator notes (the NMI vector read at boot, the
// firmware file the CLI loaded, and so on) that are
// useful when something goes wrong but are not part of the emulator's
// primary output.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Permission allows a caller to suppress a log entry before it is ever
// written to the ring buffer, e.g. because the current verbosity level
// doesn't want it. Allow always permits logging.
type Permission interface {
	AllowLogging() bool
}

type allowPermission struct{}

func (allowPermission) AllowLogging() bool { return true }

// Allow is a Permission that always admits the log entry.
var Allow Permission = allowPermission{}

type entry struct {
	tag    string
	detail string
}

func (e entry) String() string {
	return fmt.Sprintf("%s: %s\n", e.tag, e.detail)
}

// Logger is a bounded ring buffer of log entries.
type Logger struct {
	mu      sync.Mutex
	entries []entry
	size    int
	next    int
	full    bool
}

// NewLogger creates a Logger that retains at most size entries, discarding
// the oldest entry once full.
func NewLogger(size int) *Logger {
	if size < 1 {
		size = 1
	}
	return &Logger{
		entries: make([]entry, size),
		size:    size,
	}
}

func stringify(detail any) string {
	switch v := detail.(type) {
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Log appends a new entry if perm allows it.
func (l *Logger) Log(perm Permission, tag string, detail any) {
	if perm != nil && !perm.AllowLogging() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = entry{tag: tag, detail: stringify(detail)}
	l.next++
	if l.next == l.size {
		l.next = 0
		l.full = true
	}
}

// Logf is Log() with a printf-style detail.
func (l *Logger) Logf(perm Permission, tag string, format string, args ...any) {
	l.Log(perm, tag, fmt.Sprintf(format, args...))
}

// Clear empties the log.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next = 0
	l.full = false
}

// ordered returns the entries from oldest to newest.
func (l *Logger) ordered() []entry {
	if !l.full {
		return l.entries[:l.next]
	}
	out := make([]entry, 0, l.size)
	out = append(out, l.entries[l.next:]...)
	out = append(out, l.entries[:l.next]...)
	return out
}

// Write dumps every retained entry, oldest first.
func (l *Logger) Write(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sb := strings.Builder{}
	for _, e := range l.ordered() {
		sb.WriteString(e.String())
	}
	io.WriteString(w, sb.String())
}

// Tail writes at most n of the most recent entries, oldest of the tail
// first. A request for more entries than are held is not an error.
func (l *Logger) Tail(w io.Writer, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all := l.ordered()
	if n > len(all) {
		n = len(all)
	}
	if n < 0 {
		n = 0
	}

	sb := strings.Builder{}
	for _, e := range all[len(all)-n:] {
		sb.WriteString(e.String())
	}
	io.WriteString(w, sb.String())
}

// def is the package-level logger used by the Log/Logf/Write/Tail/Clear
// convenience functions, for callers that don't need an isolated instance.
var def = NewLogger(500)

// Log appends to the default, package-level logger.
func Log(tag string, detail any) { def.Log(Allow, tag, detail) }

// Logf appends to the default, package-level logger using a printf-style detail.
func Logf(tag string, format string, args ...any) { def.Logf(Allow, tag, format, args...) }

// Write dumps the default, package-level logger.
func Write(w io.Writer) { def.Write(w) }

// Tail writes the most recent n entries of the default, package-level logger.
func Tail(w io.Writer, n int) { def.Tail(w, n) }

// Clear empties the default, package-level logger.
func Clear() { def.Clear() }
