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

// Package errors builds the emulator's fatal errors around the category
// templates in categories.go. An Error keeps the template it was built
// from alongside its rendered message, so callers can match on the
// category no matter how many layers have wrapped the value — including
// across a panic/recover boundary, which is how the memory map delivers
// its.
package errors

import "fmt"

// Error is a category-tagged error. The message is rendered eagerly at
// construction; the category survives wrapping.
type Error struct {
	category string
	rendered string
	cause    *Error
}

// Errorf builds an Error from one of this package's category templates.
// Wrapping an Error in its own category is the identity: the inner value
// is returned unchanged, so a template never appears twice in the rendered
// message however many times a caller re-wraps it on the way up.
func Errorf(category string, values ...any) error {
	if len(values) == 1 {
		if inner, ok := values[0].(*Error); ok && inner.category == category {
			return inner
		}
	}

	e := &Error{
		category: category,
		rendered: fmt.Sprintf(category, values...),
	}
	for _, v := range values {
		if inner, ok := v.(*Error); ok {
			e.cause = inner
			break
		}
	}
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.rendered
}

// Unwrap exposes the wrapped Error, if any, to the standard library's
// error-chain traversal.
func (e *Error) Unwrap() error {
	if e.cause == nil {
		return nil
	}
	return e.cause
}

// Is reports whether err itself was built from category. Wrapped causes
// are not consulted; use Has for that.
func Is(err error, category string) bool {
	e, ok := err.(*Error)
	return ok && e.category == category
}

// Has reports whether category appears anywhere in err's causal chain.
func Has(err error, category string) bool {
	for {
		e, ok := err.(*Error)
		if !ok {
			return false
		}
		if e.category == category {
			return true
		}
		if e.cause == nil {
			return false
		}
		err = e.cause
	}
}

// IsAny reports whether err carries a category at all, i.e. was built by
// this package.
func IsAny(err error) bool {
	_, ok := err.(*Error)
	return ok
}
