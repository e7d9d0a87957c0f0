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

package firmware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/kurin/teensytrace/errors"
)

// Loader abstracts the one way firmware data reaches this emulator: a named
// I8HEX source, local or remote, with a hash of what was read. A firmware
// image is fetched whole by Open, then streamed out once through Read.
type Loader struct {
	// Name is a short label for the firmware, suitable for a trace header.
	Name string

	// Location is the path or URL the firmware was loaded from.
	Location string

	// HashSHA1 is populated once Open succeeds.
	HashSHA1 string

	data *bytes.Buffer
}

// NewLoader creates a Loader for location, which may be a local filesystem
// path or an http(s) URL.
func NewLoader(location string) (*Loader, error) {
	if strings.TrimSpace(location) == "" {
		return nil, errors.Errorf(errors.IO, "no firmware path given")
	}
	return &Loader{
		Name:     nameFromLocation(location),
		Location: location,
	}, nil
}

// nameFromLocation strips the directory and the .hex extension (in any
// case) from location, for display in a trace header.
func nameFromLocation(location string) string {
	base := filepath.Base(location)
	ext := filepath.Ext(base)
	if strings.EqualFold(ext, ".hex") {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Open reads the firmware data into the Loader, computing its SHA1 hash.
// The content is then consumed through Read.
func (ld *Loader) Open() error {
	var data []byte

	scheme := "file"
	if u, err := url.Parse(ld.Location); err == nil && u.Scheme != "" {
		scheme = u.Scheme
	}

	switch scheme {
	case "http", "https":
		resp, err := http.Get(ld.Location)
		if err != nil {
			return errors.Errorf(errors.IO, err)
		}
		defer resp.Body.Close()
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return errors.Errorf(errors.IO, err)
		}
	default:
		f, err := os.Open(ld.Location)
		if err != nil {
			return errors.Errorf(errors.IO, err)
		}
		defer f.Close()
		data, err = io.ReadAll(f)
		if err != nil {
			return errors.Errorf(errors.IO, err)
		}
	}

	ld.data = bytes.NewBuffer(data)
	ld.HashSHA1 = fmt.Sprintf("%x", sha1.Sum(data))
	return nil
}

// Read implements io.Reader over the opened firmware data.
func (ld *Loader) Read(p []byte) (int, error) {
	if ld.data == nil {
		return 0, io.EOF
	}
	return ld.data.Read(p)
}
