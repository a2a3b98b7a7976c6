// This file is part of Picoboot.
//
// Picoboot is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Picoboot is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Picoboot.  If not, see <https://www.gnu.org/licenses/>.

package console

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/term"
)

// DefaultBaud is the speed of the serial device if no other speed is given.
const DefaultBaud = 115200

// Console is an io.Writer for reports.
type Console struct {
	crit sync.Mutex

	w      io.Writer
	closer io.Closer

	// translate LF to CR LF
	crlf bool
}

// NewConsole returns a console that writes to w without any translation.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Open the console. An empty device string means stdout. A baud of zero
// means DefaultBaud.
func Open(device string, baud int) (*Console, error) {
	if device == "" {
		return NewConsole(os.Stdout), nil
	}

	if baud == 0 {
		baud = DefaultBaud
	}

	t, err := term.Open(device, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}

	return &Console{w: t, closer: t, crlf: true}, nil
}

// Write implements the io.Writer interface.
func (con *Console) Write(p []byte) (int, error) {
	con.crit.Lock()
	defer con.crit.Unlock()

	if !con.crlf {
		return con.w.Write(p)
	}

	if _, err := con.w.Write(bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\r', '\n'})); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Printf writes a formatted string to the console.
func (con *Console) Printf(format string, args ...any) {
	fmt.Fprintf(con, format, args...)
}

// Close the console. Stdout is never closed.
func (con *Console) Close() error {
	if con.closer == nil {
		return nil
	}
	return con.closer.Close()
}
