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

package main

import (
	"os"
	"testing"
	"time"

	"github.com/aki80/picoboot/hardware/preferences"
	"github.com/aki80/picoboot/modalflag"
	"github.com/aki80/picoboot/test"
)

// newPreferences returns preferences stored in a temporary directory.
func newPreferences(t *testing.T) *preferences.Preferences {
	t.Helper()
	t.Chdir(t.TempDir())
	test.DemandSuccess(t, os.Mkdir(".picoboot", 0o700))
	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)
	return p
}

func TestOverride(t *testing.T) {
	p := newPreferences(t)

	md := &modalflag.Modes{}
	md.NewArgs([]string{"-timeout", "20ms", "-pins", "M1=!11", "image.bin"})
	opts := addOptions(md)
	_, err := md.Parse()
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, override(md, opts, p))
	test.ExpectEquality(t, p.Timing().Timeout, 20*time.Millisecond)
	test.ExpectEquality(t, p.Pins.Get().(string), "M1=!11")

	// flags not given on the command line leave the preferences alone
	test.ExpectEquality(t, p.Timing().AccessTime, time.Microsecond)
	test.ExpectEquality(t, p.SerialBaud.Get().(int), 115200)
}

func TestOverrideError(t *testing.T) {
	p := newPreferences(t)

	md := &modalflag.Modes{}
	md.NewArgs([]string{"-resethold", "-5ms", "-baud", "9600"})
	opts := addOptions(md)
	_, err := md.Parse()
	test.DemandSuccess(t, err)

	err = override(md, opts, p)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, p.ResetHold.Get().(time.Duration), time.Millisecond)
}
