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

package preferences

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aki80/picoboot/prefs"
	"github.com/aki80/picoboot/test"
)

func TestDefaults(t *testing.T) {
	p, err := newPreferences(filepath.Join(t.TempDir(), prefs.DefaultPrefsFile))
	test.DemandSuccess(t, err)

	tm := p.Timing()
	test.ExpectEquality(t, tm.AccessTime, time.Microsecond)
	test.ExpectEquality(t, tm.Timeout, 100*time.Millisecond)
	test.ExpectEquality(t, p.ResetHold.Get().(time.Duration), time.Millisecond)
	test.ExpectSuccess(t, p.ResetBetweenPasses.Get().(bool))
	test.ExpectEquality(t, p.SerialBaud.Get().(int), 115200)
}

func TestSaveAndLoad(t *testing.T) {
	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)

	p, err := newPreferences(pth)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.Timeout.Set("20ms"))
	test.DemandSuccess(t, p.Pins.Set("M1=!11"))
	test.DemandSuccess(t, p.Save())

	b, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.HasPrefix(string(b), prefs.WarningBoilerPlate))
	test.ExpectSuccess(t, strings.Contains(string(b), "hardware.timeout :: 20ms\n"))

	q, err := newPreferences(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.Timing().Timeout, 20*time.Millisecond)
	test.ExpectEquality(t, q.Pins.Get().(string), "M1=!11")

	q.SetDefaults()
	test.ExpectEquality(t, q.Timing().Timeout, 100*time.Millisecond)
}

func TestCommandLineOverride(t *testing.T) {
	prefs.PushCommandLineStack("hardware.verbose::true; hardware.resethold::5ms")
	defer prefs.PopCommandLineStack()

	p, err := newPreferences(filepath.Join(t.TempDir(), prefs.DefaultPrefsFile))
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, p.Verbose.Get().(bool))
	test.ExpectEquality(t, p.ResetHold.Get().(time.Duration), 5*time.Millisecond)
}
