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
	"time"

	"github.com/aki80/picoboot/hardware/cycle"
	"github.com/aki80/picoboot/paths"
	"github.com/aki80/picoboot/prefs"
)

// Preferences defines and collates all the preference values used by the
// hardware.
type Preferences struct {
	dsk *prefs.Disk

	// access time of the static memory
	AccessTime prefs.Duration

	// how long to wait for the start or end of a machine cycle before giving
	// up with a bus timeout
	Timeout prefs.Duration

	// how long the target's reset line is held asserted
	ResetHold prefs.Duration

	// reset the target between the write and verify pass of the loader
	ResetBetweenPasses prefs.Bool

	// the simulated target performs refresh cycles
	Refresh prefs.Bool

	// trace every serviced cycle
	Verbose prefs.Bool

	// pin assignments applied on top of the Aki-80 wiring. see pins.Parse()
	Pins prefs.String

	// serial device for the console. an empty string means stdout
	SerialDevice prefs.String
	SerialBaud   prefs.Int
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return newPreferences(pth)
}

func newPreferences(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("hardware.accesstime", &p.AccessTime)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.timeout", &p.Timeout)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.resethold", &p.ResetHold)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.resetbetweenpasses", &p.ResetBetweenPasses)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.refresh", &p.Refresh)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.verbose", &p.Verbose)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.pins", &p.Pins)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("console.device", &p.SerialDevice)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("console.baud", &p.SerialBaud)
	if err != nil {
		return nil, err
	}

	if err := p.dsk.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.AccessTime.Set(time.Microsecond)
	_ = p.Timeout.Set(100 * time.Millisecond)
	_ = p.ResetHold.Set(time.Millisecond)
	_ = p.ResetBetweenPasses.Set(true)
	_ = p.Refresh.Set(false)
	_ = p.Verbose.Set(false)
	_ = p.Pins.Set("")
	_ = p.SerialDevice.Set("")
	_ = p.SerialBaud.Set(115200)
}

// Timing returns the timing for the machine cycle driver.
func (p *Preferences) Timing() cycle.Timing {
	return cycle.Timing{
		AccessTime: p.AccessTime.Get().(time.Duration),
		Timeout:    p.Timeout.Get().(time.Duration),
	}
}

// Load current hardware preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current hardware preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
