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

// Package pins names the signals wired between the controller and the target
// and records the GPIO number and electrical polarity of each one. Code
// outside this package never deals with raw GPIO levels. It deals with
// asserted/negated signals in a bus.ControlLines value, and the Map type
// converts between the two.
//
// The Default() map is the wiring of the Aki-80 board. Note that the Aki-80
// wiring does not bring out the WR or M1 signals, or most of the address
// lines. A write cycle is inferred from MREQ asserted with RD negated, and
// instruction fetches are told apart from memory reads with the four address
// lines that are wired (A0, A5, A6, A7).
package pins

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aki80/picoboot/curated"
	"github.com/aki80/picoboot/hardware/memory/bus"
)

// Sentinal error patterns.
const (
	UnknownRole         = "pins: unknown role (%v)"
	MalformedAssignment = "pins: malformed assignment (%s)"
	NotWired            = "pins: %v is not wired"
	DataLines           = "pins: data lines must be on consecutive GPIO (%v is on GPIO%d)"
	NoFetchDetection    = "pins: neither M1 nor any address line is wired"
	NoSuchGPIO          = "pins: %v assigned to GPIO%d which does not exist"
	SharedGPIO          = "pins: %v and %v are both assigned to GPIO%d"
)

// Role of a signal.
type Role int

// List of valid Role values.
const (
	D0 Role = iota
	D1
	D2
	D3
	D4
	D5
	D6
	D7
	A0
	A1
	A2
	A3
	A4
	A5
	A6
	A7
	A8
	A9
	A10
	A11
	A12
	A13
	A14
	A15
	MREQ
	RFSH
	BUSAK
	IORQ
	RD
	WR
	M1
	RAMCE2
	RAMWE
	RAMOE
	TEST
	RESET
	WAIT
	BUSRQ
	numRoles
)

func (r Role) String() string {
	switch {
	case r >= D0 && r <= D7:
		return fmt.Sprintf("D%d", r-D0)
	case r >= A0 && r <= A15:
		return fmt.Sprintf("A%d", r-A0)
	}

	switch r {
	case MREQ:
		return "MREQ"
	case RFSH:
		return "RFSH"
	case BUSAK:
		return "BUSAK"
	case IORQ:
		return "IORQ"
	case RD:
		return "RD"
	case WR:
		return "WR"
	case M1:
		return "M1"
	case RAMCE2:
		return "RAMCE2"
	case RAMWE:
		return "RAMWE"
	case RAMOE:
		return "RAMOE"
	case TEST:
		return "TEST"
	case RESET:
		return "RESET"
	case WAIT:
		return "WAIT"
	case BUSRQ:
		return "BUSRQ"
	}

	return "unknown"
}

// ParseRole is the inverse of Role.String(). Case insensitive.
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for r := D0; r < numRoles; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, curated.Errorf(UnknownRole, s)
}

// Pin is the GPIO assignment of a signal.
type Pin struct {
	GPIO      int
	ActiveLow bool
}

// NumGPIO is the number of GPIO lines available on the controller.
const NumGPIO = 30

// Map of signal roles to GPIO pins. Roles not in the map are not wired.
type Map map[Role]Pin

// Default returns the wiring of the Aki-80 board.
func Default() Map {
	return Map{
		D0:     {GPIO: 0},
		D1:     {GPIO: 1},
		D2:     {GPIO: 2},
		D3:     {GPIO: 3},
		D4:     {GPIO: 4},
		D5:     {GPIO: 5},
		D6:     {GPIO: 6},
		D7:     {GPIO: 7},
		A5:     {GPIO: 8},
		A6:     {GPIO: 9},
		A7:     {GPIO: 10},
		MREQ:   {GPIO: 14, ActiveLow: true},
		RFSH:   {GPIO: 15, ActiveLow: true},
		BUSAK:  {GPIO: 16, ActiveLow: true},
		IORQ:   {GPIO: 17, ActiveLow: true},
		RD:     {GPIO: 18, ActiveLow: true},
		A0:     {GPIO: 19},
		RAMCE2: {GPIO: 20},
		RAMWE:  {GPIO: 21, ActiveLow: true},
		TEST:   {GPIO: 22},
		RESET:  {GPIO: 26, ActiveLow: true},
		WAIT:   {GPIO: 27, ActiveLow: true},
		BUSRQ:  {GPIO: 28, ActiveLow: true},
	}
}

// Wired returns true if the role has a GPIO assignment.
func (m Map) Wired(r Role) bool {
	_, ok := m[r]
	return ok
}

// Validate checks that the map describes a usable wiring.
func (m Map) Validate() error {
	for _, r := range []Role{D0, D1, D2, D3, D4, D5, D6, D7, MREQ, RD, RESET, WAIT} {
		if !m.Wired(r) {
			return curated.Errorf(NotWired, r)
		}
	}

	// the data bus is written and read as a single byte
	for r := D1; r <= D7; r++ {
		if m[r].GPIO != m[D0].GPIO+int(r-D0) {
			return curated.Errorf(DataLines, r, m[r].GPIO)
		}
	}

	// without M1 and without any address lines there is no way of telling an
	// operand fetch from a memory read
	if !m.Wired(M1) && m.AddressMask() == 0 {
		return curated.Errorf(NoFetchDetection)
	}

	used := make(map[int]Role)
	roles := make([]Role, 0, len(m))
	for r := range m {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

	for _, r := range roles {
		p := m[r]
		if r < D0 || r >= numRoles {
			return curated.Errorf(UnknownRole, int(r))
		}
		if p.GPIO < 0 || p.GPIO >= NumGPIO {
			return curated.Errorf(NoSuchGPIO, r, p.GPIO)
		}
		if o, ok := used[p.GPIO]; ok {
			return curated.Errorf(SharedGPIO, o, r, p.GPIO)
		}
		used[p.GPIO] = r
	}

	return nil
}

// AddressMask returns the address bits that are wired.
func (m Map) AddressMask() bus.Address {
	var mask bus.Address
	for r := A0; r <= A15; r++ {
		if m.Wired(r) {
			mask |= 1 << (r - A0)
		}
	}
	return mask
}

// DataShift returns the GPIO number of D0.
func (m Map) DataShift() int {
	return m[D0].GPIO
}

// Asserted returns true if the role is asserted in the GPIO levels. An unwired
// role is never asserted.
func (m Map) Asserted(r Role, gpio uint32) bool {
	p, ok := m[r]
	if !ok {
		return false
	}
	level := gpio&(1<<p.GPIO) != 0
	return level != p.ActiveLow
}

// Level returns the GPIO level that asserts or negates the role.
func (m Map) Level(r Role, asserted bool) bool {
	return asserted != m[r].ActiveLow
}

// Set returns the GPIO levels with the role asserted or negated. The levels
// are unchanged if the role is not wired.
func (m Map) Set(gpio uint32, r Role, asserted bool) uint32 {
	p, ok := m[r]
	if !ok {
		return gpio
	}
	if m.Level(r, asserted) {
		return gpio | (1 << p.GPIO)
	}
	return gpio &^ (1 << p.GPIO)
}

// Decode converts GPIO levels into a ControlLines snapshot.
func (m Map) Decode(gpio uint32) bus.ControlLines {
	lines := bus.ControlLines{
		MREQ: m.Asserted(MREQ, gpio),
		RD:   m.Asserted(RD, gpio),
		M1:   m.Asserted(M1, gpio),
		RFSH: m.Asserted(RFSH, gpio),
	}

	if m.Wired(WR) {
		lines.WR = m.Asserted(WR, gpio)
	} else {
		lines.WR = lines.MREQ && !lines.RD && !lines.RFSH
	}

	for r := A0; r <= A15; r++ {
		if m.Asserted(r, gpio) {
			lines.Address |= 1 << (r - A0)
		}
	}
	lines.AddressMask = m.AddressMask()

	return lines
}

// Encode converts a ControlLines snapshot into GPIO levels. Only the control
// and address lines are encoded. The data lines are left low.
func (m Map) Encode(lines bus.ControlLines) uint32 {
	var gpio uint32
	gpio = m.Set(gpio, MREQ, lines.MREQ)
	gpio = m.Set(gpio, RD, lines.RD)
	gpio = m.Set(gpio, WR, lines.WR)
	gpio = m.Set(gpio, M1, lines.M1)
	gpio = m.Set(gpio, RFSH, lines.RFSH)
	gpio = m.Set(gpio, IORQ, false)
	gpio = m.Set(gpio, BUSAK, false)
	for r := A0; r <= A15; r++ {
		gpio = m.Set(gpio, r, lines.Address&(1<<(r-A0)) != 0)
	}
	return gpio
}
