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

package bus

import (
	"fmt"
	"strings"
	"time"
)

// Address is a location in the target's 64k memory space.
type Address = uint16

// ResetVector is the address of the first instruction fetch after a reset.
const ResetVector Address = 0x0000

// CycleMode classifies a machine cycle. The mode is decided by the target
// CPU, the controller can only observe it.
type CycleMode int

// List of valid CycleMode values.
const (
	InstructionFetch CycleMode = iota
	MemoryRead
	MemoryWrite

	// refresh cycles are recognised so that they can be ignored. no caller
	// should ask for a refresh cycle to be serviced
	Refresh
)

func (m CycleMode) String() string {
	switch m {
	case InstructionFetch:
		return "fetch"
	case MemoryRead:
		return "read"
	case MemoryWrite:
		return "write"
	case Refresh:
		return "refresh"
	}
	return "unknown"
}

// Tag returns the single character used by the cycle trace.
func (m CycleMode) Tag() byte {
	switch m {
	case InstructionFetch:
		return 'I'
	case MemoryRead:
		return 'R'
	case MemoryWrite:
		return 'W'
	case Refresh:
		return 'F'
	}
	return '?'
}

// Direction of the data bus.
type Direction int

// List of valid Direction values.
const (
	HighImpedance Direction = iota
	DrivenByController
	DrivenByTarget
)

func (d Direction) String() string {
	switch d {
	case HighImpedance:
		return "high impedance"
	case DrivenByController:
		return "driven by controller"
	case DrivenByTarget:
		return "driven by target"
	}
	return "unknown"
}

// ControlLines is a snapshot of the target's bus signals at the start of a
// machine cycle. Boolean fields are true when the signal is asserted,
// regardless of the electrical polarity of the line.
type ControlLines struct {
	MREQ bool
	RD   bool
	WR   bool
	M1   bool
	RFSH bool

	// the address lines. only the bits set in AddressMask are wired and
	// meaningful
	Address     Address
	AddressMask Address
}

func (l ControlLines) String() string {
	s := strings.Builder{}
	flag := func(v bool, n string) {
		if v {
			s.WriteString(n)
		} else {
			s.WriteString(strings.ToLower(n))
		}
		s.WriteString(" ")
	}
	flag(l.MREQ, "MREQ")
	flag(l.RD, "RD")
	flag(l.WR, "WR")
	flag(l.M1, "M1")
	flag(l.RFSH, "RFSH")
	s.WriteString(fmt.Sprintf("%04x/%04x", l.Address, l.AddressMask))
	return s.String()
}

// Matches returns true if the wired address lines agree with the address.
func (l ControlLines) Matches(addr Address) bool {
	return l.Address&l.AddressMask == addr&l.AddressMask
}

// Synchronizer detects the start and end of machine cycles and controls the
// wait-state that stalls the target while a cycle is being serviced.
//
// A false return value from either of the wait functions means that the edge
// did not arrive within the timeout.
type Synchronizer interface {
	// WaitCycleStart blocks until the target begins a machine cycle. The
	// target is stalled by the wait-state when the function returns.
	WaitCycleStart(timeout time.Duration) (ControlLines, bool)

	// ReleaseWait ends the stall of the current cycle. It does not block.
	ReleaseWait()

	// WaitCycleEnd blocks until the target has finished the current cycle.
	WaitCycleEnd(timeout time.Duration) bool
}

// MemoryControl gates the controller's static memory onto the data bus.
type MemoryControl interface {
	SetOutputEnable(enable bool)
	SetWriteEnable(enable bool)
}

// Strobe is a diagnostic signal toggled by the machine cycle driver.
type Strobe interface {
	Toggle()
}

// ResetLine controls the target's reset input.
type ResetLine interface {
	SetReset(asserted bool)
}
