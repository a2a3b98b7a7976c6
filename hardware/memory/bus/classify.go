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

import "github.com/aki80/picoboot/curated"

// Sentinal error patterns.
const (
	// BusTimeout is returned by the machine cycle driver when an edge of a
	// cycle does not arrive. the values are the name of the edge, the index
	// of the cycle and the last known address
	BusTimeout = "bus timeout: no %s edge (cycle %d, address %04x)"

	// Contention is returned by DataBus when a second source tries to drive
	// the bus
	Contention = "bus contention: %v cannot drive while %v drives"

	// UnknownCycle is returned by Classify() when the control lines do not
	// describe a memory cycle
	UnknownCycle = "unknown cycle: %v"
)

// Classify re-derives the mode of a cycle from the control lines. The pc
// argument is the address the controller expects the next instruction byte to
// be fetched from. A read is an instruction fetch if M1 is asserted or if the
// wired address lines match pc. Otherwise it is a memory read.
func Classify(lines ControlLines, pc Address) (CycleMode, error) {
	if !lines.MREQ {
		return 0, curated.Errorf(UnknownCycle, lines)
	}

	if lines.RFSH {
		return Refresh, nil
	}

	switch {
	case lines.RD && lines.WR:
		return 0, curated.Errorf(UnknownCycle, lines)
	case lines.WR:
		return MemoryWrite, nil
	case lines.RD:
		if lines.M1 || lines.Matches(pc) {
			return InstructionFetch, nil
		}
		return MemoryRead, nil
	}

	return 0, curated.Errorf(UnknownCycle, lines)
}
