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

package sequencer

import (
	"github.com/aki80/picoboot/curated"
	"github.com/aki80/picoboot/hardware/cycle"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/logger"
)

// Sentinal error patterns.
const (
	NoPointer    = "sequencer: pointer is not set"
	Unresolvable = "sequencer: read of %04x cannot be told apart from an instruction fetch"
)

// MaxPadding is the maximum number of NOP instructions injected before a
// memory read to separate its address from the next instruction fetch.
const MaxPadding = 4

// Sequencer injects instructions into the target through a cycle.Driver.
type Sequencer struct {
	drv *cycle.Driver

	// shadow of the HL register
	ptr   bus.Address
	valid bool

	// number of NOP instructions injected to resolve ambiguous reads
	padding int
}

// NewSequencer is the preferred method of initialisation for the Sequencer
// type.
func NewSequencer(drv *cycle.Driver) *Sequencer {
	return &Sequencer{drv: drv}
}

// Pointer returns the address the next read or write will access. The
// boolean is false if the pointer has not been set since the last reset.
func (sq *Sequencer) Pointer() (bus.Address, bool) {
	return sq.ptr, sq.valid
}

// Padding returns the number of NOP instructions injected so far.
func (sq *Sequencer) Padding() int {
	return sq.padding
}

// Invalidate forgets the pointer. It must be called whenever the target is
// reset.
func (sq *Sequencer) Invalidate() {
	sq.valid = false
}

// inject a sequence of bytes as instruction fetches.
func (sq *Sequencer) inject(b ...uint8) error {
	for _, v := range b {
		if _, err := sq.drv.Service(bus.InstructionFetch, v); err != nil {
			return err
		}
	}
	return nil
}

// fail invalidates the pointer. after a failed cycle the state of the target
// is unknown.
func (sq *Sequencer) fail(err error) error {
	sq.valid = false
	return err
}

// SetPointer makes addr the address of the next read or write.
func (sq *Sequencer) SetPointer(addr bus.Address) error {
	if err := sq.inject(opLDHLnn, uint8(addr), uint8(addr>>8)); err != nil {
		return sq.fail(err)
	}
	sq.ptr = addr
	sq.valid = true
	return nil
}

// WriteByte writes v to the target's memory at the pointer and advances the
// pointer.
func (sq *Sequencer) WriteByte(v uint8) error {
	if !sq.valid {
		return curated.Errorf(NoPointer)
	}

	if err := sq.inject(opLDAn, v, opLDHLA); err != nil {
		return sq.fail(err)
	}
	if _, err := sq.drv.Service(bus.MemoryWrite, 0); err != nil {
		return sq.fail(err)
	}
	if err := sq.inject(opINCHL); err != nil {
		return sq.fail(err)
	}

	sq.ptr++
	return nil
}

// ReadByte reads the target's memory at the pointer and advances the
// pointer.
func (sq *Sequencer) ReadByte() (uint8, error) {
	if !sq.valid {
		return 0, curated.Errorf(NoPointer)
	}

	n := 0
	for sq.drv.DataReadAmbiguous(sq.ptr) {
		if n >= MaxPadding {
			return 0, sq.fail(curated.Errorf(Unresolvable, sq.ptr))
		}
		if err := sq.inject(opNOP); err != nil {
			return 0, sq.fail(err)
		}
		n++
	}
	if n > 0 {
		sq.padding += n
		logger.Logf(logger.Allow, "sequencer", "%d NOP before read of %04x", n, sq.ptr)
	}

	if err := sq.inject(opLDAHL); err != nil {
		return 0, sq.fail(err)
	}
	v, err := sq.drv.Service(bus.MemoryRead, 0)
	if err != nil {
		return 0, sq.fail(err)
	}
	if err := sq.inject(opINCHL); err != nil {
		return 0, sq.fail(err)
	}

	sq.ptr++
	return v, nil
}

// Jump makes the target continue execution at addr. The pointer is
// unaffected.
func (sq *Sequencer) Jump(addr bus.Address) error {
	if err := sq.inject(opJPnn, uint8(addr), uint8(addr>>8)); err != nil {
		return sq.fail(err)
	}
	sq.drv.Branch(addr)
	return nil
}
