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

package bootloader

import (
	"fmt"
	"io"

	"github.com/aki80/picoboot/curated"
	"github.com/aki80/picoboot/hardware/cycle"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/hardware/sequencer"
	"github.com/aki80/picoboot/logger"
)

// Sentinal error patterns.
const (
	RangeError = "bootloader: %d bytes at %04x extend beyond the address space"
	PassFailed = "bootloader: %s pass failed at %04x (cycle %d): %v"
)

// DefaultImageSize is the size of the image returned by DefaultImage().
const DefaultImageSize = 16

// DefaultImage returns the image loaded when no other image is given. The
// target halts as soon as it runs it.
func DefaultImage() []uint8 {
	img := make([]uint8, DefaultImageSize)
	img[0] = sequencer.Halt
	return img
}

// Resetter is implemented by the reset controller.
type Resetter interface {
	ResetAndRun()
}

// Entry is one byte of the verify dump.
type Entry struct {
	Address bus.Address
	Value   uint8
}

// Mismatch is a byte that did not read back as it was written.
type Mismatch struct {
	Address bus.Address
	Wrote   uint8
	Read    uint8
}

// Result of a load and verify.
type Result struct {
	Start      bus.Address
	Dump       []Entry
	Mismatches []Mismatch
}

// Verified returns true if every byte read back as it was written.
func (res *Result) Verified() bool {
	return len(res.Mismatches) == 0
}

// WriteDump writes the verify dump eight bytes to a row.
func (res *Result) WriteDump(w io.Writer) error {
	for i, e := range res.Dump {
		if i%8 == 0 {
			if _, err := fmt.Fprintf(w, "%04X ", e.Address); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%02X ", e.Value); err != nil {
			return err
		}
		if i%8 == 7 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteMismatches writes one line for every mismatch.
func (res *Result) WriteMismatches(w io.Writer) error {
	for _, m := range res.Mismatches {
		if _, err := fmt.Fprintf(w, "%04X wrote %02X read %02X\n", m.Address, m.Wrote, m.Read); err != nil {
			return err
		}
	}
	return nil
}

// Loader is the bootstrap loader.
type Loader struct {
	seq *sequencer.Sequencer
	drv *cycle.Driver
	rc  Resetter

	// reset the target between the write pass and the verify pass
	resetBetweenPasses bool
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(seq *sequencer.Sequencer, drv *cycle.Driver, rc Resetter) *Loader {
	return &Loader{
		seq:                seq,
		drv:                drv,
		rc:                 rc,
		resetBetweenPasses: true,
	}
}

// SetResetBetweenPasses sets whether the target is reset before the verify
// pass.
func (ld *Loader) SetResetBetweenPasses(reset bool) {
	ld.resetBetweenPasses = reset
}

func (ld *Loader) failed(pass string, addr bus.Address, err error) error {
	return curated.Errorf(PassFailed, pass, addr, ld.drv.Index(), err)
}

// LoadAndVerify writes buf to the target's memory at start and reads it back.
// The target must have been started with ResetAndRun().
//
// A mismatch does not stop the verify pass. Any other error stops the load
// and the target must be reset before it is used again.
func (ld *Loader) LoadAndVerify(start bus.Address, buf []uint8) (*Result, error) {
	if int(start)+len(buf) > 0x10000 {
		return nil, curated.Errorf(RangeError, len(buf), start)
	}

	res := &Result{Start: start}
	if len(buf) == 0 {
		return res, nil
	}

	if err := ld.seq.SetPointer(start); err != nil {
		return nil, ld.failed("write", start, err)
	}
	for i, v := range buf {
		if err := ld.seq.WriteByte(v); err != nil {
			return nil, ld.failed("write", start+bus.Address(i), err)
		}
	}
	logger.Logf(logger.Allow, "bootloader", "wrote %d bytes at %04x", len(buf), start)

	if ld.resetBetweenPasses {
		ld.rc.ResetAndRun()
	}

	if err := ld.seq.SetPointer(start); err != nil {
		return nil, ld.failed("verify", start, err)
	}

	res.Dump = make([]Entry, 0, len(buf))
	for i, v := range buf {
		addr := start + bus.Address(i)
		r, err := ld.seq.ReadByte()
		if err != nil {
			return nil, ld.failed("verify", addr, err)
		}
		res.Dump = append(res.Dump, Entry{Address: addr, Value: r})
		if r != v {
			res.Mismatches = append(res.Mismatches, Mismatch{Address: addr, Wrote: v, Read: r})
		}
	}

	if res.Verified() {
		logger.Logf(logger.Allow, "bootloader", "verified %d bytes at %04x", len(buf), start)
	} else {
		logger.Logf(logger.Allow, "bootloader", "%d of %d bytes at %04x did not verify", len(res.Mismatches), len(buf), start)
	}

	return res, nil
}
