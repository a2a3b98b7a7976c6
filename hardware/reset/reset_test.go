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

package reset_test

import (
	"testing"
	"time"

	"github.com/aki80/picoboot/hardware/cycle"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/hardware/pins"
	"github.com/aki80/picoboot/hardware/reset"
	"github.com/aki80/picoboot/hardware/simboard"
	"github.com/aki80/picoboot/test"
)

type recordingLine struct {
	levels []bool
}

func (l *recordingLine) SetReset(asserted bool) {
	l.levels = append(l.levels, asserted)
}

type invalidator struct {
	count int
}

func (i *invalidator) Invalidate() {
	i.count++
}

func TestResetSequence(t *testing.T) {
	brd, err := simboard.NewBoard(pins.Default())
	test.DemandSuccess(t, err)

	drv, err := cycle.NewDriver(cycle.Wiring{
		Data:        brd.Data,
		Memory:      brd,
		Sync:        brd,
		AddressMask: brd.AddressMask(),
	}, cycle.Timing{Timeout: 100 * time.Millisecond})
	test.DemandSuccess(t, err)

	line := &recordingLine{}
	inv := &invalidator{}
	rc := reset.NewController(line, drv, inv)
	rc.SetHold(0)

	drv.Branch(0x1234)
	rc.ResetAndRun()

	test.DemandEquality(t, len(line.levels), 2)
	test.ExpectSuccess(t, line.levels[0])
	test.ExpectFailure(t, line.levels[1])
	test.ExpectEquality(t, inv.count, 1)
	test.ExpectEquality(t, drv.PC(), bus.ResetVector)
	test.ExpectEquality(t, rc.Resets(), 1)

	rc.Hold()
	test.DemandEquality(t, len(line.levels), 3)
	test.ExpectSuccess(t, line.levels[2])
	test.ExpectEquality(t, inv.count, 2)
	test.ExpectEquality(t, rc.Resets(), 1)
}

func TestFirstFetchIsResetVector(t *testing.T) {
	brd, err := simboard.NewBoard(pins.Default())
	test.DemandSuccess(t, err)
	defer brd.SetReset(true)

	drv, err := cycle.NewDriver(cycle.Wiring{
		Data:        brd.Data,
		Memory:      brd,
		Sync:        brd,
		AddressMask: brd.AddressMask(),
	}, cycle.Timing{Timeout: 100 * time.Millisecond})
	test.DemandSuccess(t, err)

	rc := reset.NewController(brd, drv)

	// run the target for a while before resetting it
	brd.Poke(0x0000, 0x00)
	brd.Poke(0x0001, 0x00)
	brd.Poke(0x0002, 0x76)
	rc.ResetAndRun()
	for range 2 {
		_, err := drv.Passthrough()
		test.DemandSuccess(t, err)
	}
	test.ExpectSuccess(t, brd.Running())

	// reset in the middle of a cycle. the target is stalled waiting for the
	// next cycle to be serviced
	rc.ResetAndRun()
	c, err := drv.Passthrough()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, c.Mode, bus.InstructionFetch)
	test.ExpectEquality(t, c.Address, bus.ResetVector)

	test.ExpectEquality(t, len(brd.Faults()), 0)
	test.ExpectEquality(t, brd.Data.Direction(), bus.HighImpedance)
}
