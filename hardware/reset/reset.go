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

package reset

import (
	"time"

	"github.com/aki80/picoboot/hardware/cycle"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/logger"
)

// DefaultHold is the time reset is held asserted if no other value is set.
const DefaultHold = time.Millisecond

// Invalidator is implemented by anything that holds state about the target
// that a reset makes stale.
type Invalidator interface {
	Invalidate()
}

// Controller is the reset controller.
type Controller struct {
	line bus.ResetLine
	drv  *cycle.Driver
	inv  []Invalidator

	hold   time.Duration
	resets int
}

// NewController is the preferred method of initialisation for the Controller
// type. Each Invalidator is invalidated every time the target is reset.
func NewController(line bus.ResetLine, drv *cycle.Driver, inv ...Invalidator) *Controller {
	return &Controller{
		line: line,
		drv:  drv,
		inv:  inv,
		hold: DefaultHold,
	}
}

// SetHold changes the time reset is held asserted.
func (rc *Controller) SetHold(d time.Duration) {
	rc.hold = d
}

// Resets returns the number of times the target has been reset.
func (rc *Controller) Resets() int {
	return rc.resets
}

// ResetAndRun resets the target and lets it run. The driver is ready to
// service the instruction fetch from the reset vector when the function
// returns.
func (rc *Controller) ResetAndRun() {
	rc.line.SetReset(true)

	rc.drv.Restart()
	for _, i := range rc.inv {
		i.Invalidate()
	}

	time.Sleep(rc.hold)

	rc.resets++
	logger.Logf(logger.Allow, "reset", "target released from reset (%d)", rc.resets)

	rc.line.SetReset(false)
}

// Hold asserts reset and leaves it asserted.
func (rc *Controller) Hold() {
	rc.line.SetReset(true)
	rc.drv.Restart()
	for _, i := range rc.inv {
		i.Invalidate()
	}
}
