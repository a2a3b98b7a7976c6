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
	"sync"

	"github.com/aki80/picoboot/curated"
)

// Source identifies a device that can drive the data bus.
type Source int

// List of valid Source values.
const (
	Controller Source = iota
	Memory
	Target
)

func (s Source) String() string {
	switch s {
	case Controller:
		return "controller"
	case Memory:
		return "memory"
	case Target:
		return "target"
	}
	return "unknown"
}

// FloatingLevel is the value sampled from the data bus when nothing drives it.
const FloatingLevel = 0xff

// DataBus is the eight bit data bus shared by the controller, the controller's
// static memory and the target. The static memory belongs to the controller
// so the bus is DrivenByController when either of those two drive it.
//
// The critical section only keeps the software model coherent when the target
// is simulated in another goroutine. Ownership of the bus is arbitrated by the
// cycle handshake, never by the lock.
type DataBus struct {
	crit sync.Mutex

	driver  Source
	driven  bool
	level   uint8
	monitor func(Direction, uint8)
}

// NewDataBus is the preferred method of initialisation for the DataBus type.
// The bus starts in the high impedance state.
func NewDataBus() *DataBus {
	return &DataBus{level: FloatingLevel}
}

// SetMonitor installs a function to be called after every change to the bus.
func (db *DataBus) SetMonitor(f func(dir Direction, level uint8)) {
	db.crit.Lock()
	defer db.crit.Unlock()
	db.monitor = f
}

func (db *DataBus) direction() Direction {
	if !db.driven {
		return HighImpedance
	}
	if db.driver == Target {
		return DrivenByTarget
	}
	return DrivenByController
}

func (db *DataBus) notify() {
	if db.monitor != nil {
		db.monitor(db.direction(), db.level)
	}
}

// Drive puts a value on the bus. It is an error for a source to drive the bus
// while another source is driving it. A source can change the value it is
// driving without releasing the bus first.
func (db *DataBus) Drive(src Source, v uint8) error {
	db.crit.Lock()
	defer db.crit.Unlock()

	if db.driven && db.driver != src {
		return curated.Errorf(Contention, src, db.driver)
	}

	db.driver = src
	db.driven = true
	db.level = v
	db.notify()

	return nil
}

// Release stops the source from driving the bus. Releasing a bus that the
// source is not driving has no effect.
func (db *DataBus) Release(src Source) {
	db.crit.Lock()
	defer db.crit.Unlock()

	if !db.driven || db.driver != src {
		return
	}

	db.driven = false
	db.level = FloatingLevel
	db.notify()
}

// Sample returns the value on the bus.
func (db *DataBus) Sample() uint8 {
	db.crit.Lock()
	defer db.crit.Unlock()
	return db.level
}

// Direction returns the current direction of the bus.
func (db *DataBus) Direction() Direction {
	db.crit.Lock()
	defer db.crit.Unlock()
	return db.direction()
}

// Driver returns the source currently driving the bus. The boolean is false if
// the bus is not driven.
func (db *DataBus) Driver() (Source, bool) {
	db.crit.Lock()
	defer db.crit.Unlock()
	return db.driver, db.driven
}
