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

package simboard

import (
	"sync"
	"time"

	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/hardware/pins"
	"github.com/aki80/picoboot/logger"
)

// MemorySize is the size of the board's static memory.
const MemorySize = 0x10000

// Board models the target, its static memory and the GPIO word shared with
// the controller.
//
// Board implements the bus.Synchronizer, bus.MemoryControl, bus.Strobe and
// bus.ResetLine interfaces.
type Board struct {
	Data *bus.DataBus

	pins pins.Map

	crit sync.Mutex

	// levels of the GPIO lines
	gpio uint32

	// full address bus as seen by the static memory. the controller only
	// sees the lines that are wired in the pins.Map
	address bus.Address

	sram [MemorySize]uint8
	oe   bool
	we   bool

	// addresses that ignore write enable, as if a ROM were fitted there
	rom [MemorySize]bool

	toggles int
	refresh bool
	faults  []error

	// cycle handshake with the target goroutine. the target does not begin a
	// cycle until the controller is waiting for one
	ready   chan struct{}
	starts  chan struct{}
	release chan struct{}
	ends    chan struct{}

	target *target
}

// NewBoard is the preferred method of initialisation for the Board type. The
// target is held in reset until SetReset(false) is called.
func NewBoard(m pins.Map) (*Board, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	b := &Board{
		Data:    bus.NewDataBus(),
		pins:    m,
		ready:   make(chan struct{}),
		starts:  make(chan struct{}),
		release: make(chan struct{}, 1),
		ends:    make(chan struct{}),
	}
	b.gpio = b.levels(bus.ControlLines{})
	b.gpio = b.pins.Set(b.gpio, pins.RESET, true)

	return b, nil
}

// levels returns the GPIO levels for the control lines. the lines driven by
// the controller are unchanged. must be called with the critical section held.
func (b *Board) levels(lines bus.ControlLines) uint32 {
	gpio := b.pins.Encode(lines)
	gpio = b.pins.Set(gpio, pins.RESET, b.pins.Asserted(pins.RESET, b.gpio))
	gpio = b.pins.Set(gpio, pins.TEST, b.pins.Asserted(pins.TEST, b.gpio))
	gpio = b.pins.Set(gpio, pins.RAMWE, b.we)
	gpio = b.pins.Set(gpio, pins.RAMOE, b.oe)
	return gpio
}

// SetRefresh turns refresh cycles on or off. The change is seen by the
// target the next time it is released from reset.
func (b *Board) SetRefresh(on bool) {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.refresh = on
}

// AddressMask returns the address lines visible to the controller.
func (b *Board) AddressMask() bus.Address {
	return b.pins.AddressMask()
}

// GPIO returns the current levels of the GPIO lines.
func (b *Board) GPIO() uint32 {
	b.crit.Lock()
	defer b.crit.Unlock()
	return b.gpio
}

// Poke writes directly to the static memory without a bus cycle.
func (b *Board) Poke(addr bus.Address, v uint8) {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.sram[addr] = v
}

// Peek reads directly from the static memory without a bus cycle.
func (b *Board) Peek(addr bus.Address) uint8 {
	b.crit.Lock()
	defer b.crit.Unlock()
	return b.sram[addr]
}

// Protect makes n bytes from addr read only.
func (b *Board) Protect(addr bus.Address, n int) {
	b.crit.Lock()
	defer b.crit.Unlock()
	for i := range n {
		b.rom[addr+bus.Address(i)] = true
	}
}

// Faults returns the electrical faults seen since the board was created.
func (b *Board) Faults() []error {
	b.crit.Lock()
	defer b.crit.Unlock()
	return append([]error{}, b.faults...)
}

func (b *Board) fault(err error) {
	b.crit.Lock()
	b.faults = append(b.faults, err)
	b.crit.Unlock()
	logger.Log(logger.Allow, "simboard", err)
}

// Toggles returns the number of times the strobe has been toggled.
func (b *Board) Toggles() int {
	b.crit.Lock()
	defer b.crit.Unlock()
	return b.toggles
}

// Toggle implements the bus.Strobe interface.
func (b *Board) Toggle() {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.toggles++
	b.gpio = b.pins.Set(b.gpio, pins.TEST, !b.pins.Asserted(pins.TEST, b.gpio))
}

// SetOutputEnable implements the bus.MemoryControl interface.
func (b *Board) SetOutputEnable(enable bool) {
	b.crit.Lock()
	b.oe = enable
	b.gpio = b.pins.Set(b.gpio, pins.RAMOE, enable)
	v := b.sram[b.address]
	b.crit.Unlock()

	if !enable {
		b.Data.Release(bus.Memory)
		return
	}
	if err := b.Data.Drive(bus.Memory, v); err != nil {
		b.fault(err)
	}
}

// SetWriteEnable implements the bus.MemoryControl interface. The static
// memory latches the data bus when write enable is negated.
func (b *Board) SetWriteEnable(enable bool) {
	b.crit.Lock()
	defer b.crit.Unlock()
	if b.we && !enable && !b.rom[b.address] {
		b.sram[b.address] = b.Data.Sample()
	}
	b.we = enable
	b.gpio = b.pins.Set(b.gpio, pins.RAMWE, enable)
}

// SetReset implements the bus.ResetLine interface. Asserting reset aborts the
// target wherever it is, including in the middle of a cycle. Negating reset
// starts the target from the reset vector.
func (b *Board) SetReset(asserted bool) {
	b.crit.Lock()
	b.gpio = b.pins.Set(b.gpio, pins.RESET, asserted)
	t := b.target
	if asserted {
		b.target = nil
	} else if t == nil {
		b.target = newTarget(b, b.refresh)
	}
	b.crit.Unlock()

	if !asserted || t == nil {
		return
	}

	t.stop()

	b.Data.Release(bus.Target)
	select {
	case <-b.release:
	default:
	}

	b.crit.Lock()
	b.address = 0
	b.gpio = b.levels(bus.ControlLines{})
	b.crit.Unlock()
}

// Running returns true if the target is out of reset.
func (b *Board) Running() bool {
	b.crit.Lock()
	defer b.crit.Unlock()
	return b.target != nil
}

// Halted returns true if the target is out of reset and has stopped at a
// HALT instruction.
func (b *Board) Halted() bool {
	b.crit.Lock()
	defer b.crit.Unlock()
	return b.target != nil && b.target.halted
}

// WaitCycleStart implements the bus.Synchronizer interface.
func (b *Board) WaitCycleStart(timeout time.Duration) (bus.ControlLines, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case b.ready <- struct{}{}:
	case <-timer.C:
		return bus.ControlLines{}, false
	}

	select {
	case <-b.starts:
	case <-timer.C:
		return bus.ControlLines{}, false
	}

	return b.pins.Decode(b.GPIO()), true
}

// ReleaseWait implements the bus.Synchronizer interface.
func (b *Board) ReleaseWait() {
	b.crit.Lock()
	b.gpio = b.pins.Set(b.gpio, pins.WAIT, false)
	b.crit.Unlock()

	select {
	case b.release <- struct{}{}:
	default:
	}
}

// WaitCycleEnd implements the bus.Synchronizer interface.
func (b *Board) WaitCycleEnd(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-b.ends:
		return true
	case <-timer.C:
		return false
	}
}

// begin a cycle from the target side. the target is stalled by the wait-state
// until the controller releases it.
func (b *Board) begin(lines bus.ControlLines) {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.address = lines.Address
	b.gpio = b.pins.Set(b.levels(lines), pins.WAIT, true)
}

// end a cycle from the target side.
func (b *Board) end() {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.gpio = b.levels(bus.ControlLines{})
}
