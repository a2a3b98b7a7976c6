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

package cycle

import (
	"fmt"
	"io"
	"time"

	"github.com/aki80/picoboot/curated"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/logger"
)

// Sentinal error patterns.
const (
	ProtocolDesync = "protocol desync: expected %v cycle but target is in a %v cycle (cycle %d, address %04x)"
	Unserviceable  = "cycle: a %v cycle cannot be requested"
	Incomplete     = "cycle: driver is missing %s"
)

// Timing of the driver. The correct values depend on the static memory and
// on the speed of the synchronizer. They are not derivable from the target
// alone.
type Timing struct {
	// time the static memory needs after output enable before the data is
	// valid, and the minimum width of the write enable pulse
	AccessTime time.Duration

	// maximum time to wait for the start or end of a cycle
	Timeout time.Duration
}

// Wiring collects the external collaborators of the driver.
type Wiring struct {
	Data   *bus.DataBus
	Memory bus.MemoryControl
	Sync   bus.Synchronizer

	// Strobe can be nil
	Strobe bus.Strobe

	// the address lines visible to the synchronizer
	AddressMask bus.Address
}

// Cycle describes a serviced cycle.
type Cycle struct {
	Index   int
	Mode    bus.CycleMode
	Address bus.Address
	Data    uint8
}

func (c Cycle) String() string {
	return fmt.Sprintf("%c %02X", c.Mode.Tag(), c.Data)
}

// Stats counts the cycles seen by the driver.
type Stats struct {
	Fetch   int
	Read    int
	Write   int
	Refresh int
}

// Driver is the machine cycle driver.
type Driver struct {
	wiring Wiring
	timing Timing

	// the address of the next instruction byte the target will fetch. the
	// driver has no view of the target's program counter so this is a shadow
	// that is advanced on every fetch and moved by Branch()
	pc bus.Address

	// number of cycles serviced since creation and the address of the most
	// recent one. used for error reporting
	index       int
	lastAddress bus.Address

	stats Stats
	trace io.Writer
}

type nullStrobe struct{}

func (nullStrobe) Toggle() {}

// NewDriver is the preferred method of initialisation for the Driver type.
func NewDriver(w Wiring, t Timing) (*Driver, error) {
	if w.Data == nil {
		return nil, curated.Errorf(Incomplete, "a data bus")
	}
	if w.Memory == nil {
		return nil, curated.Errorf(Incomplete, "memory control")
	}
	if w.Sync == nil {
		return nil, curated.Errorf(Incomplete, "a synchronizer")
	}
	if w.Strobe == nil {
		w.Strobe = nullStrobe{}
	}

	drv := &Driver{
		wiring: w,
		timing: t,
	}
	drv.Restart()

	return drv, nil
}

// SetTrace sets the writer for the cycle trace. A nil writer turns the trace
// off.
func (drv *Driver) SetTrace(w io.Writer) {
	drv.trace = w
}

// SetTiming changes the timing of the driver.
func (drv *Driver) SetTiming(t Timing) {
	drv.timing = t
}

// Restart prepares the driver for the first cycle after a reset of the
// target. The data bus is put into the high impedance state.
func (drv *Driver) Restart() {
	drv.pc = bus.ResetVector
	drv.safe()
}

// safe puts the bus and the static memory into a state that is safe for
// whatever the target does next.
func (drv *Driver) safe() {
	drv.wiring.Data.Release(bus.Controller)
	drv.wiring.Memory.SetOutputEnable(false)
	drv.wiring.Memory.SetWriteEnable(false)
}

// Branch tells the driver that the target's program counter has been changed
// to addr by the instruction just injected.
func (drv *Driver) Branch(addr bus.Address) {
	drv.pc = addr
}

// PC returns the address of the next instruction fetch as expected by the
// driver.
func (drv *Driver) PC() bus.Address {
	return drv.pc
}

// Index returns the number of cycles serviced.
func (drv *Driver) Index() int {
	return drv.index
}

// LastAddress returns the address lines of the most recently serviced cycle.
func (drv *Driver) LastAddress() bus.Address {
	return drv.lastAddress
}

// Stats returns the cycle counters.
func (drv *Driver) Stats() Stats {
	return drv.stats
}

// DataReadAmbiguous returns true if a memory read of addr, made by an
// instruction consisting of a single opcode byte injected at PC(), would be
// indistinguishable from an instruction fetch on the wired address lines.
func (drv *Driver) DataReadAmbiguous(addr bus.Address) bool {
	mask := drv.wiring.AddressMask
	return addr&mask == (drv.pc+1)&mask
}

func (drv *Driver) timeout(edge string) error {
	err := curated.Errorf(bus.BusTimeout, edge, drv.index, drv.lastAddress)
	logger.Log(logger.Allow, "cycle", err)
	return err
}

// waitStart waits for the start of the next cycle that isn't a refresh cycle.
func (drv *Driver) waitStart() (bus.ControlLines, bus.CycleMode, error) {
	for {
		lines, ok := drv.wiring.Sync.WaitCycleStart(drv.timing.Timeout)
		if !ok {
			return lines, 0, drv.timeout("cycle start")
		}

		mode, err := bus.Classify(lines, drv.pc)
		if err != nil {
			return lines, 0, err
		}

		if mode != bus.Refresh {
			return lines, mode, nil
		}

		drv.stats.Refresh++
		drv.wiring.Sync.ReleaseWait()
		if !drv.wiring.Sync.WaitCycleEnd(drv.timing.Timeout) {
			return lines, 0, drv.timeout("cycle end")
		}
	}
}

// Service the next cycle. The mode must be the mode of the cycle the target
// is about to perform. For an instruction fetch the out value is driven onto
// the data bus. For the other modes it is ignored.
//
// The returned value is the value on the data bus during the cycle.
func (drv *Driver) Service(mode bus.CycleMode, out uint8) (uint8, error) {
	if mode == bus.Refresh {
		return 0, curated.Errorf(Unserviceable, mode)
	}

	lines, actual, err := drv.waitStart()
	if err != nil {
		return 0, err
	}

	if actual != mode {
		err := curated.Errorf(ProtocolDesync, mode, actual, drv.index, lines.Address)
		logger.Log(logger.Allow, "cycle", err)
		return 0, err
	}

	c, err := drv.perform(lines, mode, false, out)
	if err != nil {
		return 0, err
	}

	return c.Data, nil
}

// Passthrough services the next cycle, whatever its mode, from the static
// memory. This is how the target runs a program once it has been loaded.
//
// Without M1 the mode of a read is decided by comparing its address with the
// PC shadow, and the shadow does not follow jumps taken by the program. Once
// the program has branched, the mode of a read cycle in the trace and in the
// Stats() counters is a guess. The data is correct either way because memory
// serves fetches and reads in the same manner.
func (drv *Driver) Passthrough() (Cycle, error) {
	lines, mode, err := drv.waitStart()
	if err != nil {
		return Cycle{}, err
	}
	return drv.perform(lines, mode, true, 0)
}

// perform the bus actions for the cycle. instruction fetches are served from
// the out argument unless fromMemory is true.
func (drv *Driver) perform(lines bus.ControlLines, mode bus.CycleMode, fromMemory bool, out uint8) (Cycle, error) {
	drv.wiring.Strobe.Toggle()
	defer drv.wiring.Strobe.Toggle()

	var in uint8

	switch {
	case mode == bus.InstructionFetch && !fromMemory:
		if err := drv.wiring.Data.Drive(bus.Controller, out); err != nil {
			drv.safe()
			return Cycle{}, err
		}
		in = drv.wiring.Data.Sample()
		drv.wiring.Sync.ReleaseWait()
		ok := drv.wiring.Sync.WaitCycleEnd(drv.timing.Timeout)
		drv.wiring.Data.Release(bus.Controller)
		if !ok {
			return Cycle{}, drv.timeout("cycle end")
		}

	case mode == bus.InstructionFetch || mode == bus.MemoryRead:
		drv.wiring.Data.Release(bus.Controller)
		drv.wiring.Memory.SetOutputEnable(true)
		pause(drv.timing.AccessTime)
		in = drv.wiring.Data.Sample()
		drv.wiring.Sync.ReleaseWait()
		ok := drv.wiring.Sync.WaitCycleEnd(drv.timing.Timeout)
		drv.wiring.Memory.SetOutputEnable(false)
		if !ok {
			return Cycle{}, drv.timeout("cycle end")
		}

	case mode == bus.MemoryWrite:
		drv.wiring.Data.Release(bus.Controller)
		drv.wiring.Memory.SetWriteEnable(true)
		pause(drv.timing.AccessTime)
		in = drv.wiring.Data.Sample()
		drv.wiring.Memory.SetWriteEnable(false)
		drv.wiring.Sync.ReleaseWait()
		if !drv.wiring.Sync.WaitCycleEnd(drv.timing.Timeout) {
			return Cycle{}, drv.timeout("cycle end")
		}
	}

	c := Cycle{
		Index:   drv.index,
		Mode:    mode,
		Address: lines.Address,
		Data:    in,
	}

	drv.index++
	drv.lastAddress = lines.Address

	switch mode {
	case bus.InstructionFetch:
		drv.stats.Fetch++
		drv.pc++
	case bus.MemoryRead:
		drv.stats.Read++
	case bus.MemoryWrite:
		drv.stats.Write++
	}

	if drv.trace != nil {
		fmt.Fprintln(drv.trace, c.String())
	}

	return c, nil
}
