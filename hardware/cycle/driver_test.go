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

package cycle_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aki80/picoboot/curated"
	"github.com/aki80/picoboot/hardware/cycle"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/test"
)

// step is one cycle of the scripted target
type step struct {
	lines bus.ControlLines

	// value driven by the target in a write cycle
	write uint8

	// the end of the cycle never arrives
	noEnd bool
}

// scripted is a synchronizer, memory and strobe in one. it plays a list of
// steps and records what the target would have seen
type scripted struct {
	t    *testing.T
	data *bus.DataBus

	steps []step
	idx   int

	// memory contents and the value latched by the target in each read/fetch
	mem     map[bus.Address]uint8
	latched []uint8

	oe, we  bool
	strobe  int
	dirs    []bus.Direction
	waiting bool
}

func newScripted(t *testing.T, steps ...step) *scripted {
	s := &scripted{
		t:     t,
		data:  bus.NewDataBus(),
		steps: steps,
		mem:   make(map[bus.Address]uint8),
	}
	s.data.SetMonitor(func(dir bus.Direction, _ uint8) {
		s.dirs = append(s.dirs, dir)
	})
	return s
}

func (s *scripted) current() step {
	return s.steps[s.idx]
}

func (s *scripted) WaitCycleStart(_ time.Duration) (bus.ControlLines, bool) {
	if s.idx >= len(s.steps) {
		return bus.ControlLines{}, false
	}
	st := s.current()
	if st.lines.WR {
		if err := s.data.Drive(bus.Target, st.write); err != nil {
			s.t.Errorf("target could not drive bus: %v", err)
		}
	}
	s.waiting = true
	return st.lines, true
}

func (s *scripted) ReleaseWait() {
	if !s.waiting {
		s.t.Errorf("wait released twice")
	}
	s.waiting = false
	st := s.current()
	if st.lines.RD {
		s.latched = append(s.latched, s.data.Sample())
	}
}

func (s *scripted) WaitCycleEnd(_ time.Duration) bool {
	st := s.current()
	if st.noEnd {
		return false
	}
	if st.lines.WR {
		s.data.Release(bus.Target)
	}
	s.idx++
	return true
}

func (s *scripted) SetOutputEnable(enable bool) {
	s.oe = enable
	if enable {
		if err := s.data.Drive(bus.Memory, s.mem[s.current().lines.Address]); err != nil {
			s.t.Errorf("memory could not drive bus: %v", err)
		}
	} else {
		s.data.Release(bus.Memory)
	}
}

func (s *scripted) SetWriteEnable(enable bool) {
	if s.we && !enable {
		s.mem[s.current().lines.Address] = s.data.Sample()
	}
	s.we = enable
}

func (s *scripted) Toggle() {
	s.strobe++
}

func (s *scripted) driver(t *testing.T) *cycle.Driver {
	t.Helper()
	drv, err := cycle.NewDriver(cycle.Wiring{
		Data:        s.data,
		Memory:      s,
		Sync:        s,
		Strobe:      s,
		AddressMask: 0xffff,
	}, cycle.Timing{Timeout: time.Millisecond})
	test.DemandSuccess(t, err)
	return drv
}

func fetch(addr bus.Address) step {
	return step{lines: bus.ControlLines{MREQ: true, RD: true, M1: true, Address: addr, AddressMask: 0xffff}}
}

func operand(addr bus.Address) step {
	return step{lines: bus.ControlLines{MREQ: true, RD: true, Address: addr, AddressMask: 0xffff}}
}

func read(addr bus.Address) step {
	return step{lines: bus.ControlLines{MREQ: true, RD: true, Address: addr, AddressMask: 0xffff}}
}

func write(addr bus.Address, v uint8) step {
	return step{lines: bus.ControlLines{MREQ: true, WR: true, Address: addr, AddressMask: 0xffff}, write: v}
}

func refresh() step {
	return step{lines: bus.ControlLines{MREQ: true, RFSH: true, AddressMask: 0xffff}}
}

func TestFetchDrivesBus(t *testing.T) {
	s := newScripted(t, fetch(0x0000), operand(0x0001), operand(0x0002))
	drv := s.driver(t)

	for _, v := range []uint8{0x21, 0x34, 0x12} {
		in, err := drv.Service(bus.InstructionFetch, v)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, in, v)
	}

	test.DemandEquality(t, len(s.latched), 3)
	test.ExpectEquality(t, s.latched[0], uint8(0x21))
	test.ExpectEquality(t, s.latched[1], uint8(0x34))
	test.ExpectEquality(t, s.latched[2], uint8(0x12))
	test.ExpectEquality(t, drv.PC(), bus.Address(0x0003))
	test.ExpectEquality(t, s.data.Direction(), bus.HighImpedance)
	test.ExpectEquality(t, s.strobe, 6)
}

func TestReadAndWriteUseMemory(t *testing.T) {
	s := newScripted(t, fetch(0x0000), write(0x8000, 0x5a), fetch(0x0001), read(0x8000))
	drv := s.driver(t)

	_, err := drv.Service(bus.InstructionFetch, 0x77)
	test.DemandSuccess(t, err)

	in, err := drv.Service(bus.MemoryWrite, 0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, in, uint8(0x5a))
	test.ExpectEquality(t, s.mem[0x8000], uint8(0x5a))

	_, err = drv.Service(bus.InstructionFetch, 0x7e)
	test.DemandSuccess(t, err)

	in, err = drv.Service(bus.MemoryRead, 0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, in, uint8(0x5a))
	test.ExpectEquality(t, s.latched[len(s.latched)-1], uint8(0x5a))

	// memory gates are closed after the cycles
	test.ExpectFailure(t, s.oe)
	test.ExpectFailure(t, s.we)

	// the bus was never driven by two sources and always returned to high
	// impedance
	for i := 1; i < len(s.dirs); i++ {
		if s.dirs[i] != bus.HighImpedance {
			test.ExpectEquality(t, s.dirs[i-1], bus.HighImpedance, i)
		}
	}
	test.ExpectEquality(t, s.dirs[len(s.dirs)-1], bus.HighImpedance)

	st := drv.Stats()
	test.ExpectEquality(t, st.Fetch, 2)
	test.ExpectEquality(t, st.Read, 1)
	test.ExpectEquality(t, st.Write, 1)
}

func TestRefreshSkipped(t *testing.T) {
	s := newScripted(t, fetch(0x0000), refresh(), fetch(0x0001), refresh())
	drv := s.driver(t)

	_, err := drv.Service(bus.InstructionFetch, 0x00)
	test.ExpectSuccess(t, err)
	_, err = drv.Service(bus.InstructionFetch, 0x00)
	test.ExpectSuccess(t, err)

	// two refresh cycles are not serviced. the second one is skipped while
	// waiting for a third cycle that never arrives
	_, err = drv.Service(bus.InstructionFetch, 0x00)
	test.ExpectSuccess(t, curated.Is(err, bus.BusTimeout))
	test.ExpectEquality(t, drv.Stats().Refresh, 2)
	test.ExpectEquality(t, s.strobe, 4)
}

func TestProtocolDesync(t *testing.T) {
	s := newScripted(t, fetch(0x0000), write(0x1234, 0xff))
	drv := s.driver(t)

	_, err := drv.Service(bus.InstructionFetch, 0x7e)
	test.DemandSuccess(t, err)

	// the caller expects a read but the target writes
	_, err = drv.Service(bus.MemoryRead, 0)
	test.ExpectSuccess(t, curated.Is(err, cycle.ProtocolDesync))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "address 1234"))

	// the cycle was not serviced
	test.ExpectSuccess(t, s.waiting)
	test.ExpectEquality(t, s.strobe, 2)
	test.ExpectEquality(t, s.mem[0x1234], uint8(0))
}

func TestBusTimeout(t *testing.T) {
	s := newScripted(t, fetch(0x0000), step{lines: fetch(0x0001).lines, noEnd: true})
	drv := s.driver(t)

	_, err := drv.Service(bus.InstructionFetch, 0x00)
	test.DemandSuccess(t, err)

	_, err = drv.Service(bus.InstructionFetch, 0x00)
	test.ExpectSuccess(t, curated.Is(err, bus.BusTimeout))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "cycle end"))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "cycle 1"))

	// the controller is not left driving the bus
	test.ExpectEquality(t, s.data.Direction(), bus.HighImpedance)
}

func TestRefreshCannotBeRequested(t *testing.T) {
	s := newScripted(t, refresh())
	drv := s.driver(t)
	_, err := drv.Service(bus.Refresh, 0)
	test.ExpectSuccess(t, curated.Is(err, cycle.Unserviceable))
}

func TestPassthrough(t *testing.T) {
	s := newScripted(t, fetch(0x0000), operand(0x0001), write(0x0040, 0x99))
	s.mem[0x0000] = 0x3e
	s.mem[0x0001] = 0x99
	drv := s.driver(t)

	w := &test.CompareWriter{}
	drv.SetTrace(w)

	c, err := drv.Passthrough()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, c.Mode, bus.InstructionFetch)
	test.ExpectEquality(t, c.Data, uint8(0x3e))

	c, err = drv.Passthrough()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, c.Mode, bus.InstructionFetch)
	test.ExpectEquality(t, c.Data, uint8(0x99))

	c, err = drv.Passthrough()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, c.Mode, bus.MemoryWrite)
	test.ExpectEquality(t, c.Address, bus.Address(0x0040))
	test.ExpectEquality(t, s.mem[0x0040], uint8(0x99))

	test.ExpectEquality(t, w.String(), "I 3E\nI 99\nW 99\n")
}

func TestIncompleteWiring(t *testing.T) {
	_, err := cycle.NewDriver(cycle.Wiring{}, cycle.Timing{})
	test.ExpectSuccess(t, curated.Is(err, cycle.Incomplete))
}

func TestDataReadAmbiguous(t *testing.T) {
	s := newScripted(t)
	drv, err := cycle.NewDriver(cycle.Wiring{
		Data:        s.data,
		Memory:      s,
		Sync:        s,
		AddressMask: 0x00e1,
	}, cycle.Timing{})
	test.DemandSuccess(t, err)

	drv.Branch(0x0010)
	test.ExpectSuccess(t, drv.DataReadAmbiguous(0x0011))
	test.ExpectSuccess(t, drv.DataReadAmbiguous(0x8711))
	test.ExpectFailure(t, drv.DataReadAmbiguous(0x0010))
	test.ExpectFailure(t, drv.DataReadAmbiguous(0x0031))
}
