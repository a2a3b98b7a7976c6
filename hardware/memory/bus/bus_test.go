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

package bus_test

import (
	"testing"

	"github.com/aki80/picoboot/curated"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/test"
)

func TestClassify(t *testing.T) {
	const pc = 0x0010

	script := []struct {
		lines bus.ControlLines
		mode  bus.CycleMode
	}{
		// opcode fetch identified by M1 regardless of address
		{bus.ControlLines{MREQ: true, RD: true, M1: true, Address: 0x8000, AddressMask: 0xffff}, bus.InstructionFetch},

		// operand fetch identified by the address matching pc
		{bus.ControlLines{MREQ: true, RD: true, Address: pc, AddressMask: 0xffff}, bus.InstructionFetch},

		// read from anywhere else
		{bus.ControlLines{MREQ: true, RD: true, Address: 0x1234, AddressMask: 0xffff}, bus.MemoryRead},

		// write
		{bus.ControlLines{MREQ: true, WR: true, Address: pc, AddressMask: 0xffff}, bus.MemoryWrite},

		// refresh takes priority over everything
		{bus.ControlLines{MREQ: true, RFSH: true, Address: 0x007f, AddressMask: 0xffff}, bus.Refresh},

		// partially wired address lines. 0x0011 differs from pc in A0
		{bus.ControlLines{MREQ: true, RD: true, Address: 0x0011, AddressMask: 0x00e1}, bus.MemoryRead},

		// 0x0210 differs from pc only in unwired lines
		{bus.ControlLines{MREQ: true, RD: true, Address: 0x0210, AddressMask: 0x00e1}, bus.InstructionFetch},
	}

	for i, s := range script {
		mode, err := bus.Classify(s.lines, pc)
		test.ExpectSuccess(t, err, i)
		test.ExpectEquality(t, mode, s.mode, i)
	}
}

func TestClassifyUnknown(t *testing.T) {
	_, err := bus.Classify(bus.ControlLines{RD: true}, 0)
	test.ExpectSuccess(t, curated.Is(err, bus.UnknownCycle))

	_, err = bus.Classify(bus.ControlLines{MREQ: true}, 0)
	test.ExpectSuccess(t, curated.Is(err, bus.UnknownCycle))

	_, err = bus.Classify(bus.ControlLines{MREQ: true, RD: true, WR: true}, 0)
	test.ExpectSuccess(t, curated.Is(err, bus.UnknownCycle))
}

func TestDataBusExclusivity(t *testing.T) {
	db := bus.NewDataBus()
	test.ExpectEquality(t, db.Direction(), bus.HighImpedance)
	test.ExpectEquality(t, db.Sample(), uint8(bus.FloatingLevel))

	var transitions []bus.Direction
	db.SetMonitor(func(dir bus.Direction, _ uint8) {
		transitions = append(transitions, dir)
	})

	test.ExpectSuccess(t, db.Drive(bus.Controller, 0x21))
	test.ExpectEquality(t, db.Direction(), bus.DrivenByController)
	test.ExpectEquality(t, db.Sample(), uint8(0x21))

	// the target cannot drive while the controller drives
	err := db.Drive(bus.Target, 0x55)
	test.ExpectSuccess(t, curated.Is(err, bus.Contention))
	test.ExpectEquality(t, db.Sample(), uint8(0x21))

	// nor can the static memory
	err = db.Drive(bus.Memory, 0x55)
	test.ExpectSuccess(t, curated.Is(err, bus.Contention))

	// release by a source that isn't driving is ignored
	db.Release(bus.Target)
	test.ExpectEquality(t, db.Direction(), bus.DrivenByController)

	db.Release(bus.Controller)
	test.ExpectEquality(t, db.Direction(), bus.HighImpedance)

	test.ExpectSuccess(t, db.Drive(bus.Target, 0x3e))
	test.ExpectEquality(t, db.Direction(), bus.DrivenByTarget)
	db.Release(bus.Target)

	test.ExpectSuccess(t, db.Drive(bus.Memory, 0x76))
	test.ExpectEquality(t, db.Direction(), bus.DrivenByController)
	db.Release(bus.Memory)

	expected := []bus.Direction{
		bus.DrivenByController, bus.HighImpedance,
		bus.DrivenByTarget, bus.HighImpedance,
		bus.DrivenByController, bus.HighImpedance,
	}
	test.DemandEquality(t, len(transitions), len(expected))
	for i := range expected {
		test.ExpectEquality(t, transitions[i], expected[i], i)
	}
}
