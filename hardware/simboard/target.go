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
	"context"

	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/logger"
	"github.com/koron-go/z80"
)

// abort is the value of the panic used to unwind the emulated CPU when reset
// is asserted in the middle of a cycle.
type abort struct{}

// target runs the emulated CPU in its own goroutine. target implements the
// z80.Memory interface so every memory access of the CPU goes through the
// board as a machine cycle.
type target struct {
	board   *Board
	cpu     z80.CPU
	refresh bool

	// refresh address counter
	r uint8

	// the CPU has executed a HALT instruction and will perform no more
	// cycles. guarded by the board's critical section
	halted bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newTarget(b *Board, refresh bool) *target {
	t := &target{
		board:   b,
		refresh: refresh,
		done:    make(chan struct{}),
	}
	t.ctx, t.cancel = context.WithCancel(context.Background())
	t.cpu = z80.CPU{
		States: z80.States{SPR: z80.SPR{PC: bus.ResetVector}},
		Memory: t,
	}

	go t.run()

	return t
}

func (t *target) run() {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abort); !ok {
				panic(r)
			}
		}
	}()

	err := t.cpu.Run(t.ctx)
	if t.ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.Logf(logger.Allow, "simboard", "target stopped: %v", err)
		return
	}
	t.board.crit.Lock()
	t.halted = true
	t.board.crit.Unlock()

	logger.Log(logger.Allow, "simboard", "target halted")
}

// stop the target and wait for the goroutine to end.
func (t *target) stop() {
	t.cancel()
	<-t.done
}

func (t *target) signal(ch chan struct{}) {
	select {
	case <-t.ctx.Done():
		panic(abort{})
	default:
	}
	select {
	case ch <- struct{}{}:
	case <-t.ctx.Done():
		panic(abort{})
	}
}

func (t *target) await(ch chan struct{}) {
	select {
	case <-ch:
	case <-t.ctx.Done():
		panic(abort{})
	}
}

// cycle performs one machine cycle. for a write cycle the value is driven onto
// the data bus for the duration of the cycle. for a read cycle the data bus is
// latched when the wait-state is released.
func (t *target) cycle(lines bus.ControlLines, v uint8) uint8 {
	b := t.board

	t.await(b.ready)
	b.begin(lines)
	if lines.WR {
		if err := b.Data.Drive(bus.Target, v); err != nil {
			b.fault(err)
		}
	}

	t.signal(b.starts)
	t.await(b.release)

	var in uint8
	if lines.RD {
		in = b.Data.Sample()
	}
	if lines.WR {
		b.Data.Release(bus.Target)
	}

	b.end()
	t.signal(b.ends)

	return in
}

// Get implements the z80.Memory interface.
func (t *target) Get(addr uint16) uint8 {
	v := t.cycle(bus.ControlLines{MREQ: true, RD: true, Address: addr}, 0)
	if t.refresh {
		t.cycle(bus.ControlLines{MREQ: true, RFSH: true, Address: bus.Address(t.r)}, 0)
		t.r = (t.r + 1) & 0x7f
	}
	return v
}

// Set implements the z80.Memory interface.
func (t *target) Set(addr uint16, value uint8) {
	t.cycle(bus.ControlLines{MREQ: true, WR: true, Address: addr}, value)
}
