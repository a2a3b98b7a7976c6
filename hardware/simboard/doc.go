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

// Package simboard is a software model of the Aki-80 board and the controller
// GPIO it is wired to. It is used in place of the real hardware when testing
// the cycle driver and everything built on top of it.
//
// The target is a Z80 emulated by github.com/koron-go/z80. Every memory
// access the emulated CPU makes becomes one machine cycle: the address and
// control lines are put on the GPIO word, the target is stalled by the
// wait-state, and the access completes only when the controller releases the
// wait. The controller sees the control lines by decoding the GPIO word with
// the pins.Map the board was created with.
//
// The board's static memory is gated onto the data bus by the output enable
// and write enable signals, exactly as the controller would gate the real
// memory chip. Contention on the data bus is recorded as a fault.
//
// The emulated CPU runs instructions as a whole so the board cannot tell the
// first byte of an instruction from its operands. M1 is never asserted, which
// is how the Aki-80 is wired anyway. Refresh cycles, when enabled, follow
// every read cycle.
//
// A CPU that executes HALT performs no more cycles. Halted() tells that case
// apart from a target that stopped for any other reason.
package simboard
