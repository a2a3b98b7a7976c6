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

// Package hardware and its sub-packages model the controller side of the
// Aki-80 bootstrap: the machine cycle driver, the opcode sequencer, the
// reset controller, the GPIO wiring and a software model of the board.
//
// The target has no debug port and no DMA path into its memory. Everything
// the controller does to the target's memory is done by feeding the target
// instructions during the instruction fetch cycles it intercepts.
package hardware
