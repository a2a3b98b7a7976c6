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

// Package sequencer turns memory operations on the target's address space
// into sequences of injected Z80 instructions.
//
// The target has no debug port and no DMA. The only way to reach its memory
// is to make it execute instructions that access the memory for us. The
// sequencer feeds those instructions to the target, one byte per instruction
// fetch, and services the data cycles the instructions cause.
//
// The HL register pair is used as the memory pointer. The sequencer keeps a
// shadow of HL that is valid from the first SetPointer() until the target is
// reset.
package sequencer
