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

package sequencer

// Z80 opcodes injected by the sequencer.
const (
	opNOP    = 0x00
	opLDHLnn = 0x21
	opINCHL  = 0x23
	opLDAn   = 0x3e
	opHALT   = 0x76
	opLDHLA  = 0x77
	opLDAHL  = 0x7e
	opJPnn   = 0xc3
)

// Halt is the opcode for the HALT instruction. A target that has executed it
// performs no more memory cycles.
const Halt = opHALT
