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

// Package bootloader writes a block of bytes into the target's memory and
// reads it back for verification.
//
// The loader only ever talks to the target through the opcode sequencer.
// Both passes set the pointer explicitly so the target can be reset between
// them.
//
// The dump written by Result.WriteDump() is in the format the original
// firmware printed to its UART and is reproduced exactly:
//
//	8000 3E 00 21 00 90 77 23 C3
//	8008 00 80
//
// A partial last row is not terminated by a newline.
package bootloader
