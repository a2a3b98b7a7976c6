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

// Package cycle implements the machine cycle driver. The driver services one
// machine cycle of the target at a time. A machine cycle is serviced by
// driving the data bus with a byte of our choosing (an instruction fetch), or
// by gating the controller's static memory onto the bus (a memory read or
// memory write).
//
// The mode of every cycle is re-derived from the control lines with
// bus.Classify(). If the mode does not match what the caller asked for then
// the cycle is not serviced and a ProtocolDesync error is returned. The
// target is left stalled in the wait-state in that case and the only way
// forward is a reset.
//
// Refresh cycles are released as soon as they are seen and are never
// returned to the caller.
//
// Each serviced cycle is bracketed by two toggles of the diagnostic strobe.
// When a trace writer is set, each serviced cycle is also written to it as a
// single line, a mode tag followed by the byte transferred:
//
//	I 21
//	I 00
//	I 80
//	I 3E
//	I 76
//	I 77
//	W 76
package cycle
