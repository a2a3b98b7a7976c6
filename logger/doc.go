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

// Package logger is the central log for the application. Entries are tagged,
// normally with the name of the package or subsystem creating the entry, and
// the log is bounded so that a long bootstrap session cannot grow it without
// limit. Consecutive identical entries are folded into one entry with a
// repeat count.
//
// Every log request takes a Permission. The Allow value always permits
// logging. Other implementations can be used to silence a subsystem, for
// example the machine cycle driver only logs when verbose tracing is on.
//
//	logger.Logf(logger.Allow, "reset", "hold for %v", hold)
//
// Entries can be echoed as they are created with SetEcho(). When the echo
// writer is a terminal the tag is dimmed to separate it from the detail.
package logger
