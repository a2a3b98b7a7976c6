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

// Package console is where reports are written. The console is normally
// stdout but can be a serial device, opened with github.com/pkg/term, in
// which case newlines are sent as CR LF as the original firmware's UART did.
package console
