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

// Package bus defines the vocabulary shared by every part of the system that
// touches the target CPU's memory bus: addresses, the three kinds of machine
// cycle, the direction of the data bus and the snapshot of control lines taken
// at the start of a cycle.
//
// The data bus itself is modelled by the DataBus type. The data bus is the one
// resource shared between the controller, the controller's static memory and
// the target CPU. At most one of them may drive it at any instant. The
// DataBus type refuses a second driver rather than resolving the conflict.
//
// The interfaces at the end of bus.go describe the external collaborators of
// the machine cycle driver. A real board implements them with GPIO and a
// co-processor program. The simboard package implements them in software.
package bus
