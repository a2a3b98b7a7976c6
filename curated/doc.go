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

// Package curated wraps the plain Go error type with a pattern that can be
// tested for later. Errors are created with Errorf(), which takes a pattern and
// values in the same way as fmt.Errorf(). The pattern is remembered so that the
// Is() and Has() functions can answer whether an error is of a particular
// kind without resorting to string matching on the formatted message.
//
// Patterns that callers need to test for are exported as string constants by
// the package that creates the error. For example, the bus package exports the
// BusTimeout pattern:
//
//	err := curated.Errorf(bus.BusTimeout, "cycle start", 12, 0x0100)
//
//	if curated.Is(err, bus.BusTimeout) {
//		fmt.Println("no cycle start edge")
//	}
//
// Has() looks for the pattern anywhere in the chain of wrapped errors. This is
// how the bootloader package discovers that a pass was aborted by a timeout
// deep in the machine cycle driver:
//
//	f := curated.Errorf("bootloader: %v", err)
//	curated.Has(f, bus.BusTimeout) // true
//	curated.Is(f, bus.BusTimeout)  // false
//
// The Error() function normalises the message so that adjacent duplicate
// parts of the chain are removed. Parts are separated by ": ". This means
// that each layer can prefix its own package name without the final message
// reading "cycle: cycle: ...".
package curated
