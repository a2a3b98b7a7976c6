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

// Package modalflag wraps the flag package of the standard library so that a
// program can have modes, each with its own set of flags. The picoboot
// command has two modes, BOOT and RUN:
//
//	picoboot -pins "M1=!11" BOOT -start 8000 program.bin
//	picoboot RUN -cycles 1000
//
// The arguments are given to NewArgs() and the flags for the first layer are
// added. The list of modes is given with AddSubModes(). The first mode in the
// list is the default. After a call to Parse() the selected mode is returned
// by Mode().
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("BOOT", "RUN")
//	p, err := md.Parse()
//
// NewMode() then starts a new layer of flags for the selected mode. Mode names
// are case insensitive.
package modalflag
