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

// Package prefs facilitates the storage of preference values on disk. A value
// is created with one of the types in the package (Bool, Int, String,
// Duration) and added to a Disk instance under a key:
//
//	var timeout prefs.Duration
//	dsk, _ := prefs.NewDisk(pth)
//	dsk.Add("cycle.timeout", &timeout)
//	dsk.Load()
//
// The file on disk holds one "key :: value" pair per line. More than one Disk
// instance can share the same file. Keys that belong to a different instance
// are preserved when the file is saved.
//
// Values can be overridden for the lifetime of a Load() with the command line
// stack. See PushCommandLineStack().
package prefs
