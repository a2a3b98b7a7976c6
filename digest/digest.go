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

package digest

import (
	"crypto/sha1"
	"fmt"
	"hash"

	"github.com/aki80/picoboot/bootloader"
	"github.com/aki80/picoboot/hardware/memory/bus"
)

// Digest implementations compute a hash of some data.
type Digest interface {
	Hash() string
	ResetDigest()
}

// Memory hashes a contiguous block of the target's memory. The start address
// is part of the hash so the same bytes at a different address have a
// different hash.
type Memory struct {
	h       hash.Hash
	started bool
}

// NewMemory is the preferred method of initialisation for the Memory type.
func NewMemory() *Memory {
	return &Memory{h: sha1.New()}
}

// Add a block of bytes to the hash.
func (dig *Memory) Add(start bus.Address, data []uint8) {
	if !dig.started {
		dig.h.Write([]byte{uint8(start >> 8), uint8(start)})
		dig.started = true
	}
	dig.h.Write(data)
}

// Hash implements the Digest interface.
func (dig *Memory) Hash() string {
	return fmt.Sprintf("%x", dig.h.Sum(nil))
}

// ResetDigest implements the Digest interface.
func (dig *Memory) ResetDigest() {
	dig.h.Reset()
	dig.started = false
}

// Image returns the hash of data at start.
func Image(start bus.Address, data []uint8) string {
	dig := NewMemory()
	dig.Add(start, data)
	return dig.Hash()
}

// Dump returns the hash of the bytes read in a verify pass. It is the same as
// the hash of the image that was loaded if the image verified.
func Dump(res *bootloader.Result) string {
	data := make([]uint8, len(res.Dump))
	for i, e := range res.Dump {
		data[i] = e.Value
	}
	return Image(res.Start, data)
}
