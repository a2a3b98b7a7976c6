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

// Package wavwriter captures the diagnostic strobe as a WAV file so that the
// activity of the machine cycle driver can be inspected in an audio editor
// or anything else that displays waveforms.
//
// The left channel is the strobe level. The right channel is the direction
// of the data bus between two edges of the strobe. It is positive if the
// controller or the static memory drove the bus in that interval and negative
// if the target drove it. Zero means the bus floated for the whole interval.
// Samples are not timed. Every interval is stretched over a fixed number of
// samples.
//
// The samples are buffered in memory in their entirety and written to disk
// when the WavWriter is closed.
package wavwriter
