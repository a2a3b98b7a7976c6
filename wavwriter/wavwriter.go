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

package wavwriter

import (
	"os"
	"sync"

	"github.com/aki80/picoboot/curated"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/logger"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SampleFreq is the nominal sample rate of the WAV file.
const SampleFreq = 48000

// SamplesPerEdge is the number of samples written for every strobe edge.
const SamplesPerEdge = 8

const (
	bitDepth = 16
	high     = 0x4000
	low      = -0x4000
)

// WavWriter implements the bus.Strobe interface. Each strobe edge closes an
// interval of the capture. The first channel is the level of the strobe
// during the interval and the second is the direction of the data bus: high
// if the controller side drove the bus at any point in the interval, low if
// the target did, and zero if neither did.
type WavWriter struct {
	filename string

	// strobe that is toggled after the sample has been taken. can be nil
	next bus.Strobe

	crit  sync.Mutex
	level bool

	// direction of the bus now and the direction recorded for the current
	// interval
	current bus.Direction
	dir     bus.Direction

	buffer []int
}

// New is the preferred method of initialisation for the WavWriter type. New
// installs itself as the monitor of the data bus.
func New(filename string, data *bus.DataBus, next bus.Strobe) (*WavWriter, error) {
	if filename == "" {
		return nil, curated.Errorf("wavwriter: %v", "no filename")
	}
	aw := &WavWriter{
		filename: filename,
		next:     next,
		current:  data.Direction(),
	}
	aw.dir = aw.current
	data.SetMonitor(aw.monitor)
	return aw, nil
}

// monitor is called by the data bus on every change. it is called from
// whichever goroutine changed the bus.
func (aw *WavWriter) monitor(dir bus.Direction, _ uint8) {
	aw.crit.Lock()
	defer aw.crit.Unlock()
	aw.current = dir
	if dir != bus.HighImpedance {
		aw.dir = dir
	}
}

// Toggle implements the bus.Strobe interface.
func (aw *WavWriter) Toggle() {
	aw.crit.Lock()

	strobe := low
	if aw.level {
		strobe = high
	}

	var dir int
	switch aw.dir {
	case bus.DrivenByController:
		dir = high
	case bus.DrivenByTarget:
		dir = low
	}

	for range SamplesPerEdge {
		aw.buffer = append(aw.buffer, strobe, dir)
	}

	aw.level = !aw.level
	aw.dir = aw.current

	aw.crit.Unlock()

	if aw.next != nil {
		aw.next.Toggle()
	}
}

// Edges returns the number of strobe edges captured.
func (aw *WavWriter) Edges() int {
	aw.crit.Lock()
	defer aw.crit.Unlock()
	return len(aw.buffer) / (2 * SamplesPerEdge)
}

// Close writes the captured samples to disk.
func (aw *WavWriter) Close() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	logger.Logf(logger.Allow, "wavwriter", "writing %d strobe edges to %s", aw.Edges(), aw.filename)

	aw.crit.Lock()
	data := aw.buffer
	aw.crit.Unlock()

	enc := wav.NewEncoder(f, SampleFreq, bitDepth, 2, 1)

	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: SampleFreq},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	if err := enc.Close(); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
