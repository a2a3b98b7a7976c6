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

package session_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aki80/picoboot/bootloader"
	"github.com/aki80/picoboot/hardware/cycle"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/hardware/pins"
	"github.com/aki80/picoboot/hardware/sequencer"
	"github.com/aki80/picoboot/session"
	"github.com/aki80/picoboot/test"
)

func config() session.Config {
	return session.Config{
		Pins:               pins.Default(),
		Timing:             cycle.Timing{Timeout: 250 * time.Millisecond},
		ResetBetweenPasses: true,
	}
}

func TestBootAndRun(t *testing.T) {
	cfg := config()
	cfg.WavFile = filepath.Join(t.TempDir(), "strobe.wav")
	trace := &test.CompareWriter{}
	cfg.Trace = trace

	s, err := session.NewSession(cfg)
	test.DemandSuccess(t, err)

	// LD A,0x42 ; LD (0x8000),A ; HALT
	prog := []uint8{0x3e, 0x42, 0x32, 0x00, 0x80, sequencer.Halt}
	res, err := s.Boot(0x0000, prog)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, res.Verified())

	trace.Clear()
	cycles, err := s.Run(7)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(cycles), 7)
	test.ExpectEquality(t, cycles[5].Mode, bus.MemoryWrite)
	test.ExpectEquality(t, cycles[5].Data, uint8(0x42))
	test.ExpectEquality(t, cycles[6].Data, uint8(sequencer.Halt))
	test.ExpectEquality(t, s.Board.Peek(0x8000), uint8(0x42))
	test.ExpectEquality(t, trace.String(), "I 3E\nI 42\nI 32\nI 00\nI 80\nW 42\nI 76\n")

	test.ExpectFailure(t, s.Halted())

	// the target halts after the seventh cycle. that ends the run early
	cycles, err = s.Run(8)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(cycles), 7)
	test.ExpectSuccess(t, s.Halted())

	test.ExpectSuccess(t, s.End())
	test.ExpectFailure(t, s.Board.Running())
}

func TestFirstFetchAfterReset(t *testing.T) {
	s, err := session.NewSession(config())
	test.DemandSuccess(t, err)
	defer s.End()

	_, err = s.Boot(0x0000, []uint8{sequencer.Halt})
	test.DemandSuccess(t, err)

	cycles, err := s.Run(1)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cycles[0].Mode, bus.InstructionFetch)
	test.ExpectEquality(t, cycles[0].Data, uint8(sequencer.Halt))
}

func TestRunDefaultImage(t *testing.T) {
	s, err := session.NewSession(config())
	test.DemandSuccess(t, err)
	defer s.End()

	res, err := s.Boot(0x0000, bootloader.DefaultImage())
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, res.Verified())

	cycles, err := s.Run(1000)
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(cycles), 1)
	test.ExpectEquality(t, cycles[0].Data, uint8(sequencer.Halt))
	test.ExpectSuccess(t, s.Halted())
}

func TestDumpGraph(t *testing.T) {
	s, err := session.NewSession(config())
	test.DemandSuccess(t, err)
	defer s.End()

	_, err = s.Boot(0x4000, []uint8{1, 2, 3})
	test.DemandSuccess(t, err)

	w := &strings.Builder{}
	s.DumpGraph(w)
	test.ExpectSuccess(t, strings.Contains(w.String(), "digraph"))
	test.ExpectSuccess(t, strings.Contains(w.String(), "PointerValid"))
}

func TestBadPins(t *testing.T) {
	cfg := config()
	delete(cfg.Pins, pins.WAIT)
	_, err := session.NewSession(cfg)
	test.ExpectFailure(t, err)
}
