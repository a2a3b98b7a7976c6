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

package session

import (
	"io"
	"time"

	"github.com/aki80/picoboot/bootloader"
	"github.com/aki80/picoboot/curated"
	"github.com/aki80/picoboot/hardware/cycle"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/hardware/pins"
	"github.com/aki80/picoboot/hardware/preferences"
	"github.com/aki80/picoboot/hardware/reset"
	"github.com/aki80/picoboot/hardware/sequencer"
	"github.com/aki80/picoboot/hardware/simboard"
	"github.com/aki80/picoboot/logger"
	"github.com/aki80/picoboot/wavwriter"
	"github.com/bradleyjkemp/memviz"
)

// Config for a new session.
type Config struct {
	Pins               pins.Map
	Timing             cycle.Timing
	ResetHold          time.Duration
	ResetBetweenPasses bool
	Refresh            bool

	// every serviced cycle is written to Trace. can be nil
	Trace io.Writer

	// capture the strobe to a WAV file. an empty string means no capture
	WavFile string
}

// ConfigFromPreferences creates a Config from the hardware preferences.
func ConfigFromPreferences(p *preferences.Preferences, trace io.Writer) (Config, error) {
	m, err := pins.Parse(pins.Default(), p.Pins.Get().(string))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Pins:               m,
		Timing:             p.Timing(),
		ResetHold:          p.ResetHold.Get().(time.Duration),
		ResetBetweenPasses: p.ResetBetweenPasses.Get().(bool),
		Refresh:            p.Refresh.Get().(bool),
	}
	if p.Verbose.Get().(bool) {
		cfg.Trace = trace
	}

	return cfg, nil
}

// Session is a bootstrap session with the target.
type Session struct {
	Board *simboard.Board

	drv *cycle.Driver
	seq *sequencer.Sequencer
	rc  *reset.Controller
	ld  *bootloader.Loader
	wav *wavwriter.WavWriter

	last *bootloader.Result
}

// NewSession is the preferred method of initialisation for the Session type.
// The target is held in reset until the first call to Boot() or Run().
func NewSession(cfg Config) (*Session, error) {
	brd, err := simboard.NewBoard(cfg.Pins)
	if err != nil {
		return nil, err
	}
	brd.SetRefresh(cfg.Refresh)

	s := &Session{Board: brd}

	var strobe bus.Strobe = brd
	if cfg.WavFile != "" {
		s.wav, err = wavwriter.New(cfg.WavFile, brd.Data, brd)
		if err != nil {
			return nil, err
		}
		strobe = s.wav
	}

	s.drv, err = cycle.NewDriver(cycle.Wiring{
		Data:        brd.Data,
		Memory:      brd,
		Sync:        brd,
		Strobe:      strobe,
		AddressMask: cfg.Pins.AddressMask(),
	}, cfg.Timing)
	if err != nil {
		return nil, err
	}
	s.drv.SetTrace(cfg.Trace)

	s.seq = sequencer.NewSequencer(s.drv)
	s.rc = reset.NewController(brd, s.drv, s.seq)
	s.rc.SetHold(cfg.ResetHold)
	s.ld = bootloader.NewLoader(s.seq, s.drv, s.rc)
	s.ld.SetResetBetweenPasses(cfg.ResetBetweenPasses)

	return s, nil
}

// Boot resets the target and loads buf into its memory at start.
func (s *Session) Boot(start bus.Address, buf []uint8) (*bootloader.Result, error) {
	s.rc.ResetAndRun()
	res, err := s.ld.LoadAndVerify(start, buf)
	if err != nil {
		return nil, err
	}
	s.last = res
	return res, nil
}

// Run resets the target and lets it run the program in its memory for n
// cycles. Run ends early, without error, if the target halts.
func (s *Session) Run(n int) ([]cycle.Cycle, error) {
	s.rc.ResetAndRun()

	cycles := make([]cycle.Cycle, 0, n)
	for range n {
		c, err := s.drv.Passthrough()
		if err != nil {
			if curated.Is(err, bus.BusTimeout) && s.Board.Halted() {
				logger.Logf(logger.Allow, "session", "target halted after %d cycles", len(cycles))
				return cycles, nil
			}
			return cycles, err
		}
		cycles = append(cycles, c)
	}

	logger.Logf(logger.Allow, "session", "target ran for %d cycles", n)

	return cycles, nil
}

// Halted returns true if the target has stopped at a HALT instruction.
func (s *Session) Halted() bool {
	return s.Board.Halted()
}

// End the session. The target is left in reset.
func (s *Session) End() error {
	s.rc.Hold()
	if s.wav != nil {
		return s.wav.Close()
	}
	return nil
}

// Stats returns the cycle counters of the driver.
func (s *Session) Stats() cycle.Stats {
	return s.drv.Stats()
}

// snapshot is the state of the session in a form that makes for a readable
// graph.
type snapshot struct {
	PC           bus.Address
	Cycles       int
	LastAddress  bus.Address
	Stats        cycle.Stats
	Pointer      bus.Address
	PointerValid bool
	Padding      int
	Resets       int
	Faults       []string
	Mismatches   []bootloader.Mismatch
}

// DumpGraph writes the state of the session as a Graphviz graph.
func (s *Session) DumpGraph(w io.Writer) {
	snp := &snapshot{
		PC:          s.drv.PC(),
		Cycles:      s.drv.Index(),
		LastAddress: s.drv.LastAddress(),
		Stats:       s.drv.Stats(),
		Padding:     s.seq.Padding(),
		Resets:      s.rc.Resets(),
	}
	snp.Pointer, snp.PointerValid = s.seq.Pointer()
	for _, f := range s.Board.Faults() {
		snp.Faults = append(snp.Faults, f.Error())
	}
	if s.last != nil {
		snp.Mismatches = s.last.Mismatches
	}

	memviz.Map(w, snp)
}
