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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/aki80/picoboot/bootloader"
	"github.com/aki80/picoboot/console"
	"github.com/aki80/picoboot/digest"
	"github.com/aki80/picoboot/hardware/memory/bus"
	"github.com/aki80/picoboot/hardware/pins"
	"github.com/aki80/picoboot/hardware/preferences"
	"github.com/aki80/picoboot/logger"
	"github.com/aki80/picoboot/modalflag"
	"github.com/aki80/picoboot/prefs"
	"github.com/aki80/picoboot/session"
	"github.com/aki80/picoboot/statsview"
	"github.com/aki80/picoboot/version"
)

func main() {
	// exit value sent by launch()
	done := make(chan int)

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	go launch(done, os.Args[1:])

	select {
	case <-intChan:
		fmt.Println("\r")
		os.Exit(1)
	case v := <-done:
		os.Exit(v)
	}
}

func launch(done chan int, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)

	ver := md.AddBool("version", false, "print version and exit")
	log := md.AddBool("log", false, "echo log to stderr")
	prefsStr := md.AddString("prefs", "", "preferences for this run only (key::value; key::value)")
	stats := md.AddBool("statsview", false, fmt.Sprintf("serve runtime statistics (available=%v)", statsview.Available()))
	md.AddSubModes("BOOT", "RUN")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		done <- 0
		return
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		done <- 10
		return
	}

	if *ver {
		fmt.Println(version.String())
		done <- 0
		return
	}

	if *log {
		logger.EchoTo(os.Stderr)
	}
	logger.Log(logger.Allow, "picoboot", version.String())

	if *prefsStr != "" {
		prefs.PushCommandLineStack(*prefsStr)
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	switch md.Mode() {
	case "BOOT":
		err = boot(md)
	case "RUN":
		err = run(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md, err)
		done <- 20
		return
	}

	done <- 0
}

// options common to BOOT and RUN mode.
type options struct {
	start   *string
	serial  *string
	baud    *int
	wav     *string
	memviz  *string
	verbose *bool
	pins    *string

	timeout    *time.Duration
	accessTime *time.Duration
	resetHold  *time.Duration
}

func addOptions(md *modalflag.Modes) options {
	return options{
		start:   md.AddString("start", "0000", "load address (hex)"),
		serial:  md.AddString("serial", "", "serial device for reports (default stdout)"),
		baud:    md.AddInt("baud", 0, "speed of serial device"),
		wav:     md.AddString("wav", "", "capture strobe to wav file"),
		memviz:  md.AddString("memviz", "", "write graph of session state to file"),
		verbose: md.AddBool("verbose", false, "trace every serviced cycle"),
		pins:    md.AddString("pins", "", "pin assignments on top of the Aki-80 wiring (ROLE=GPIO, ROLE=!GPIO)"),

		timeout:    md.AddDuration("timeout", 0, "maximum wait for a cycle edge"),
		accessTime: md.AddDuration("accesstime", 0, "access time of the static memory"),
		resetHold:  md.AddDuration("resethold", 0, "time reset is held asserted"),
	}
}

// override the preferences with the flags given on the command line. flags
// that were not given leave the preferences unchanged.
func override(md *modalflag.Modes, opts options, p *preferences.Preferences) error {
	var err error
	md.Visit(func(flg string) {
		if err != nil {
			return
		}
		switch flg {
		case "verbose":
			err = p.Verbose.Set(*opts.verbose)
		case "serial":
			err = p.SerialDevice.Set(*opts.serial)
		case "baud":
			err = p.SerialBaud.Set(*opts.baud)
		case "pins":
			err = p.Pins.Set(*opts.pins)
		case "timeout":
			err = p.Timeout.Set(*opts.timeout)
		case "accesstime":
			err = p.AccessTime.Set(*opts.accessTime)
		case "resethold":
			err = p.ResetHold.Set(*opts.resetHold)
		}
		if err != nil {
			err = fmt.Errorf("-%s: %w", flg, err)
		}
	})
	return err
}

// prepare the session from the preferences and the command line.
func prepare(md *modalflag.Modes, opts options) (*session.Session, *console.Console, bus.Address, []uint8, error) {
	if len(md.RemainingArgs()) > 1 {
		return nil, nil, 0, nil, fmt.Errorf("too many arguments for %s mode", md)
	}

	start, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(*opts.start), "0x"), 16, 16)
	if err != nil {
		return nil, nil, 0, nil, fmt.Errorf("bad start address (%s)", *opts.start)
	}

	buf := bootloader.DefaultImage()
	if len(md.RemainingArgs()) == 1 {
		buf, err = os.ReadFile(md.GetArg(0))
		if err != nil {
			return nil, nil, 0, nil, err
		}
	}

	p, err := preferences.NewPreferences()
	if err != nil {
		return nil, nil, 0, nil, err
	}

	if err := override(md, opts, p); err != nil {
		return nil, nil, 0, nil, err
	}

	con, err := console.Open(p.SerialDevice.Get().(string), p.SerialBaud.Get().(int))
	if err != nil {
		return nil, nil, 0, nil, err
	}

	cfg, err := session.ConfigFromPreferences(p, con)
	if err != nil {
		con.Close()
		return nil, nil, 0, nil, err
	}
	cfg.WavFile = *opts.wav

	logger.Logf(logger.Allow, "picoboot", "address lines visible to controller: %04x", cfg.Pins.AddressMask())
	if !cfg.Pins.Wired(pins.M1) {
		logger.Log(logger.Allow, "picoboot", "M1 is not wired. reads will be padded when necessary")
	}

	s, err := session.NewSession(cfg)
	if err != nil {
		con.Close()
		return nil, nil, 0, nil, err
	}

	return s, con, bus.Address(start), buf, nil
}

// finish the session and write the memviz graph if requested.
func finish(s *session.Session, con *console.Console, opts options) error {
	if *opts.memviz != "" {
		f, err := os.Create(*opts.memviz)
		if err != nil {
			return err
		}
		s.DumpGraph(f)
		if err := f.Close(); err != nil {
			return err
		}
	}

	st := s.Stats()
	con.Printf("\ncycles: %d fetch, %d read, %d write, %d refresh\n", st.Fetch, st.Read, st.Write, st.Refresh)

	if err := s.End(); err != nil {
		return err
	}
	return con.Close()
}

func boot(md *modalflag.Modes) error {
	md.NewMode()
	opts := addOptions(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	s, con, start, buf, err := prepare(md, opts)
	if err != nil {
		return err
	}

	res, err := s.Boot(start, buf)
	if err != nil {
		_ = finish(s, con, opts)
		return err
	}

	if err := res.WriteDump(con); err != nil {
		return err
	}
	con.Printf("\nimage sha1: %s\n", digest.Image(start, buf))
	con.Printf("verify sha1: %s\n", digest.Dump(res))
	if !res.Verified() {
		con.Printf("\n%d bytes did not verify\n", len(res.Mismatches))
		if err := res.WriteMismatches(con); err != nil {
			return err
		}
	}

	return finish(s, con, opts)
}

func run(md *modalflag.Modes) error {
	md.NewMode()
	opts := addOptions(md)
	cycles := md.AddInt("cycles", 1000, "number of cycles to run after loading")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	s, con, start, buf, err := prepare(md, opts)
	if err != nil {
		return err
	}

	res, err := s.Boot(start, buf)
	if err != nil {
		_ = finish(s, con, opts)
		return err
	}
	if !res.Verified() {
		_ = res.WriteMismatches(con)
		_ = finish(s, con, opts)
		return fmt.Errorf("%d bytes did not verify", len(res.Mismatches))
	}

	ran, err := s.Run(*cycles)
	con.Printf("ran %d cycles\n", len(ran))
	if s.Halted() {
		con.Printf("target halted\n")
	}
	if err != nil {
		_ = finish(s, con, opts)
		return err
	}

	return finish(s, con, opts)
}
