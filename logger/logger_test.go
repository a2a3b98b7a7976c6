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

package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aki80/picoboot/logger"
	"github.com/aki80/picoboot/test"
)

func TestLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "reset", "asserted")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "reset: asserted\n")

	w.Reset()
	log.Log(logger.Allow, "cycle", "timeout")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "reset: asserted\ncycle: timeout\n")

	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "reset: asserted\ncycle: timeout\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "cycle: timeout\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeat(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "cycle", "refresh")
	log.Log(logger.Allow, "cycle", "refresh")
	log.Log(logger.Allow, "cycle", "refresh")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "cycle: refresh (repeat x3)\n")
}

func TestBounded(t *testing.T) {
	log := logger.NewLogger(2)
	w := &strings.Builder{}

	log.Logf(logger.Allow, "a", "%d", 1)
	log.Logf(logger.Allow, "a", "%d", 2)
	log.Logf(logger.Allow, "a", "%d", 3)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "a: 2\na: 3\n")
}

func TestPermission(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Conditional(false), "tag", "detail")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Conditional(true), "tag", "detail")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: detail\n")
}

func TestErrorDetail(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", errors.New("test error"))
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: test error\n")
}

func TestEcho(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.SetEcho(w, false)
	log.Log(logger.Allow, "tag", "detail")
	test.ExpectEquality(t, w.String(), "tag: detail\n")

	log.SetEcho(nil, false)
	log.Log(logger.Allow, "tag", "another")
	test.ExpectEquality(t, w.String(), "tag: detail\n")
}
