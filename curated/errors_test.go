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

package curated_test

import (
	"errors"
	"testing"

	"github.com/aki80/picoboot/curated"
	"github.com/aki80/picoboot/test"
)

const testTimeout = "timeout: no edge after cycle %d"
const testWrapper = "loader: %v"

func TestDuplicateParts(t *testing.T) {
	e := curated.Errorf("cycle: %v", curated.Errorf("cycle: %v", "bad"))
	test.ExpectEquality(t, e.Error(), "cycle: bad")

	e = curated.Errorf("a: b: b: c")
	test.ExpectEquality(t, e.Error(), "a: b: c")
}

func TestIs(t *testing.T) {
	e := curated.Errorf(testTimeout, 10)
	test.ExpectEquality(t, e.Error(), "timeout: no edge after cycle 10")
	test.ExpectSuccess(t, curated.Is(e, testTimeout))
	test.ExpectSuccess(t, curated.IsAny(e))

	f := curated.Errorf(testWrapper, e)
	test.ExpectFailure(t, curated.Is(f, testTimeout))
	test.ExpectSuccess(t, curated.Has(f, testTimeout))
	test.ExpectSuccess(t, curated.Is(f, testWrapper))

	test.ExpectFailure(t, curated.IsAny(errors.New("plain")))
	test.ExpectFailure(t, curated.Has(nil, testTimeout))
}

func TestUnwrap(t *testing.T) {
	plain := errors.New("plain")
	e := curated.Errorf(testWrapper, plain)
	test.ExpectSuccess(t, errors.Is(e, plain))
}
