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

package pins

import (
	"strconv"
	"strings"

	"github.com/aki80/picoboot/curated"
)

// Parse a pin map from a list of assignments separated by commas. Each
// assignment is of the form ROLE=GPIO, with a '!' prefix on the GPIO number
// for active low signals. For example:
//
//	"MREQ=!14, RD=!18, M1=!11"
//
// The assignments are applied on top of the base map. A GPIO value of '-'
// removes the role from the map.
func Parse(base Map, s string) (Map, error) {
	m := make(Map, len(base))
	for r, p := range base {
		m[r] = p
	}

	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}

		kv := strings.SplitN(a, "=", 2)
		if len(kv) != 2 {
			return nil, curated.Errorf(MalformedAssignment, a)
		}

		r, err := ParseRole(kv[0])
		if err != nil {
			return nil, err
		}

		v := strings.TrimSpace(kv[1])
		if v == "-" {
			delete(m, r)
			continue
		}

		var p Pin
		if strings.HasPrefix(v, "!") {
			p.ActiveLow = true
			v = v[1:]
		}

		p.GPIO, err = strconv.Atoi(v)
		if err != nil {
			return nil, curated.Errorf(MalformedAssignment, a)
		}

		m[r] = p
	}

	return m, m.Validate()
}
