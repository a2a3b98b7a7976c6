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

// Package statsview serves runtime statistics of the picoboot process over
// HTTP. It is useful when looking for the cause of missed bus cycles, which
// are often the garbage collector or the scheduler getting in the way of the
// cycle driver.
//
// The package is only built with the statsview build tag. Without the tag
// Available() returns false and Launch() does nothing.
//
// The statistics are served by github.com/go-echarts/statsview at
//
//	localhost:12680/debug/statsview
package statsview
