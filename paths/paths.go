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

// Package paths prepares paths to picoboot resources, currently only the
// preferences file.
//
// If a directory named ".picoboot" exists in the current directory then that
// is the base path. Otherwise the base path is the "picoboot" directory in the
// user's config directory, as reported by os.UserConfigDir(). On a Linux
// system:
//
//	/home/user/.config/picoboot/preferences
//
// The base directory is created if it does not exist. The resource itself is
// never created.
package paths

import (
	"os"
	"path/filepath"
)

const localBase = ".picoboot"
const configBase = "picoboot"

// ResourcePath returns the resource string prepended with the base path.
// Empty resource parts are ignored.
func ResourcePath(resource ...string) (string, error) {
	base, err := basePath()
	if err != nil {
		return "", err
	}

	p := make([]string, 0, len(resource)+1)
	p = append(p, base)
	for _, r := range resource {
		if r != "" {
			p = append(p, r)
		}
	}

	return filepath.Join(p...), nil
}

func basePath() (string, error) {
	if fi, err := os.Stat(localBase); err == nil && fi.IsDir() {
		return localBase, nil
	}

	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	pth := filepath.Join(cfg, configBase)
	if err := os.MkdirAll(pth, 0o700); err != nil {
		return "", err
	}

	return pth, nil
}
