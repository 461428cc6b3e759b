// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

//go:build windows

package session

import (
	"io"
	"os"

	"golang.org/x/sys/windows"
)

const defaultTermWidth = 80

// termwidth mirrors the unix implementation using
// GetConsoleScreenBufferInfo, the same windows-specific route
// vm/malloc_windows.go uses for VirtualAlloc instead of a portable
// wrapper.
func termwidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultTermWidth
	}
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(f.Fd()), &info); err != nil {
		return defaultTermWidth
	}
	width := int(info.Window.Right - info.Window.Left + 1)
	if width <= 0 {
		return defaultTermWidth
	}
	return width
}
