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

package session

import (
	"io"
	"log"

	"github.com/klauspost/compress/gzip"
)

// writeTrace appends one gzip member containing snapshot to trace.
// A fresh member per call keeps each Dump() independently decodable
// without buffering the whole trace file, the same shape
// ion/zion/compress.go uses for its per-block compressed frames.
func writeTrace(trace io.WriteCloser, snapshot string) {
	gw := gzip.NewWriter(trace)
	if _, err := gw.Write([]byte(snapshot)); err != nil {
		log.Printf("cprintf: trace write failed: %v", err)
		return
	}
	if err := gw.Close(); err != nil {
		log.Printf("cprintf: trace flush failed: %v", err)
	}
}
