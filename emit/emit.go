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

// Package emit performs the row-major walk that turns an aligned
// atom graph into output bytes: literals are copied verbatim,
// conversions are rendered through the format oracle using their
// regenerated spec, and writeback conversions resolve to the sum of
// widths to their left instead of producing output.
package emit

import (
	"io"
	"strconv"

	"github.com/cprintfgo/cprintf/atomgraph"
	"github.com/cprintfgo/cprintf/capture"
)

// ErrText supplies the text rendered by a '%m' conversion.
type ErrText func() string

// Run walks g in row-major order, writing to w. ceiling bounds the
// rendering buffer (spec.md §7's truncation error); errText backs
// '%m' conversions.
func Run(g *atomgraph.Graph, w io.Writer, ceiling int, errText ErrText) error {
	row := g.Origin()
	for row != atomgraph.None {
		width := 0 // sum of widths emitted so far on this row, for writeback resolution
		atom := row
		for atom != atomgraph.None {
			a := g.At(atom)
			switch a.Kind {
			case atomgraph.Literal:
				if _, err := io.WriteString(w, a.Text); err != nil {
					return &SinkError{Err: err}
				}
				width += len(a.Text)
			case atomgraph.Conversion:
				if a.IsWriteback() {
					*a.Value.Writeback = width
				} else {
					var errStr string
					if a.Specifier == 'm' && errText != nil {
						errStr = errText()
					}
					out, err := capture.Render(a.Flags, strconv.Itoa(a.NewWidth), a.Precision, a.LengthMod, a.Specifier, a.Value, errStr, ceiling)
					if err != nil {
						return err
					}
					if _, err := io.WriteString(w, out); err != nil {
						return &SinkError{Err: err}
					}
					// spec.md §8: writeback sums *column max width*,
					// not the literal rendered length, for
					// non-writeback conversions to its left.
					width += a.NewWidth
				}
			}
			atom = g.Right(atom)
		}
		if g.RowEndsWithNewline(row) {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return &SinkError{Err: err}
			}
		}
		row = g.NextRowStart(row)
	}
	return nil
}

// SinkError wraps a write failure against the caller-supplied sink.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string { return "emit: sink write failed: " + e.Err.Error() }
func (e *SinkError) Unwrap() error { return e.Err }
