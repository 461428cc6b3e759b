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

// Package align implements the two-pass, column-major alignment
// engine: compute each column's maximum conversion width, then
// regenerate every conversion's spec string with that width
// substituted in.
package align

import (
	"github.com/cprintfgo/cprintf/atomgraph"
	"github.com/cprintfgo/cprintf/specparse"
)

// Run sweeps every column of g, computing max_width (ignoring
// writeback atoms, which always contribute 0 per spec.md §9's
// standardized writeback behavior) and regenerating every
// conversion's NewSpec with that width substituted for its original
// width digits. Literal atoms are untouched.
func Run(g *atomgraph.Graph) {
	for i := 0; i < g.Columns(); i++ {
		w := 0
		for idx := g.Down(g.ColumnTop(i)); idx != atomgraph.None; idx = g.Down(idx) {
			a := g.At(idx)
			if a.Kind == atomgraph.Conversion && !a.IsWriteback() {
				if a.OriginalWidth > w {
					w = a.OriginalWidth
				}
			}
		}
		g.SetColumnMaxWidth(i, w)

		for idx := g.Down(g.ColumnTop(i)); idx != atomgraph.None; idx = g.Down(idx) {
			a := g.At(idx)
			if a.Kind != atomgraph.Conversion {
				continue
			}
			a.NewWidth = w
			a.NewSpec = specparse.Rebuild(a.Flags, a.NewWidth, a.Precision, a.LengthMod, a.Specifier)
		}
	}
}
