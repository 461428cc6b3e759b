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
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/cprintfgo/cprintf/atomgraph"
)

// dump writes a human-readable rendering of s's graph to w, wrapped
// to the controlling terminal's width when w is a terminal (falling
// back to 80 columns otherwise), and appends a gzip-compressed copy
// to s's trace file when one is configured.
func dump(s *Session, w io.Writer) {
	width := termwidth(w)
	var b strings.Builder
	fmt.Fprintf(&b, "session %s (%d columns) fingerprint=%016x content_hash=%x\n", s.id, s.graph.Columns(), s.Fingerprint(), s.lastContentHash)

	row := s.graph.Origin()
	rowNum := 0
	for row != atomgraph.None {
		line := fmt.Sprintf("row %d: ", rowNum)
		for atom := row; atom != atomgraph.None; atom = s.graph.Right(atom) {
			a := s.graph.At(atom)
			switch a.Kind {
			case atomgraph.Literal:
				line += fmt.Sprintf("[lit %q]", a.Text)
			case atomgraph.Conversion:
				if a.IsWriteback() {
					line += fmt.Sprintf("[%%n]")
				} else {
					line += fmt.Sprintf("[%s w=%d->%d]", a.RawSpec, a.OriginalWidth, a.NewWidth)
				}
			}
		}
		if s.graph.RowEndsWithNewline(row) {
			line += " \\n"
		}
		wrapLine(&b, line, width)
		row = s.graph.NextRowStart(row)
		rowNum++
	}

	writeHistogram(&b, s.graph)

	io.WriteString(w, b.String())
	if s.trace != nil {
		writeTrace(s.trace, b.String())
	}
}

// writeHistogram appends a deterministically ordered count of how
// many times each raw conversion spec occurs in the graph, following
// the same maps+slices idiom ion/symtab.go uses to get a stable
// iteration order out of a map.
func writeHistogram(b *strings.Builder, g *atomgraph.Graph) {
	counts := map[string]int{}
	for row := g.Origin(); row != atomgraph.None; row = g.NextRowStart(row) {
		for atom := row; atom != atomgraph.None; atom = g.Right(atom) {
			a := g.At(atom)
			if a.Kind == atomgraph.Conversion {
				counts[a.RawSpec]++
			}
		}
	}
	if len(counts) == 0 {
		return
	}
	specs := maps.Keys(counts)
	slices.Sort(specs)
	b.WriteString("spec histogram:")
	for _, sp := range specs {
		fmt.Fprintf(b, " %s=%d", sp, counts[sp])
	}
	b.WriteByte('\n')
}

// wrapLine emits line to b, breaking each piece after the last ']'
// that fits within width so that "[...]" atom renderings stay whole.
// A piece with no such ']' is cut at exactly width bytes, which
// splits an atom rendering wider than width.
func wrapLine(b *strings.Builder, line string, width int) {
	if width <= 0 || len(line) <= width {
		b.WriteString(line)
		b.WriteByte('\n')
		return
	}
	for len(line) > width {
		cut := strings.LastIndexByte(line[:width], ']')
		if cut <= 0 {
			cut = width
		} else {
			cut++
		}
		b.WriteString(line[:cut])
		b.WriteByte('\n')
		line = line[cut:]
	}
	b.WriteString(line)
	b.WriteByte('\n')
}
