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

// Package atomgraph implements the buffered doubly-linked 2D atom
// graph: a rectangular grid of literal and conversion atoms with
// both row-wise (left/right) and column-wise (up/down) links, bounded
// above and below every column by dummy sentinels.
//
// Atoms are allocated in a single arena per Graph; the four links
// are int32 indices into that arena rather than pointers, so teardown
// is a single slice reset (spec.md §9, "Bidirectional 2D links →
// arena + indices").
package atomgraph

import "github.com/cprintfgo/cprintf/capture"

const none int32 = -1

// Kind distinguishes the atom variants.
type Kind uint8

const (
	Dummy Kind = iota
	Literal
	Conversion
)

// Atom is the unit placed in the graph.
type Atom struct {
	Kind Kind

	// Literal payload.
	Text string

	// Conversion payload: the five decomposed fields, the original
	// full spec string, and the captured typed value.
	Flags         string
	Width         string
	Precision     string
	LengthMod     string
	Specifier     byte
	RawSpec       string
	OriginalWidth int
	NewWidth      int
	NewSpec       string
	Value         capture.Value

	col                 int32
	left, right, up, down int32
}

// IsWriteback reports whether a is the '%n' writeback conversion.
func (a *Atom) IsWriteback() bool {
	return a.Kind == Conversion && a.Value.Tag == capture.TagWriteback
}

type column struct {
	top, bot int32
	maxWidth int
}

// Graph is one session's atom grid.
type Graph struct {
	atoms   []Atom
	columns []column

	origin                             int32
	topLeft, topRight, botLeft, botRight int32
	lastAtom                            int32

	rowStarts []int32
	rowNewline []bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{origin: none, topLeft: none, topRight: none, botLeft: none, botRight: none, lastAtom: none}
}

// Empty reports whether any non-dummy atom has been appended.
func (g *Graph) Empty() bool {
	return g.origin == none
}

// Reset releases all atoms, returning the graph to its initial
// empty state. This is the arena-reset teardown spec.md §9 calls for.
func (g *Graph) Reset() {
	*g = *New()
}

func (g *Graph) newAtom(a Atom) int32 {
	idx := int32(len(g.atoms))
	g.atoms = append(g.atoms, a)
	return idx
}

// ensureColumn grows the graph to have at least colIdx+1 columns,
// extending the right border with a fresh dummy-bounded column for
// each one created. Columns only ever grow at the right edge.
func (g *Graph) ensureColumn(colIdx int32) {
	for int32(len(g.columns)) <= colIdx {
		top := g.newAtom(Atom{Kind: Dummy, col: int32(len(g.columns))})
		bot := g.newAtom(Atom{Kind: Dummy, col: int32(len(g.columns))})
		g.atoms[top].down = bot
		g.atoms[bot].up = top
		g.atoms[top].up, g.atoms[bot].down = none, none
		g.atoms[top].left, g.atoms[top].right = none, none
		g.atoms[bot].left, g.atoms[bot].right = none, none

		if len(g.columns) > 0 {
			prevTop, prevBot := g.topRight, g.botRight
			g.atoms[prevTop].right = top
			g.atoms[top].left = prevTop
			g.atoms[prevBot].right = bot
			g.atoms[bot].left = prevBot
		} else {
			g.topLeft, g.botLeft = top, bot
		}
		g.topRight, g.botRight = top, bot
		g.columns = append(g.columns, column{top: top, bot: bot})
	}
}

// insertAtColumnTail splices a new non-dummy atom into colIdx
// immediately above that column's bottom dummy, preserving I1-I3.
func (g *Graph) insertAtColumnTail(colIdx int32, a Atom) int32 {
	g.ensureColumn(colIdx)
	col := &g.columns[colIdx]
	bot := col.bot
	prevTail := g.atoms[bot].up
	a.col = colIdx
	a.left, a.right = none, none
	idx := g.newAtom(a)
	g.atoms[idx].up = prevTail
	g.atoms[prevTail].down = idx
	g.atoms[idx].down = bot
	g.atoms[bot].up = idx
	return idx
}

// Append places a into the graph. newRow selects among the three
// cases of spec.md §4.3: the very first append always starts the
// graph regardless of newRow; thereafter newRow==true starts a new
// row in column 0, and newRow==false continues the current row one
// column to the right of the last appended atom.
func (g *Graph) Append(a Atom, newRow bool) int32 {
	if g.Empty() {
		idx := g.insertAtColumnTail(0, a)
		g.origin = idx
		g.lastAtom = idx
		g.rowStarts = append(g.rowStarts, idx)
		g.rowNewline = append(g.rowNewline, false)
		return idx
	}
	if newRow {
		idx := g.insertAtColumnTail(0, a)
		g.lastAtom = idx
		g.rowStarts = append(g.rowStarts, idx)
		g.rowNewline = append(g.rowNewline, false)
		return idx
	}
	L := g.lastAtom
	colIdx := g.atoms[L].col + 1
	idx := g.insertAtColumnTail(colIdx, a)
	g.atoms[L].right = idx
	g.atoms[idx].left = L
	g.lastAtom = idx
	return idx
}

// MarkNewline records that the row currently being built ends with a
// trailing newline (spec.md §4.3/§4.5's row-boundary-is-structural
// rule): the emitter writes '\n' after this row, and the next
// Append must be called with newRow=true.
func (g *Graph) MarkNewline() {
	if len(g.rowNewline) == 0 {
		return
	}
	g.rowNewline[len(g.rowNewline)-1] = true
}

// At returns a pointer to the atom at idx, or nil for none.
func (g *Graph) At(idx int32) *Atom {
	if idx == none {
		return nil
	}
	return &g.atoms[idx]
}

// None is the sentinel index meaning "no link".
const None = none

// Origin is the first non-dummy atom appended, or None if empty.
func (g *Graph) Origin() int32 { return g.origin }

// Columns returns the number of columns currently in the grid.
func (g *Graph) Columns() int { return len(g.columns) }

// ColumnTop returns the top dummy of column i.
func (g *Graph) ColumnTop(i int) int32 { return g.columns[i].top }

// ColumnMaxWidth returns the column's assigned max width.
func (g *Graph) ColumnMaxWidth(i int) int { return g.columns[i].maxWidth }

// SetColumnMaxWidth assigns the column's max width (alignment
// engine, pass 1).
func (g *Graph) SetColumnMaxWidth(i, w int) { g.columns[i].maxWidth = w }

// Down follows the vertical link from idx, or None past the bottom
// dummy.
func (g *Graph) Down(idx int32) int32 {
	d := g.atoms[idx].down
	if d != none && g.atoms[d].Kind == Dummy {
		return none
	}
	return d
}

// Right follows the horizontal link from idx, or None at row end.
func (g *Graph) Right(idx int32) int32 { return g.atoms[idx].right }

// RowEndsWithNewline reports whether the row starting at rowStart
// had a trailing '\n' in its source format text.
func (g *Graph) RowEndsWithNewline(rowStart int32) bool {
	for i, s := range g.rowStarts {
		if s == rowStart {
			return g.rowNewline[i]
		}
	}
	return false
}

// NextRowStart returns the first atom of the row following the one
// starting at rowStart, or None if rowStart is the last row.
func (g *Graph) NextRowStart(rowStart int32) int32 {
	d := g.atoms[rowStart].down
	if d == none || g.atoms[d].Kind == Dummy {
		return none
	}
	return d
}
