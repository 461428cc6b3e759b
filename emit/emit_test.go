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

package emit

import (
	"bytes"
	"testing"

	"github.com/cprintfgo/cprintf/align"
	"github.com/cprintfgo/cprintf/atomgraph"
	"github.com/cprintfgo/cprintf/capture"
)

func literal(text string) atomgraph.Atom {
	return atomgraph.Atom{Kind: atomgraph.Literal, Text: text}
}

func intConv(n int64) atomgraph.Atom {
	return atomgraph.Atom{
		Kind:          atomgraph.Conversion,
		Specifier:     'd',
		OriginalWidth: len(specOf(n)),
		Value:         capture.Value{Tag: capture.TagInt, I64: n},
	}
}

func specOf(n int64) string {
	s, _ := capture.Render("", "", "", "", 'd', capture.Value{Tag: capture.TagInt, I64: n}, "", 0)
	return s
}

func TestRunEmitsAlignedColumns(t *testing.T) {
	g := atomgraph.New()
	g.Append(intConv(1), true)
	g.Append(literal(" "), false)
	g.Append(intConv(2), false)
	g.MarkNewline()

	g.Append(intConv(100), true)
	g.Append(literal(" "), false)
	g.Append(intConv(200), false)
	g.MarkNewline()

	align.Run(g)
	var buf bytes.Buffer
	if err := Run(g, &buf, 0, nil); err != nil {
		t.Fatal(err)
	}
	want := "  1   2\n100 200\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestRunNoTrailingNewlineWhenUnmarked(t *testing.T) {
	g := atomgraph.New()
	g.Append(literal("X"), true)

	align.Run(g)
	var buf bytes.Buffer
	if err := Run(g, &buf, 0, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "X" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestRunResolvesWriteback(t *testing.T) {
	g := atomgraph.New()
	n := 0
	g.Append(intConv(42), true)
	g.Append(literal(" | "), false)
	g.Append(atomgraph.Atom{
		Kind:      atomgraph.Conversion,
		Specifier: 'n',
		Value:     capture.Value{Tag: capture.TagWriteback, Writeback: &n},
	}, false)
	g.MarkNewline()

	align.Run(g)
	var buf bytes.Buffer
	if err := Run(g, &buf, 0, nil); err != nil {
		t.Fatal(err)
	}
	want := n == len(specOf(42))+len(" | ")
	if !want {
		t.Fatalf("n = %d, want %d", n, len(specOf(42))+len(" | "))
	}
	if buf.String() != specOf(42)+" | \n" {
		t.Fatalf("got %q", buf.String())
	}
}
