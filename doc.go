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

// Package cprintf is a drop-in companion to a printf-style formatted
// output API that aligns successive output lines into columns. A
// caller emits one or more lines using C-style conversion
// specifications; at a flush point, every buffered conversion is
// re-rendered so that values in the same column share a common field
// width, without the caller hand-computing widths.
//
// Background:
//
// Ordinary printf output lines up only by accident: two successive
// lines with differently-sized values drift out of column as soon as
// one value renders wider than the one above it. This package
// defers rendering until flush time, so it can look at every value
// destined for a column before deciding how wide that column needs
// to be.
//
// The heavy lifting — splicing a format string's literal-text and
// conversion atoms into a doubly-linked 2D grid, sweeping that grid
// column by column to find each column's widest value, and
// rewriting every conversion's spec string with the assigned width —
// lives in the atomgraph, align and emit packages. This package is
// the thin process-wide entry point wired on top of them, plus an
// explicit *session.Session handle for callers who don't want a
// package-level singleton.
//
// A *session.Session (and, by extension, the package-level functions
// in this file, which share one default session) must not be used
// concurrently from multiple goroutines without external
// synchronization.
package cprintf
