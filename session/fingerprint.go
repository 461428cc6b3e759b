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
	"strconv"

	"github.com/dchest/siphash"
	"golang.org/x/crypto/blake2b"

	"github.com/cprintfgo/cprintf/atomgraph"
)

// fingerprintKey is fixed rather than random: two runs over the same
// program should produce the same fingerprint for the same shape of
// output, so that repeated runs can be correlated across log lines
// (spec.md §1B's diagnostic-correlation rationale). This mirrors how
// vm/interphash.go keys its probe hash with a process-wide constant
// rather than a random seed.
const fingerprintKey0, fingerprintKey1 = 0x636f6c7370656320, 0x61746f6d67726170

// Fingerprint hashes the shape of the graph (the column count, then
// each row's literal text and original conversion spec strings, with
// a separator per row) into a stable 64-bit id, using the same siphash primitive the teacher uses for its
// hash-table probing (vm/siphash_generic.go).
func (s *Session) Fingerprint() uint64 {
	var buf []byte
	buf = strconv.AppendInt(buf, int64(s.graph.Columns()), 10)
	for row := s.graph.Origin(); row != atomgraph.None; row = s.graph.NextRowStart(row) {
		buf = append(buf, '|')
		for atom := row; atom != atomgraph.None; atom = s.graph.Right(atom) {
			a := s.graph.At(atom)
			if a.Kind == atomgraph.Literal {
				buf = append(buf, a.Text...)
			} else {
				buf = append(buf, a.RawSpec...)
			}
		}
	}
	return siphash.Hash(fingerprintKey0, fingerprintKey1, buf)
}

// ContentHash returns the blake2b-256 digest of the bytes most
// recently written to the sink by Flush, or the zero digest if the
// session has never flushed. Unlike Fingerprint, which hashes the
// pre-emit graph shape (spec strings, not rendered bytes), this is a
// content-addressable digest of the actual output, the same primitive
// the teacher uses to address ion blocks by content
// (ion/blockfmt/index.go, ion/blockfmt/fs.go).
func (s *Session) ContentHash() [blake2b.Size256]byte {
	return s.lastContentHash
}
