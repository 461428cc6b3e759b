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

package cprintf

import (
	"io"

	"github.com/cprintfgo/cprintf/session"
)

var defaultSession = session.New(session.Config{}, nil)

// Emit appends a line to the process-wide default session, to be
// written to standard output at the next Flush.
func Emit(format string, args ...any) error {
	return defaultSession.EmitV(session.DefaultSink, format, args)
}

// EmitTo appends a line to the default session, directed at sink.
// A session binds its sink on the first call of the session; a
// later call naming a different sink is a hard error.
func EmitTo(sink io.Writer, format string, args ...any) error {
	return defaultSession.EmitV(sink, format, args)
}

// EmitV is Emit with a pre-built argument pack. The pack is copied
// before consumption.
func EmitV(format string, args []any) error {
	return defaultSession.EmitV(session.DefaultSink, format, args)
}

// EmitToV is EmitTo with a pre-built argument pack.
func EmitToV(sink io.Writer, format string, args []any) error {
	return defaultSession.EmitV(sink, format, args)
}

// Flush runs the alignment engine and the emitter over the default
// session's buffered atoms, writes the aligned output, and resets
// the session so the next Emit begins a new buffering cycle.
func Flush() error {
	return defaultSession.Flush()
}

// Dump writes a human-readable rendering of the default session's
// current atom graph to w, for debugging.
func Dump(w io.Writer) {
	defaultSession.Dump(w)
}

// Default returns the process-wide default session, for callers
// that want direct access (e.g. to call EnableExitFlush or
// SetTraceFile) without constructing their own session.Session.
func Default() *session.Session {
	return defaultSession
}

// New returns a fresh, independent session, for callers who want an
// explicit handle instead of the process-wide default (spec.md §9's
// "process-wide singleton -> threaded session handle" note). If
// cfg.ExitFlush is set, the session is also registered with
// session.EnableExitFlush.
func New(cfg Config) *session.Session {
	s := session.New(cfg.toSessionConfig(), nil)
	if cfg.ExitFlush {
		session.EnableExitFlush(s)
	}
	return s
}
