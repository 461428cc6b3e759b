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

// Package session owns the state machine described in spec.md §4.6:
// Uninitialized -> Buffering -> (flush) -> Uninitialized, with Failed
// as a terminal state reached on any parse or append error.
//
// A *Session must not be shared across goroutines without external
// synchronization: the core assumes single-threaded use, exactly as
// spec.md §5 requires of a process-wide session. Unlike the
// process-wide singleton spec.md §4.6 describes, this package exposes
// an explicit handle per spec.md §9's "process-wide singleton ->
// threaded session handle" design note; a thin default-session
// wrapper lives in the root package for callers who want the
// original process-wide shape.
package session

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/cprintfgo/cprintf/align"
	"github.com/cprintfgo/cprintf/atomgraph"
	"github.com/cprintfgo/cprintf/capture"
	"github.com/cprintfgo/cprintf/emit"
	"github.com/cprintfgo/cprintf/specparse"
)

// State is the session lifecycle state.
type State int

const (
	Uninitialized State = iota
	Buffering
	Failed
)

// Config bounds the session's behavior. See the root package's
// Config for the YAML-loadable form; this is the subset session
// itself consumes.
type Config struct {
	// BufferCeiling is the maximum byte length of any single
	// conversion's rendered text (spec.md §7's Truncation error).
	// Zero selects capture.DefaultCeiling.
	BufferCeiling int
}

// Session is one buffered aligner session: a graph, a bound sink,
// and the bookkeeping spec.md §3's "Session state" names.
type Session struct {
	id     uuid.UUID
	logger *log.Logger
	cfg    Config

	state State
	graph *atomgraph.Graph
	sink  io.Writer

	pendingNewRow bool
	lastSinkErr   error

	trace           io.WriteCloser
	lastContentHash [blake2b.Size256]byte
}

// New returns an uninitialized session. logger receives non-fatal
// diagnostics (spec.md §7); if nil, diagnostics go to log.Default().
func New(cfg Config, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		id:            uuid.New(),
		logger:        logger,
		cfg:           cfg,
		state:         Uninitialized,
		graph:         atomgraph.New(),
		pendingNewRow: true,
	}
}

// ID is this session's identifier, assigned once at construction and
// included in diagnostic output, mirroring how the teacher tags
// every query with a uuid (cmd/snellerd/handler_execute_query.go).
func (s *Session) ID() uuid.UUID { return s.id }

// State reports the current lifecycle state.
func (s *Session) State() State { return s.state }

func (s *Session) ceiling() int {
	if s.cfg.BufferCeiling > 0 {
		return s.cfg.BufferCeiling
	}
	return capture.DefaultCeiling
}

// bind establishes or validates the session's sink, per spec.md
// §4.6: the first call binds sink; subsequent calls must match.
func (s *Session) bind(sink io.Writer) error {
	if s.state == Failed {
		return fmt.Errorf("session %s: cannot reuse a failed session", s.id)
	}
	if s.state == Uninitialized {
		s.sink = sink
		s.state = Buffering
		s.logger.Printf("cprintf: session %s initialized", s.id)
		return nil
	}
	if s.sink != sink {
		err := &SinkMismatchError{Session: s.id}
		s.fail(err)
		return err
	}
	return nil
}

// SinkMismatchError is returned when a call targets a sink other
// than the one bound at session start.
type SinkMismatchError struct {
	Session uuid.UUID
}

func (e *SinkMismatchError) Error() string {
	return fmt.Sprintf("session %s: sink does not match the sink bound at session start", e.Session)
}

func (s *Session) fail(err error) {
	s.state = Failed
	s.logger.Printf("cprintf: session %s failed: %v", s.id, err)
	s.graph.Reset()
}

// EmitV appends format+args to sink. args is copied before
// consumption (spec.md §6).
func (s *Session) EmitV(sink io.Writer, format string, args []any) error {
	if err := s.bind(sink); err != nil {
		return err
	}
	packed := make([]any, len(args))
	copy(packed, args)

	toks, err := specparse.Parse(format)
	if err != nil {
		s.fail(err)
		return err
	}
	for _, tok := range toks {
		if err := s.appendToken(tok, &packed); err != nil {
			s.fail(err)
			return err
		}
	}
	return nil
}

func (s *Session) appendToken(tok specparse.Token, args *[]any) error {
	if tok.Kind == specparse.Literal {
		return s.appendLiteral(tok.Text)
	}

	tag, err := capture.TagFor(tok.LengthMod, tok.Specifier)
	if err != nil {
		return err
	}
	val, rest, err := capture.Next(tag, tok.LengthMod, tok.Specifier, *args)
	if err != nil {
		return err
	}
	*args = rest

	a := atomgraph.Atom{
		Kind:      atomgraph.Conversion,
		Flags:     tok.Flags,
		Width:     tok.Width,
		Precision: tok.Precision,
		LengthMod: tok.LengthMod,
		Specifier: tok.Specifier,
		RawSpec:   tok.Raw,
		Value:     val,
	}
	if tag != capture.TagWriteback {
		errStr := ""
		if tok.Specifier == 'm' {
			errStr = s.sinkErrText()
		}
		rendered, err := capture.Render(tok.Flags, tok.Width, tok.Precision, tok.LengthMod, tok.Specifier, val, errStr, s.ceiling())
		if err != nil {
			return err
		}
		a.OriginalWidth = len(rendered)
	}
	s.graph.Append(a, s.pendingNewRow)
	s.pendingNewRow = false
	return nil
}

// appendLiteral splits text on '\n', treating every newline as a
// structural row boundary (spec.md §9's resolved open question):
// text before the '\n' becomes a literal atom of the current row
// (even if empty, so that a row with no other content still has a
// column-0 placeholder for "\n\n"-style input), then the row is
// marked as newline-terminated and the next atom starts a new row.
func (s *Session) appendLiteral(text string) error {
	for {
		idx := indexByte(text, '\n')
		if idx < 0 {
			if text != "" {
				s.graph.Append(atomgraph.Atom{Kind: atomgraph.Literal, Text: text}, s.pendingNewRow)
				s.pendingNewRow = false
			}
			return nil
		}
		before := text[:idx]
		if before != "" || s.pendingNewRow {
			s.graph.Append(atomgraph.Atom{Kind: atomgraph.Literal, Text: before}, s.pendingNewRow)
			s.pendingNewRow = false
		}
		s.graph.MarkNewline()
		s.pendingNewRow = true
		text = text[idx+1:]
	}
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func (s *Session) sinkErrText() string {
	if s.lastSinkErr == nil {
		return ""
	}
	return s.lastSinkErr.Error()
}

// Flush runs the alignment engine and the emitter, writes the result
// to the bound sink, and releases all session state (spec.md §4.6).
// A flush with no intervening append is a no-op (spec.md §8's
// idempotent-teardown property).
func (s *Session) Flush() error {
	if s.state != Buffering {
		if s.state == Failed {
			return fmt.Errorf("session %s: cannot flush a failed session", s.id)
		}
		return nil
	}
	if s.graph.Empty() {
		s.logger.Printf("cprintf: session %s: flush on empty graph", s.id)
		s.teardown()
		return nil
	}

	align.Run(s.graph)
	digest, _ := blake2b.New256(nil) // nil key: unkeyed hash, error is only for bad key length
	err := emit.Run(s.graph, io.MultiWriter(s.sink, digest), s.ceiling(), s.sinkErrText)
	copy(s.lastContentHash[:], digest.Sum(nil))
	if err != nil {
		s.lastSinkErr = err
	}
	s.teardown()
	return err
}

func (s *Session) teardown() {
	s.graph.Reset()
	s.sink = nil
	s.state = Uninitialized
	s.pendingNewRow = true
	s.logger.Printf("cprintf: session %s flushed", s.id)
}

// Dump writes a human-readable rendering of the current atom graph
// to w, for debugging. Its form is not part of this package's
// contract (spec.md §6: "not a contract the test suite must check").
func (s *Session) Dump(w io.Writer) {
	dump(s, w)
}

// SetTraceFile additionally appends every Dump() snapshot, gzip
// compressed, to f. Passing nil disables tracing. The caller owns f
// and is responsible for closing it.
func (s *Session) SetTraceFile(f io.WriteCloser) {
	s.trace = f
}

// DefaultSink is the default output sink for the root package's
// process-wide convenience wrapper (spec.md §6: emit() "append[s] to
// default sink (standard output)").
var DefaultSink io.Writer = os.Stdout
