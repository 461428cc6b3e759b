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
	"bytes"
	"fmt"
	"testing"
)

func TestEmitVFlushBasic(t *testing.T) {
	s := New(Config{}, nil)
	var buf bytes.Buffer
	if err := s.EmitV(&buf, "%-s, %s!\n", []any{"Hello", "world"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "Hello, world!\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
	if s.State() != Uninitialized {
		t.Fatalf("got state %v after flush, want Uninitialized", s.State())
	}
}

func TestThreeRowsAlignToWidestColumn(t *testing.T) {
	s := New(Config{}, nil)
	var buf bytes.Buffer
	rows := [][]any{{1, 2, 3}, {10, 20, 30}, {100, 200, 300}}
	for _, r := range rows {
		if err := s.EmitV(&buf, "%d %d %d\n", r); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "  1   2   3\n 10  20  30\n100 200 300\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestSinkMismatchIsFatal(t *testing.T) {
	s := New(Config{}, nil)
	var a, b bytes.Buffer
	if err := s.EmitV(&a, "x", nil); err != nil {
		t.Fatal(err)
	}
	err := s.EmitV(&b, "y", nil)
	if err == nil {
		t.Fatal("expected sink mismatch error")
	}
	if _, ok := err.(*SinkMismatchError); !ok {
		t.Fatalf("got %T", err)
	}
	if s.State() != Failed {
		t.Fatalf("got state %v, want Failed", s.State())
	}
}

func TestFlushOnEmptyGraphIsNoop(t *testing.T) {
	s := New(Config{}, nil)
	var buf bytes.Buffer
	s.sink = &buf // never initialized via EmitV
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestSecondFlushIsIdempotentNoop(t *testing.T) {
	s := New(Config{}, nil)
	var buf bytes.Buffer
	if err := s.EmitV(&buf, "Row %d\n", []any{7}); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	first := buf.String()
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != first {
		t.Fatalf("second flush produced output: got %q after %q", buf.String(), first)
	}
}

func TestNewSessionAfterFlushAcceptsDifferentSink(t *testing.T) {
	s := New(Config{}, nil)
	var a, b bytes.Buffer
	if err := s.EmitV(&a, "Row %d\n", []any{7}); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := s.EmitV(&b, "X", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if a.String() != "Row 7\n" || b.String() != "X" {
		t.Fatalf("got a=%q b=%q", a.String(), b.String())
	}
}

func TestInteriorDoubleNewlineProducesEmptyRow(t *testing.T) {
	s := New(Config{}, nil)
	var buf bytes.Buffer
	if err := s.EmitV(&buf, "\n\n", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\n\n" {
		t.Fatalf("got %q", buf.String())
	}
}

// TestPercentLiteralConsumesNoArgument guards against '%%' eating the
// argument meant for a later conversion on the same row.
func TestPercentLiteralConsumesNoArgument(t *testing.T) {
	s := New(Config{}, nil)
	var buf bytes.Buffer
	if err := s.EmitV(&buf, "%% %d\n", []any{5}); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "% 5\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

// TestPercentMRendersLastSinkErrorAndConsumesNoArgument drives '%m'
// through a real sink failure end to end: the failed flush records
// the sink error, and the following flush's '%m' renders that text
// without requiring a corresponding argument.
type failOnceWriter struct {
	bytes.Buffer
	failed bool
}

func (w *failOnceWriter) Write(p []byte) (int, error) {
	if !w.failed {
		w.failed = true
		return 0, errBoom
	}
	return w.Buffer.Write(p)
}

var errBoom = fmt.Errorf("disk full")

func TestPercentMRendersLastSinkErrorAndConsumesNoArgument(t *testing.T) {
	s := New(Config{}, nil)

	failing := &failOnceWriter{}
	if err := s.EmitV(failing, "boom", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(); err == nil {
		t.Fatal("expected the first flush to surface the sink failure")
	}

	var ok bytes.Buffer
	if err := s.EmitV(&ok, "[%m]\n", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "[emit: sink write failed: disk full]\n"
	if ok.String() != want {
		t.Fatalf("got %q, want %q", ok.String(), want)
	}
}
