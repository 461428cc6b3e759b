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

package capture

import "testing"

func render(t *testing.T, flags, width, precision, lengthMod string, specifier byte, v Value) string {
	t.Helper()
	s, err := Render(flags, width, precision, lengthMod, specifier, v, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRenderString(t *testing.T) {
	got := render(t, "-", "", "", "", 's', Value{Str: "Hello"})
	if got != "Hello" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderIntZeroPadded(t *testing.T) {
	got := render(t, "0", "5", "", "", 'd', Value{I64: 42})
	if got != "00042" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderIntLeftJustified(t *testing.T) {
	got := render(t, "-", "5", "", "", 'd', Value{I64: 42})
	if got != "42   " {
		t.Fatalf("got %q", got)
	}
}

func TestRenderFloatPrecision(t *testing.T) {
	got := render(t, "0", "7", ".4", "", 'f', Value{F64: 1.2})
	if got != "01.2000" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderHexAlt(t *testing.T) {
	got := render(t, "#", "", "", "", 'x', Value{U64: 255})
	if got != "0xff" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderPointer(t *testing.T) {
	got := render(t, "", "", "", "", 'p', Value{Ptr: 0xdeadbeef})
	if got != "0xdeadbeef" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderTruncation(t *testing.T) {
	_, err := Render("", "", "", "", 's', Value{Str: string(make([]byte, 10))}, "", 4)
	if err == nil {
		t.Fatal("expected truncation error")
	}
	if _, ok := err.(*TruncationError); !ok {
		t.Fatalf("got %T", err)
	}
}

func TestRenderPercentAndM(t *testing.T) {
	if got := render(t, "", "", "", "", '%', Value{}); got != "%" {
		t.Fatalf("got %q", got)
	}
	got, err := Render("", "", "", "", 'm', Value{}, "boom", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != "boom" {
		t.Fatalf("got %q", got)
	}
}
