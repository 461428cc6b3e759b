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

// Package specparse splits a printf-style format string into an
// ordered sequence of literal runs and conversion specifications.
package specparse

import (
	"fmt"
)

// Kind distinguishes the two token variants a format string
// decomposes into.
type Kind int

const (
	Literal Kind = iota
	Conv
)

// Token is one element of a parsed format string: either a run of
// ordinary text or a decomposed conversion specification.
type Token struct {
	Kind Kind

	// Literal payload.
	Text string

	// Conversion payload. Each field is the exact substring parsed,
	// including the empty string when the field is absent. Width
	// never includes the leading '.'; Precision always does when
	// present.
	Flags     string
	Width     string
	Precision string
	LengthMod string
	Specifier byte
	Raw       string // full "%..." text, as written
}

const (
	flagSet   = "#0- +'I"
	lenModSet = "hlLqjzt"
	specSet   = "diouxXeEfFgGaAcCsSpnm%"
)

// Error is returned for a malformed conversion specification.
type Error struct {
	Format string // the whole format string being parsed
	Pos    int    // byte offset of the offending '%'
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("specparse: %q at byte %d: %s", e.Format, e.Pos, e.Msg)
}

// Parse decomposes format into an ordered token sequence. An
// asterisk in the width or precision position, or the absence of a
// valid specifier, is a hard parse error (non-goals of indirect
// width/precision).
func Parse(format string) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(format) {
		start := i
		for i < len(format) && format[i] != '%' {
			i++
		}
		if i > start {
			toks = append(toks, Token{Kind: Literal, Text: format[start:i]})
		}
		if i >= len(format) {
			break
		}

		// format[i] == '%'
		convStart := i
		i++ // consume '%'
		if i < len(format) && format[i] == '*' {
			return nil, &Error{format, convStart, "indirect width/precision ('*') is not supported"}
		}

		flags := scanClass(format, &i, flagSet)
		width := scanClass(format, &i, "0123456789")
		if i < len(format) && format[i] == '*' {
			return nil, &Error{format, convStart, "indirect width/precision ('*') is not supported"}
		}

		var precision string
		if i < len(format) && format[i] == '.' {
			j := i
			j++
			if j < len(format) && format[j] == '*' {
				return nil, &Error{format, convStart, "indirect width/precision ('*') is not supported"}
			}
			digits := scanClass(format, &j, "0123456789")
			precision = "." + digits
			i = j
		}

		lengthMod := scanClass(format, &i, lenModSet)

		if i >= len(format) || !isByteIn(format[i], specSet) {
			return nil, &Error{format, convStart, "missing or invalid conversion specifier"}
		}
		specifier := format[i]
		i++

		toks = append(toks, Token{
			Kind:      Conv,
			Flags:     flags,
			Width:     width,
			Precision: precision,
			LengthMod: lengthMod,
			Specifier: specifier,
			Raw:       format[convStart:i],
		})
	}
	return toks, nil
}

// scanClass advances *pos while s[*pos] is a byte in set, returning
// the scanned substring (possibly empty).
func scanClass(s string, pos *int, set string) string {
	start := *pos
	for *pos < len(s) && isByteIn(s[*pos], set) {
		*pos++
	}
	return s[start:*pos]
}

func isByteIn(c byte, set string) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

// Rebuild regenerates a conversion's spec string with width
// substituted for the original width digits, per the alignment
// engine's spec-regeneration pass. flags, precision, lengthMod and
// specifier are preserved verbatim.
func Rebuild(flags string, width int, precision, lengthMod string, specifier byte) string {
	buf := make([]byte, 0, 1+len(flags)+6+len(precision)+len(lengthMod)+1)
	buf = append(buf, '%')
	buf = append(buf, flags...)
	buf = appendInt(buf, width)
	buf = append(buf, precision...)
	buf = append(buf, lengthMod...)
	buf = append(buf, specifier)
	return string(buf)
}

func appendInt(buf []byte, w int) []byte {
	return append(buf, []byte(itoa(w))...)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var tmp [20]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		tmp[i] = '-'
	}
	return string(tmp[i:])
}
