// Quran Luganda Ahmadiyya
// Copyright (c) 2026 The Quran Luganda Ahmadiyya Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Quran Luganda Ahmadiyya.
//
// Quran Luganda Ahmadiyya is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Quran Luganda Ahmadiyya is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Quran Luganda Ahmadiyya.  If not, see <http://www.gnu.org/licenses/>.

package search

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) of a matched substring.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Pattern is a compiled, case-insensitive search expression. In exact mode
// a candidate only counts when it is flanked on both sides by the start or
// end of the text or by a character that is neither a letter nor a mark;
// marks directly before a candidate are skipped when looking left.
type Pattern struct {
	re      *regexp.Regexp
	profile *Profile
	exact   bool
}

// String returns the source of the underlying expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// MatchString reports whether s contains at least one accepted match.
func (p *Pattern) MatchString(s string) bool {
	_, ok := p.next(s, 0)
	return ok
}

// FindSpans returns every accepted, non-overlapping match in s from left
// to right.
func (p *Pattern) FindSpans(s string) []Span {
	var spans []Span
	pos := 0
	for pos <= len(s) {
		sp, ok := p.next(s, pos)
		if !ok {
			break
		}
		spans = append(spans, sp)
		pos = sp.End
	}
	return spans
}

// next finds the first accepted match starting at or after pos. A candidate
// rejected by the boundary check resumes the scan one character later so a
// valid match starting inside it is still found.
func (p *Pattern) next(s string, pos int) (Span, bool) {
	for pos <= len(s) {
		loc := p.re.FindStringIndex(s[pos:])
		if loc == nil {
			return Span{}, false
		}
		sp := Span{Start: pos + loc[0], End: pos + loc[1]}
		if sp.End > sp.Start && (!p.exact || p.bounded(s, sp)) {
			return sp, true
		}
		if sp.Start >= len(s) {
			return Span{}, false
		}
		_, size := utf8.DecodeRuneInString(s[sp.Start:])
		pos = sp.Start + size
	}
	return Span{}, false
}

func (p *Pattern) bounded(s string, sp Span) bool {
	i := sp.Start
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if !p.profile.IsMark(r) {
			break
		}
		i -= size
	}
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		if isWordRune(r) {
			return false
		}
	}

	if sp.End < len(s) {
		r, _ := utf8.DecodeRuneInString(s[sp.End:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r)
}
