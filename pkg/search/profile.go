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
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/normalize"
)

// Profile describes how one script is matched against unnormalized text:
// which query characters expand into classes of equivalent source
// characters, and which marks may trail a letter in the source.
type Profile struct {
	classes    map[rune]string
	allowMarks func(rune) bool
	isMark     func(rune) bool
	name       string
	marks      string
}

// Name returns the script name of the profile.
func (p *Profile) Name() string {
	return p.name
}

// IsMark reports whether r is a mark this profile skips over, both after a
// letter inside a match and before a match when checking its left boundary.
func (p *Profile) IsMark(r rune) bool {
	return p.isMark(r)
}

// Expand turns a query into a regular expression body. Characters with an
// equivalence class become that class, everything else is escaped, and each
// letter may be followed by any number of marks.
func (p *Profile) Expand(query string) string {
	var sb strings.Builder
	for _, r := range query {
		if class, ok := p.classes[r]; ok {
			sb.WriteString(class)
		} else {
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
		if p.marks != "" && p.allowMarks(r) {
			sb.WriteString(p.marks)
			sb.WriteByte('*')
		}
	}
	return sb.String()
}

func runeClass(rs []rune) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, r := range rs {
		_, _ = fmt.Fprintf(&sb, `\x{%04X}`, r)
	}
	sb.WriteByte(']')
	return sb.String()
}

// ArabicProfile expands each canonical letter into all of its letterform
// variants and allows the normalizer's stripped marks after every Arabic
// character.
func ArabicProfile(n *normalize.Normalizer) *Profile {
	classes := make(map[rune]string, 4)
	for _, canonical := range []rune{normalize.Alif, normalize.Waw, normalize.Ya, normalize.Ha} {
		classes[canonical] = runeClass(normalize.Variants(canonical))
	}
	return &Profile{
		name:       normalize.ScriptArabic.String(),
		classes:    classes,
		marks:      n.MarkClass(),
		allowMarks: normalize.IsArabicRune,
		isMark:     n.IsMark,
	}
}

var combiningMarks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0300, Hi: 0x036F, Stride: 1},
	},
}

// latinClasses lists the accented forms sharing a base letter, plus the
// straight and curly forms of each quote.
var latinClasses = map[rune]string{
	'a':  "[aàáâãäå]",
	'e':  "[eèéêë]",
	'i':  "[iìíîï]",
	'o':  "[oòóôõöø]",
	'u':  "[uùúûü]",
	'n':  "[nñŋ]",
	'c':  "[cç]",
	's':  "[sśš]",
	'z':  "[zźž]",
	'\'': "['‘’]",
	'"':  `["“”]`,
}

// LatinProfile expands base letters into their accented variants, quotes
// into their straight and curly forms, and allows combining diacritics
// after letters for decomposed source text.
func LatinProfile() *Profile {
	return &Profile{
		name:       normalize.ScriptLatin.String(),
		classes:    latinClasses,
		marks:      `[\x{0300}-\x{036F}]`,
		allowMarks: unicode.IsLetter,
		isMark: func(r rune) bool {
			return unicode.Is(combiningMarks, r)
		},
	}
}
