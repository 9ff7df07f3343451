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

// Package normalize folds Arabic and Latin text into the canonical forms used
// for searching. Arabic text loses its vowel and annotation marks and has its
// letterform variants unified; Latin text is lowercased, accent-stripped and
// reduced to space separated alphanumeric words.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical Arabic letters that letterform variants fold into.
const (
	Alif = '\u0627'
	Waw  = '\u0648'
	Ya   = '\u064A'
	Ha   = '\u0647'
)

// Quranic marks that carry meaning for the reader and are kept by default.
const (
	EndOfAyah     = '\u06DD'
	RubElHizb     = '\u06DE'
	PlaceOfSajdah = '\u06E9'
	Tatweel       = '\u0640'
)

// DefaultPreserved is the set of marks inside the stripped ranges that
// NormalizeArabic leaves in place.
var DefaultPreserved = []rune{EndOfAyah, RubElHizb, PlaceOfSajdah}

// markRanges covers harakat, tanwin, shadda, sukun, maddah, superscript alif,
// tatweel and the Quranic annotation block.
var markRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0610, Hi: 0x061A, Stride: 1},
		{Lo: 0x0640, Hi: 0x0640, Stride: 1},
		{Lo: 0x064B, Hi: 0x065F, Stride: 1},
		{Lo: 0x0670, Hi: 0x0670, Stride: 1},
		{Lo: 0x06D6, Hi: 0x06ED, Stride: 1},
	},
}

// combiningDiacritics is the Combining Diacritical Marks block left behind by
// NFD decomposition of accented Latin letters.
var combiningDiacritics = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0300, Hi: 0x036F, Stride: 1},
	},
}

// letterVariants maps each canonical letter to every codepoint folded into it,
// canonical form first.
var letterVariants = map[rune][]rune{
	// bare, madda, hamza above, hamza below, wasla, wavy hamza above/below, high hamza
	Alif: {'\u0627', '\u0622', '\u0623', '\u0625', '\u0671', '\u0672', '\u0673', '\u0675'},
	// bare, hamza above
	Waw: {'\u0648', '\u0624'},
	// bare, alif maksura, hamza above, farsi yeh
	Ya: {'\u064A', '\u0649', '\u0626', '\u06CC'},
	// bare, ta marbuta
	Ha: {'\u0647', '\u0629'},
}

// Canonical returns the representative letter for r, or r itself when r is
// not a letterform variant.
func Canonical(r rune) rune {
	switch r {
	case '\u0622', '\u0623', '\u0625', '\u0671', '\u0672', '\u0673', '\u0675':
		return Alif
	case '\u0624':
		return Waw
	case '\u0649', '\u0626', '\u06CC':
		return Ya
	case '\u0629':
		return Ha
	default:
		return r
	}
}

// Variants returns all codepoints that canonicalize to r, or nil when r is
// not one of the canonical letters. The returned slice must not be modified.
func Variants(r rune) []rune {
	return letterVariants[r]
}

// Normalizer strips Arabic marks, minus a configurable set of preserved marks.
// A Normalizer is immutable and safe for concurrent use.
type Normalizer struct {
	preserved map[rune]struct{}
	markClass string
}

// Default is the Normalizer used by the package-level functions.
var Default = New(DefaultPreserved)

// New returns a Normalizer that keeps the given marks. Runes outside the
// stripped ranges have no effect.
func New(preserved []rune) *Normalizer {
	n := &Normalizer{
		preserved: make(map[rune]struct{}, len(preserved)),
	}
	for _, r := range preserved {
		n.preserved[r] = struct{}{}
	}
	n.markClass = n.buildMarkClass()
	return n
}

// IsMark reports whether r is removed by Arabic.
func (n *Normalizer) IsMark(r rune) bool {
	if !unicode.Is(markRanges, r) {
		return false
	}
	_, keep := n.preserved[r]
	return !keep
}

// Preserved returns the preserved marks in ascending order.
func (n *Normalizer) Preserved() []rune {
	out := make([]rune, 0, len(n.preserved))
	for _, rng := range markRanges.R16 {
		for r := rune(rng.Lo); r <= rune(rng.Hi); r++ {
			if _, ok := n.preserved[r]; ok {
				out = append(out, r)
			}
		}
	}
	return out
}

// MarkClass returns a regular expression character class matching exactly
// one rune for which IsMark is true.
func (n *Normalizer) MarkClass() string {
	return n.markClass
}

func (n *Normalizer) buildMarkClass() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, rng := range markRanges.R16 {
		start := rune(-1)
		flush := func(end rune) {
			if start < 0 {
				return
			}
			if start == end {
				_, _ = fmt.Fprintf(&sb, `\x{%04X}`, start)
			} else {
				_, _ = fmt.Fprintf(&sb, `\x{%04X}-\x{%04X}`, start, end)
			}
			start = -1
		}
		for r := rune(rng.Lo); r <= rune(rng.Hi); r++ {
			if n.IsMark(r) {
				if start < 0 {
					start = r
				}
				continue
			}
			flush(r - 1)
		}
		flush(rune(rng.Hi))
	}
	if sb.Len() == 1 {
		// every mark preserved: a class that never matches
		return `[^\x00-\x{10FFFF}]`
	}
	sb.WriteByte(']')
	return sb.String()
}

// Arabic strips marks and unifies letterform variants. The result is
// idempotent: Arabic(Arabic(s)) == Arabic(s).
func (n *Normalizer) Arabic(s string) string {
	t := transform.Chain(
		runes.Remove(runes.Predicate(n.IsMark)),
		runes.Map(Canonical),
	)
	if result, _, err := transform.String(t, s); err == nil {
		return result
	}
	return s
}

// NormalizeArabic applies the Default normalizer.
//
// Examples:
//   - "بِسْمِ" → "بسم"
//   - "أَحَدٌ" → "احد"
//   - "ٱللَّهِ" → "الله"
func NormalizeArabic(s string) string {
	return Default.Arabic(s)
}

// foldLatinRune keeps a-z, 0-9 and space, maps the Luganda velar nasal to n
// and turns everything else into a space.
func foldLatinRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
		return r
	case r == 'ŋ':
		return 'n'
	default:
		return ' '
	}
}

// FoldLatin lowercases s, strips accents and maps ŋ to n, leaving
// punctuation and spacing alone.
func FoldLatin(s string) string {
	s = strings.ToLower(s)

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(combiningDiacritics)),
		runes.Map(foldVelarNasal),
	)
	if folded, _, err := transform.String(t, s); err == nil {
		return folded
	}
	return strings.Map(foldVelarNasal, s)
}

func foldVelarNasal(r rune) rune {
	if r == 'ŋ' {
		return 'n'
	}
	return r
}

// NormalizeText folds Latin-script text for searching: lowercase, accents
// removed, ŋ → n, punctuation replaced by spaces, whitespace collapsed.
//
// Examples:
//   - "Allâh's Mercy" → "allah s mercy"
//   - "Katonda  Ŋŋ" → "katonda nn"
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.Map(foldLatinRune, FoldLatin(s))), " ")
}

var errInvalidRune = errors.New("not a valid unicode scalar value")

// ParseRune parses a codepoint written as "U+06DD", "0x06DD", "06DD" or as
// the literal character itself.
func ParseRune(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty codepoint")
	}

	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if r >= 0x80 {
			return r, nil
		}
	}

	hex := strings.ToUpper(s)
	hex = strings.TrimPrefix(hex, "U+")
	hex = strings.TrimPrefix(hex, "0X")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", s, err)
	}
	if !utf8.ValidRune(rune(v)) {
		return 0, fmt.Errorf("invalid codepoint %q: %w", s, errInvalidRune)
	}
	return rune(v), nil
}
