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

package normalize

import "unicode"

// ScriptType identifies the writing system of a piece of text. Only the two
// scripts present in the corpus are distinguished.
type ScriptType int

const (
	ScriptLatin  ScriptType = iota // English and Luganda translations
	ScriptArabic                   // Arabic source text
)

func (s ScriptType) String() string {
	switch s {
	case ScriptArabic:
		return "arabic"
	case ScriptLatin:
		return "latin"
	default:
		return "unknown"
	}
}

// IsArabicRune reports whether r lies in the Arabic, Arabic Supplement or
// Arabic Extended-A blocks.
func IsArabicRune(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) || // Arabic
		(r >= 0x0750 && r <= 0x077F) || // Arabic Supplement
		(r >= 0x08A0 && r <= 0x08FF) // Arabic Extended-A
}

// IsArabic reports whether s contains at least one Arabic-script rune.
func IsArabic(s string) bool {
	// Fast path: pure ASCII can never be Arabic
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return false
	}

	for _, r := range s {
		if IsArabicRune(r) {
			return true
		}
	}
	return false
}

// HasLatin reports whether s contains at least one Latin-script letter.
func HasLatin(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}

// DetectScript returns ScriptArabic if s contains any Arabic rune and
// ScriptLatin otherwise.
func DetectScript(s string) ScriptType {
	if IsArabic(s) {
		return ScriptArabic
	}
	return ScriptLatin
}
