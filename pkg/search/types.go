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
	"errors"
	"fmt"
	"strings"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/corpus"
)

var (
	ErrUnknownMode     = errors.New("unknown search mode")
	ErrUnknownLanguage = errors.New("unknown search language")
)

// Mode selects between substring matching and whole-word matching.
type Mode string

const (
	// ModeSimilar matches anywhere in the text, including inside longer words.
	ModeSimilar Mode = "similar"
	// ModeExact only matches when flanked by characters that are neither
	// letters nor marks, or by the ends of the text.
	ModeExact Mode = "exact"
)

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSimilar, ModeExact:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Language restricts which verse fields are searched.
type Language string

const (
	LanguageAll     Language = "all"
	LanguageArabic  Language = "arabic"
	LanguageLuganda Language = "luganda"
	LanguageEnglish Language = "english"
)

// ParseLanguage parses a language filter name, case-insensitively.
func ParseLanguage(s string) (Language, error) {
	switch l := Language(strings.ToLower(strings.TrimSpace(s))); l {
	case LanguageAll, LanguageArabic, LanguageLuganda, LanguageEnglish:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
}

func (l Language) includes(f Field) bool {
	switch l {
	case LanguageAll:
		return true
	case LanguageArabic:
		return f == FieldArabic
	case LanguageLuganda:
		return f == FieldLuganda
	case LanguageEnglish:
		return f == FieldEnglish
	default:
		return false
	}
}

// Field names the part of a verse that produced a match.
type Field string

const (
	FieldTitle   Field = "title"
	FieldArabic  Field = "arabic"
	FieldLuganda Field = "luganda"
	FieldEnglish Field = "english"
)

// Run is a piece of display text, either plain or highlighted. Joining the
// text of a run sequence gives back the original string.
type Run struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// MatchResult is one matching verse with its original text in all three
// languages. A verse contributes at most one result.
type MatchResult struct {
	Verse        *corpus.VerseRecord `json:"-"`
	SurahName    string              `json:"surahName"`
	Arabic       string              `json:"arabic"`
	Luganda      string              `json:"luganda"`
	English      string              `json:"english"`
	MatchedField Field               `json:"matchedField"`
	SurahNumber  int                 `json:"surah"`
	VerseNumber  int                 `json:"verse"`
}

// Text returns the original text of the matched field. Title matches return
// the surah display name, English and Arabic.
func (m *MatchResult) Text() string {
	switch m.MatchedField {
	case FieldArabic:
		return m.Arabic
	case FieldLuganda:
		return m.Luganda
	case FieldEnglish:
		return m.English
	case FieldTitle:
		return m.SurahName
	default:
		return ""
	}
}

// Key returns the "surah:verse" reference of the match.
func (m *MatchResult) Key() string {
	return fmt.Sprintf("%d:%d", m.SurahNumber, m.VerseNumber)
}
