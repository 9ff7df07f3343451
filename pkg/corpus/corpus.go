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

// Package corpus holds the joined Arabic, Luganda and English verse data
// together with the normalized search forms cached at load time.
package corpus

import (
	"fmt"
	"sort"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/normalize"
	"golang.org/x/text/unicode/norm"
)

const (
	RevelationMeccan  = "Meccan"
	RevelationMedinan = "Medinan"

	// lastMeccanSurah is the cut-off used for the revelation type label.
	lastMeccanSurah = 86
)

// VerseRecord is a single ayah in all three languages. Records are immutable
// once built; the normalized fields are pure functions of their sources.
type VerseRecord struct {
	Arabic            string `json:"arabic"`
	NormalizedArabic  string `json:"-"`
	Luganda           string `json:"luganda"`
	NormalizedLuganda string `json:"-"`
	English           string `json:"english"`
	NormalizedEnglish string `json:"-"`
	SurahNumber       int    `json:"surah"`
	VerseNumber       int    `json:"verse"`
}

// NewVerseRecord builds a record and caches its normalized search fields.
// The Arabic text is stored NFC-normalized for rendering.
func NewVerseRecord(
	n *normalize.Normalizer,
	surah, verse int,
	arabic, luganda, english string,
) VerseRecord {
	arabic = norm.NFC.String(arabic)
	return VerseRecord{
		SurahNumber:       surah,
		VerseNumber:       verse,
		Arabic:            arabic,
		NormalizedArabic:  n.Arabic(arabic),
		Luganda:           luganda,
		NormalizedLuganda: normalize.NormalizeText(luganda),
		English:           english,
		NormalizedEnglish: normalize.NormalizeText(english),
	}
}

// Key returns the "surah:verse" reference of the record.
func (v *VerseRecord) Key() string {
	return verseKey(v.SurahNumber, v.VerseNumber)
}

func verseKey(surah, verse int) string {
	return fmt.Sprintf("%d:%d", surah, verse)
}

// Surah is a chapter with its names and verses in ascending order.
type Surah struct {
	ArabicName            string        `json:"arabicName"`
	EnglishName           string        `json:"englishName"`
	NormalizedArabicName  string        `json:"-"`
	NormalizedEnglishName string        `json:"-"`
	RevelationType        string        `json:"revelationType"`
	Verses                []VerseRecord `json:"verses,omitempty"`
	Number                int           `json:"number"`
}

// NewSurah builds a surah, sorting its verses and caching normalized names.
func NewSurah(
	n *normalize.Normalizer,
	number int,
	arabicName, englishName string,
	verses []VerseRecord,
) Surah {
	sort.SliceStable(verses, func(i, j int) bool {
		return verses[i].VerseNumber < verses[j].VerseNumber
	})
	return Surah{
		Number:                number,
		ArabicName:            arabicName,
		EnglishName:           englishName,
		NormalizedArabicName:  n.Arabic(arabicName),
		NormalizedEnglishName: normalize.NormalizeText(englishName),
		RevelationType:        RevelationType(number),
		Verses:                verses,
	}
}

// RevelationType returns the simplified Meccan/Medinan label of a surah.
func RevelationType(number int) string {
	if number <= lastMeccanSurah {
		return RevelationMeccan
	}
	return RevelationMedinan
}

// DisplayName joins the English and Arabic names for listings.
func (s *Surah) DisplayName() string {
	switch {
	case s.ArabicName == "":
		return s.EnglishName
	case s.EnglishName == "":
		return s.ArabicName
	default:
		return s.EnglishName + " — " + s.ArabicName
	}
}

// TotalVerses returns the number of verses in the surah.
func (s *Surah) TotalVerses() int {
	return len(s.Verses)
}

// Corpus is the whole joined text, surahs in ascending order. It is read-only
// after construction and safe for concurrent readers.
type Corpus struct {
	index  map[int]int
	Surahs []Surah
}

// New sorts surahs by number and indexes them for lookup.
func New(surahs []Surah) *Corpus {
	sort.SliceStable(surahs, func(i, j int) bool {
		return surahs[i].Number < surahs[j].Number
	})
	c := &Corpus{
		Surahs: surahs,
		index:  make(map[int]int, len(surahs)),
	}
	for i := range surahs {
		c.index[surahs[i].Number] = i
	}
	return c
}

// Surah returns the surah with the given number.
func (c *Corpus) Surah(number int) (*Surah, bool) {
	i, ok := c.index[number]
	if !ok {
		return nil, false
	}
	return &c.Surahs[i], true
}

// Verse returns a single verse by reference.
func (c *Corpus) Verse(surah, verse int) (*VerseRecord, bool) {
	s, ok := c.Surah(surah)
	if !ok {
		return nil, false
	}
	i := sort.Search(len(s.Verses), func(i int) bool {
		return s.Verses[i].VerseNumber >= verse
	})
	if i < len(s.Verses) && s.Verses[i].VerseNumber == verse {
		return &s.Verses[i], true
	}
	return nil, false
}

// VerseCount returns the total number of verses.
func (c *Corpus) VerseCount() int {
	total := 0
	for i := range c.Surahs {
		total += len(c.Surahs[i].Verses)
	}
	return total
}
