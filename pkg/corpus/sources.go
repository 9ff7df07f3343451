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

package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/normalize"
	"github.com/rs/zerolog/log"
)

// ErrNoVerses is returned when the Arabic source contains no verses.
var ErrNoVerses = errors.New("arabic source contains no verses")

// ArabicVerse is one entry of the flat Arabic source file.
type ArabicVerse struct {
	SurahNameArabic string `json:"surah_name_arabic"` //nolint:tagliatelle // source file format
	TextContent     string `json:"text_content"`      //nolint:tagliatelle // source file format
	SurahNumber     int    `json:"surah_number"`      //nolint:tagliatelle // source file format
	AyahNumber      int    `json:"ayah_number"`       //nolint:tagliatelle // source file format
}

// TranslationVerse is one entry of a flat translation source file.
type TranslationVerse struct {
	SurahName   string `json:"surah_name"`   //nolint:tagliatelle // source file format
	Text        string `json:"text"`         //nolint:tagliatelle // source file format
	SurahNumber int    `json:"surah_number"` //nolint:tagliatelle // source file format
	AyahNumber  int    `json:"ayah_number"`  //nolint:tagliatelle // source file format
}

// DecodeArabic reads a JSON array of Arabic verses.
func DecodeArabic(r io.Reader) ([]ArabicVerse, error) {
	var verses []ArabicVerse
	if err := json.NewDecoder(r).Decode(&verses); err != nil {
		return nil, fmt.Errorf("failed to decode arabic source: %w", err)
	}
	return verses, nil
}

// DecodeTranslation reads a JSON array of translation verses.
func DecodeTranslation(r io.Reader) ([]TranslationVerse, error) {
	var verses []TranslationVerse
	if err := json.NewDecoder(r).Decode(&verses); err != nil {
		return nil, fmt.Errorf("failed to decode translation source: %w", err)
	}
	return verses, nil
}

type translationIndex struct {
	text  map[string]string
	names map[int]string
}

func indexTranslation(verses []TranslationVerse) translationIndex {
	idx := translationIndex{
		text:  make(map[string]string, len(verses)),
		names: make(map[int]string),
	}
	for _, v := range verses {
		idx.text[verseKey(v.SurahNumber, v.AyahNumber)] = v.Text
		if _, ok := idx.names[v.SurahNumber]; !ok && v.SurahName != "" {
			idx.names[v.SurahNumber] = v.SurahName
		}
	}
	return idx
}

// Join combines the three sources by surah and ayah number. The Arabic
// source decides which verses exist; missing translations become empty
// strings and English surah names fall back to "Surah N". Duplicate Arabic
// entries keep the first occurrence.
func Join(
	n *normalize.Normalizer,
	arabic []ArabicVerse,
	luganda, english []TranslationVerse,
) (*Corpus, error) {
	if len(arabic) == 0 {
		return nil, ErrNoVerses
	}

	lg := indexTranslation(luganda)
	en := indexTranslation(english)

	type pending struct {
		arabicName string
		verses     []VerseRecord
	}
	bySurah := make(map[int]*pending)
	seen := make(map[string]struct{}, len(arabic))
	var order []int

	for _, av := range arabic {
		key := verseKey(av.SurahNumber, av.AyahNumber)
		if _, dup := seen[key]; dup {
			log.Warn().Str("verse", key).Msg("skipping duplicate arabic verse")
			continue
		}
		seen[key] = struct{}{}

		p, ok := bySurah[av.SurahNumber]
		if !ok {
			p = &pending{arabicName: av.SurahNameArabic}
			bySurah[av.SurahNumber] = p
			order = append(order, av.SurahNumber)
		}
		p.verses = append(p.verses, NewVerseRecord(
			n,
			av.SurahNumber,
			av.AyahNumber,
			av.TextContent,
			lg.text[key],
			en.text[key],
		))
	}

	surahs := make([]Surah, 0, len(order))
	for _, num := range order {
		p := bySurah[num]
		englishName, ok := en.names[num]
		if !ok {
			englishName = fmt.Sprintf("Surah %d", num)
		}
		surahs = append(surahs, NewSurah(n, num, p.arabicName, englishName, p.verses))
	}

	c := New(surahs)
	log.Debug().
		Int("surahs", len(c.Surahs)).
		Int("verses", c.VerseCount()).
		Msg("joined corpus sources")
	return c, nil
}
