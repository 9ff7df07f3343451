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
	"strings"
	"testing"
	"unicode/utf8"

	"pgregory.net/rapid"
)

func arabicTextGen() *rapid.Generator[string] {
	chars := []rune(
		"ابتسلمنهويقحد" +
			"آأإٱؤئىة" +
			"ًَُِّْٰـۖۚ" +
			"۝ ()*+?.",
	)
	return rapid.StringOfN(rapid.SampledFrom(chars), 0, 40, -1)
}

func latinTextGen() *rapid.Generator[string] {
	chars := []rune(
		"GodgodALahmercyŋŊnñéèấ '’\".,;()*+?[]\\-",
	)
	return rapid.StringOfN(rapid.SampledFrom(chars), 0, 40, -1)
}

// queryGen draws either a random string or a substring of text.
func queryGen(text string, random *rapid.Generator[string]) *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		if text == "" || rapid.Bool().Draw(t, "random") {
			return random.Draw(t, "query")
		}
		rs := []rune(text)
		i := rapid.IntRange(0, len(rs)-1).Draw(t, "start")
		j := rapid.IntRange(i+1, len(rs)).Draw(t, "end")
		return string(rs[i:j])
	})
}

func checkRuns(t *rapid.T, text, query string, mode Mode) {
	runs := Highlight(text, query, mode)
	if len(runs) == 0 {
		t.Fatalf("no runs for %q / %q", text, query)
	}

	var sb strings.Builder
	for i, r := range runs {
		if len(runs) > 1 && r.Text == "" {
			t.Fatalf("empty run %d for %q / %q", i, text, query)
		}
		if i > 0 && !r.Highlighted && !runs[i-1].Highlighted {
			t.Fatalf("adjacent plain runs for %q / %q", text, query)
		}
		if !utf8.ValidString(r.Text) && utf8.ValidString(text) {
			t.Fatalf("run %d splits a character: %q", i, r.Text)
		}
		sb.WriteString(r.Text)
	}
	if sb.String() != text {
		t.Fatalf("runs %+v do not rebuild %q", runs, text)
	}
}

func TestPropertyHighlightRoundTripArabic(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		text := arabicTextGen().Draw(t, "text")
		query := queryGen(text, arabicTextGen()).Draw(t, "q")
		mode := rapid.SampledFrom([]Mode{ModeSimilar, ModeExact}).Draw(t, "mode")
		checkRuns(t, text, query, mode)
	})
}

func TestPropertyHighlightRoundTripLatin(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		text := latinTextGen().Draw(t, "text")
		query := queryGen(text, latinTextGen()).Draw(t, "q")
		mode := rapid.SampledFrom([]Mode{ModeSimilar, ModeExact}).Draw(t, "mode")
		checkRuns(t, text, query, mode)
	})
}
