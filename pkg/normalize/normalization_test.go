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

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeArabic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "vowel marks stripped",
			input:    "بِسْمِ",
			expected: "بسم",
		},
		{
			name:     "bare consonants unchanged",
			input:    "بسم",
			expected: "بسم",
		},
		{
			name:     "alif wasla and shadda",
			input:    "ٱللَّهِ",
			expected: "الله",
		},
		{
			name:     "hamza on alif and tanwin",
			input:    "أَحَدٌ",
			expected: "احد",
		},
		{
			name:     "ta marbuta folds to ha",
			input:    "رَحْمَةٌ",
			expected: "رحمه",
		},
		{
			name:     "alif maksura folds to ya",
			input:    "يَهْدِى",
			expected: "يهدي",
		},
		{
			name:     "waw with hamza folds to waw",
			input:    "مُؤْمِنٌ",
			expected: "مومن",
		},
		{
			name:     "phrase keeps spaces",
			input:    "قُلْ هُوَ ٱللَّهُ أَحَدٌ",
			expected: "قل هو الله احد",
		},
		{
			name:     "farsi yeh folds to arabic yeh",
			input:    "فی",
			expected: "في",
		},
		{
			name:     "tatweel removed",
			input:    "بــسم",
			expected: "بسم",
		},
		{
			name:     "end of ayah mark preserved",
			input:    "ا۝١",
			expected: "ا۝١",
		},
		{
			name:     "small high jeem annotation removed",
			input:    "ا ۚ ب",
			expected: "ا  ب",
		},
		{
			name:     "latin text untouched",
			input:    "God is Great",
			expected: "God is Great",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NormalizeArabic(tt.input))
		})
	}
}

func TestNormalizeArabic_LetterformEquivalence(t *testing.T) {
	t.Parallel()

	for canonical, variants := range letterVariants {
		for _, v := range variants {
			a := "ب" + string(v) + "ل"
			b := "ب" + string(canonical) + "ل"
			assert.Equal(t, NormalizeArabic(b), NormalizeArabic(a),
				"variant U+%04X should fold like U+%04X", v, canonical)
		}
	}
}

func TestNormalizeArabic_DiacriticInsensitive(t *testing.T) {
	t.Parallel()
	assert.Equal(t, NormalizeArabic("بسم"), NormalizeArabic("بِسْمِ"))
}

func TestNormalizer_CustomPreserved(t *testing.T) {
	t.Parallel()

	stripAll := New(nil)
	assert.Equal(t, "ا١", stripAll.Arabic("ا۝١"))
	assert.True(t, stripAll.IsMark(EndOfAyah))
	assert.Empty(t, stripAll.Preserved())

	keepSukun := New([]rune{'\u0652', 'x'})
	assert.Equal(t, "\u0628\u0652", keepSukun.Arabic("\u0628\u064E\u0652"))
	assert.Equal(t, []rune{'\u0652'}, keepSukun.Preserved())
	assert.False(t, keepSukun.IsMark('x'))
}

func TestNormalizer_MarkClass(t *testing.T) {
	t.Parallel()

	re, err := regexp.Compile(Default.MarkClass())
	require.NoError(t, err)

	for r := rune(0x0600); r <= 0x06FF; r++ {
		assert.Equal(t, Default.IsMark(r), re.MatchString(string(r)), "U+%04X", r)
	}
	assert.False(t, re.MatchString("a"))
	assert.False(t, re.MatchString(string(EndOfAyah)))

	everything := New([]rune{
		0x0610, 0x0611, 0x0612, 0x0613, 0x0614, 0x0615, 0x0616, 0x0617, 0x0618, 0x0619, 0x061A,
		0x0640,
		0x064B, 0x064C, 0x064D, 0x064E, 0x064F, 0x0650, 0x0651, 0x0652, 0x0653, 0x0654, 0x0655,
		0x0656, 0x0657, 0x0658, 0x0659, 0x065A, 0x065B, 0x065C, 0x065D, 0x065E, 0x065F,
		0x0670,
		0x06D6, 0x06D7, 0x06D8, 0x06D9, 0x06DA, 0x06DB, 0x06DC, 0x06DD, 0x06DE, 0x06DF, 0x06E0,
		0x06E1, 0x06E2, 0x06E3, 0x06E4, 0x06E5, 0x06E6, 0x06E7, 0x06E8, 0x06E9, 0x06EA, 0x06EB,
		0x06EC, 0x06ED,
	})
	re, err = regexp.Compile(everything.MarkClass())
	require.NoError(t, err)
	assert.False(t, re.MatchString("َ"))
}

func TestCanonicalAndVariants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Alif, Canonical('أ'))
	assert.Equal(t, Ya, Canonical('ى'))
	assert.Equal(t, Ha, Canonical('ة'))
	assert.Equal(t, Waw, Canonical('ؤ'))
	assert.Equal(t, 'ب', Canonical('ب'))

	assert.Contains(t, Variants(Alif), 'ٱ')
	assert.Equal(t, Alif, Variants(Alif)[0])
	assert.Nil(t, Variants('ب'))
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "accent apostrophe and case",
			input:    "Allâh's Mercy",
			expected: "allah s mercy",
		},
		{
			name:     "luganda velar nasal",
			input:    "Katonda  Ŋŋ",
			expected: "katonda nn",
		},
		{
			name:     "surrounding whitespace and punctuation",
			input:    "  Crème BRÛLÉE!! ",
			expected: "creme brulee",
		},
		{
			name:     "tilde and digits",
			input:    "Ñandú, 2nd",
			expected: "nandu 2nd",
		},
		{
			name:     "tabs and newlines collapse",
			input:    "the\tgreat\n\nand merciful",
			expected: "the great and merciful",
		},
		{
			name:     "arabic removed entirely",
			input:    "بسم",
			expected: "",
		},
		{
			name:     "only punctuation",
			input:    "...!?",
			expected: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestDetectScript(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ScriptArabic, DetectScript("قل هو"))
	assert.Equal(t, ScriptArabic, DetectScript("verse ب mixed"))
	assert.Equal(t, ScriptArabic, DetectScript("ݐ"))
	assert.Equal(t, ScriptArabic, DetectScript("ࢠ"))
	assert.Equal(t, ScriptLatin, DetectScript("Katonda"))
	assert.Equal(t, ScriptLatin, DetectScript("Crème"))
	assert.Equal(t, ScriptLatin, DetectScript(""))

	assert.True(t, HasLatin("The Opening — الفاتحة"))
	assert.True(t, HasLatin("ŋ"))
	assert.False(t, HasLatin("الفاتحة ١٢"))
	assert.False(t, HasLatin("123 — !"))
	assert.Equal(t, "arabic", ScriptArabic.String())
	assert.Equal(t, "latin", ScriptLatin.String())
}

func TestParseRune(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    rune
		wantErr bool
	}{
		{input: "U+06DD", want: 0x06DD},
		{input: "u+06dd", want: 0x06DD},
		{input: "0x06E9", want: 0x06E9},
		{input: "06DE", want: 0x06DE},
		{input: "۝", want: 0x06DD},
		{input: " U+0652 ", want: 0x0652},
		{input: "", wantErr: true},
		{input: "U+ZZZZ", wantErr: true},
		{input: "U+D800", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRune(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFoldLatin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Allâh's Mercy", want: "allah's mercy"},
		{input: "Ŋŋ, Café!", want: "nn, cafe!"},
		{input: "ÉLÈVE  Über\t", want: "eleve  uber\t"},
		{input: "Katonda", want: "katonda"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FoldLatin(tt.input))
		})
	}
}
