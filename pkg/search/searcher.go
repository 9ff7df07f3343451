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

// Package search finds verses matching a query across the Arabic text and
// its Luganda and English translations, and splits display text into
// highlighted and plain runs.
//
// Matching runs over the normalized fields cached on each verse.
// Highlighting runs over the original text, using patterns that expand each
// normalized query character back into every source form it stands for.
package search

import (
	"strings"
	"time"
	"unicode"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/corpus"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/normalize"
	"github.com/rs/zerolog/log"
)

// Searcher matches and highlights with one Arabic normalizer. It is safe for
// concurrent use.
type Searcher struct {
	norm   *normalize.Normalizer
	arabic *Profile
	latin  *Profile
	cache  *regexCache
}

// Option configures a Searcher.
type Option func(*searcherOptions)

type searcherOptions struct {
	cacheSize int
}

// WithCacheSize bounds the number of compiled patterns kept.
func WithCacheSize(n int) Option {
	return func(o *searcherOptions) {
		o.cacheSize = n
	}
}

// New returns a Searcher using n for Arabic normalization. n must be the
// normalizer the corpus was loaded with.
func New(n *normalize.Normalizer, opts ...Option) *Searcher {
	o := searcherOptions{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Searcher{
		norm:   n,
		arabic: ArabicProfile(n),
		latin:  LatinProfile(),
		cache:  newRegexCache(o.cacheSize),
	}
}

// PreservedMarks returns the Arabic marks the searcher's normalizer keeps.
func (s *Searcher) PreservedMarks() []rune {
	return s.norm.Preserved()
}

// CachedPatterns returns how many compiled expressions are cached.
func (s *Searcher) CachedPatterns() int {
	return s.cache.size()
}

// Default uses normalize.Default.
var Default = New(normalize.Default)

// Search runs Default.Search.
func Search(c *corpus.Corpus, query string, lang Language, mode Mode) []MatchResult {
	return Default.Search(c, query, lang, mode)
}

// Highlight runs Default.Highlight.
func Highlight(text, query string, mode Mode) []Run {
	return Default.Highlight(text, query, mode)
}

func (s *Searcher) compile(p *Profile, body string, mode Mode) (*Pattern, bool) {
	if body == "" {
		return nil, false
	}
	re, err := s.cache.compile("(?i)" + body)
	if err != nil {
		// escaped input always compiles; this is a bug in a profile
		log.Error().Err(err).Str("profile", p.Name()).Msg("invalid search pattern")
		return nil, false
	}
	return &Pattern{re: re, profile: p, exact: mode == ModeExact}, true
}

// ArabicPattern normalizes query and builds a pattern matching any spelling
// of it in Arabic text, with or without marks. It reports false when the
// query normalizes to nothing.
func (s *Searcher) ArabicPattern(query string, mode Mode) (*Pattern, bool) {
	nq := s.arabicQuery(query)
	if nq == "" {
		return nil, false
	}
	return s.compile(s.arabic, s.arabic.Expand(nq), mode)
}

// arabicQuery normalizes query with runs of whitespace collapsed to one
// space.
func (s *Searcher) arabicQuery(query string) string {
	return strings.Join(strings.Fields(s.norm.Arabic(query)), " ")
}

// LatinPatterns builds one pattern per query word for Latin-script text.
// Each word tolerates accents, ŋ for n, and curly for straight quotes.
func (s *Searcher) LatinPatterns(query string, mode Mode) []*Pattern {
	words := latinWords(query)
	patterns := make([]*Pattern, 0, len(words))
	for _, w := range words {
		if p, ok := s.compile(s.latin, s.latin.Expand(w), mode); ok {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// latinWords folds a raw query and splits it into words on anything that is
// not a letter, digit or quote. Quotes at the edges of a word are dropped.
func latinWords(query string) []string {
	folded := strings.Map(func(r rune) rune {
		switch r {
		case '‘', '’':
			return '\''
		case '“', '”':
			return '"'
		default:
			return r
		}
	}, normalize.FoldLatin(query))

	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '"'
	})
	words := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, `'"`); f != "" {
			words = append(words, f)
		}
	}
	return words
}

// query is a search string prepared once per Search call.
type query struct {
	arabicPattern *Pattern
	arabic        string
	words         []string
	wordPatterns  []*Pattern
	exact         bool
}

func (s *Searcher) prepare(raw string, mode Mode) *query {
	q := &query{
		arabic: s.arabicQuery(raw),
		words:  strings.Fields(normalize.NormalizeText(raw)),
		exact:  mode == ModeExact,
	}
	if !q.exact {
		return q
	}

	if q.arabic != "" {
		if p, ok := s.compile(s.arabic, s.arabic.Expand(q.arabic), mode); ok {
			q.arabicPattern = p
		} else {
			q.arabic = ""
		}
	}
	q.wordPatterns = make([]*Pattern, 0, len(q.words))
	for _, w := range q.words {
		p, ok := s.compile(s.latin, s.latin.Expand(w), mode)
		if !ok {
			q.words = nil
			q.wordPatterns = nil
			break
		}
		q.wordPatterns = append(q.wordPatterns, p)
	}
	return q
}

func (q *query) matchArabic(field string) bool {
	if q.arabic == "" {
		return false
	}
	if q.exact {
		return q.arabicPattern.MatchString(field)
	}
	return strings.Contains(field, q.arabic)
}

// matchLatin requires every word to be present, in any order.
func (q *query) matchLatin(field string) bool {
	if len(q.words) == 0 {
		return false
	}
	for i, w := range q.words {
		if q.exact {
			if !q.wordPatterns[i].MatchString(field) {
				return false
			}
		} else if !strings.Contains(field, w) {
			return false
		}
	}
	return true
}

func (q *query) matchTitle(s *corpus.Surah) bool {
	return q.matchArabic(s.NormalizedArabicName) || q.matchLatin(s.NormalizedEnglishName)
}

// Search scans the corpus in surah and verse order and returns one result
// per matching verse. Fields are tried in the order title, Arabic, Luganda,
// English, and the first match decides the reported field. Title matches
// apply only with LanguageAll and only to the first verse of a surah.
//
// An empty or whitespace-only query returns an empty slice.
func (s *Searcher) Search(c *corpus.Corpus, rawQuery string, lang Language, mode Mode) []MatchResult {
	results := make([]MatchResult, 0)
	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" || c == nil {
		return results
	}

	start := time.Now()
	q := s.prepare(rawQuery, mode)

	for si := range c.Surahs {
		surah := &c.Surahs[si]
		titleMatch := lang == LanguageAll && len(surah.Verses) > 0 && q.matchTitle(surah)

		for vi := range surah.Verses {
			v := &surah.Verses[vi]

			var field Field
			switch {
			case vi == 0 && titleMatch:
				field = FieldTitle
			case lang.includes(FieldArabic) && q.matchArabic(v.NormalizedArabic):
				field = FieldArabic
			case lang.includes(FieldLuganda) && q.matchLatin(v.NormalizedLuganda):
				field = FieldLuganda
			case lang.includes(FieldEnglish) && q.matchLatin(v.NormalizedEnglish):
				field = FieldEnglish
			default:
				continue
			}

			results = append(results, MatchResult{
				Verse:        v,
				SurahNumber:  v.SurahNumber,
				VerseNumber:  v.VerseNumber,
				SurahName:    surah.DisplayName(),
				Arabic:       v.Arabic,
				Luganda:      v.Luganda,
				English:      v.English,
				MatchedField: field,
			})
		}
	}

	log.Trace().
		Str("query", rawQuery).
		Str("lang", string(lang)).
		Str("mode", string(mode)).
		Int("results", len(results)).
		Dur("took", time.Since(start)).
		Msg("search completed")
	return results
}

// Spans returns the merged byte ranges of text that match query. Arabic
// text is matched with the Arabic pattern, anything else word by word with
// the Latin patterns. Text mixing both scripts, such as a surah display
// name, is matched by the script of the query.
func (s *Searcher) Spans(text, rawQuery string, mode Mode) []Span {
	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" || text == "" {
		return nil
	}

	arabic := normalize.IsArabic(text)
	if arabic && normalize.HasLatin(text) {
		arabic = normalize.IsArabic(rawQuery)
	}
	if arabic {
		p, ok := s.ArabicPattern(rawQuery, mode)
		if !ok {
			return nil
		}
		return MergeSpans(p.FindSpans(text))
	}

	var spans []Span
	for _, p := range s.LatinPatterns(rawQuery, mode) {
		spans = append(spans, p.FindSpans(text)...)
	}
	return MergeSpans(spans)
}

// Highlight splits text into plain and highlighted runs for query. The runs
// always join back into text; with an empty query or no match the whole
// text is a single plain run.
func (s *Searcher) Highlight(text, rawQuery string, mode Mode) []Run {
	return RunsFromSpans(text, s.Spans(text, rawQuery, mode))
}
