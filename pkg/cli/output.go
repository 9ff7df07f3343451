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

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/search"
	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCSV, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Row is one result as printed in the structured formats.
type Row struct {
	Ref         string `json:"ref" csv:"ref" yaml:"ref"`
	SurahName   string `json:"surahName" csv:"surah_name" yaml:"surah_name"`
	Field       string `json:"field" csv:"field" yaml:"field"`
	Highlighted string `json:"highlighted" csv:"highlighted" yaml:"highlighted"`
	Arabic      string `json:"arabic" csv:"arabic" yaml:"arabic"`
	Luganda     string `json:"luganda" csv:"luganda" yaml:"luganda"`
	English     string `json:"english" csv:"english" yaml:"english"`
	Surah       int    `json:"surah" csv:"surah" yaml:"surah"`
	Verse       int    `json:"verse" csv:"verse" yaml:"verse"`
}

// MarkRuns joins runs, wrapping highlighted ones in open and close.
func MarkRuns(runs []search.Run, open, closing string) string {
	var sb strings.Builder
	for _, r := range runs {
		if r.Highlighted {
			sb.WriteString(open)
			sb.WriteString(r.Text)
			sb.WriteString(closing)
		} else {
			sb.WriteString(r.Text)
		}
	}
	return sb.String()
}

// WithHighlights pairs each match with the highlight runs of its matched
// text, the shape the server returns.
func WithHighlights(
	s *search.Searcher,
	query string,
	mode search.Mode,
	matches []search.MatchResult,
) []models.SearchResult {
	out := make([]models.SearchResult, 0, len(matches))
	for i := range matches {
		out = append(out, models.SearchResult{
			MatchResult: matches[i],
			Highlighted: s.Highlight(matches[i].Text(), query, mode),
		})
	}
	return out
}

func toRows(results []models.SearchResult) []Row {
	rows := make([]Row, 0, len(results))
	for i := range results {
		r := &results[i]
		rows = append(rows, Row{
			Ref:         r.Key(),
			Surah:       r.SurahNumber,
			Verse:       r.VerseNumber,
			SurahName:   r.SurahName,
			Field:       string(r.MatchedField),
			Highlighted: MarkRuns(r.Highlighted, "[", "]"),
			Arabic:      r.Arabic,
			Luganda:     r.Luganda,
			English:     r.English,
		})
	}
	return rows
}

// WriteResults prints results in the given format. The text format prints
// one line per result with matches in brackets, then a count.
func WriteResults(w io.Writer, format Format, results []models.SearchResult) error {
	rows := toRows(results)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case FormatCSV:
		if err := gocsv.Marshal(rows, w); err != nil {
			return fmt.Errorf("failed to encode csv: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
	case FormatText:
		for _, r := range rows {
			if _, err := fmt.Fprintf(w, "%s %s (%s): %s\n", r.Ref, r.Field, r.SurahName, r.Highlighted); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
		}
		if _, err := fmt.Fprintf(w, "%d result(s)\n", len(rows)); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}
