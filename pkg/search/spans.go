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

import "sort"

// MergeSpans sorts spans and joins any that overlap or touch. Empty and
// inverted spans are dropped.
func MergeSpans(spans []Span) []Span {
	valid := make([]Span, 0, len(spans))
	for _, sp := range spans {
		if sp.End > sp.Start && sp.Start >= 0 {
			valid = append(valid, sp)
		}
	}
	if len(valid) < 2 {
		return valid
	}

	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Start != valid[j].Start {
			return valid[i].Start < valid[j].Start
		}
		return valid[i].End < valid[j].End
	})

	merged := valid[:1]
	for _, sp := range valid[1:] {
		last := &merged[len(merged)-1]
		if sp.Start <= last.End {
			if sp.End > last.End {
				last.End = sp.End
			}
			continue
		}
		merged = append(merged, sp)
	}
	return merged
}

// RunsFromSpans slices text at the given spans, which must be sorted,
// non-overlapping and within bounds. Text outside any span becomes plain
// runs. Text with no spans comes back as a single plain run.
func RunsFromSpans(text string, spans []Span) []Run {
	if len(spans) == 0 {
		return []Run{{Text: text}}
	}

	runs := make([]Run, 0, 2*len(spans)+1)
	pos := 0
	for _, sp := range spans {
		if sp.Start > pos {
			runs = append(runs, Run{Text: text[pos:sp.Start]})
		}
		runs = append(runs, Run{Text: text[sp.Start:sp.End], Highlighted: true})
		pos = sp.End
	}
	if pos < len(text) {
		runs = append(runs, Run{Text: text[pos:]})
	}
	return runs
}
