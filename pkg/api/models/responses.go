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

package models

import (
	"time"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/bookmarks"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/corpus"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/history"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/search"
)

type SearchResult struct {
	Highlighted []search.Run `json:"highlighted"`
	search.MatchResult
}

type SearchResponse struct {
	Query    string         `json:"query"`
	Script   string         `json:"script"`
	Language string         `json:"language"`
	Mode     string         `json:"mode"`
	Results  []SearchResult `json:"results"`
	Total    int            `json:"total"`
}

type HighlightResponse struct {
	Runs []search.Run `json:"runs"`
}

type SurahSummary struct {
	ArabicName     string `json:"arabicName"`
	EnglishName    string `json:"englishName"`
	RevelationType string `json:"revelationType"`
	Number         int    `json:"number"`
	TotalVerses    int    `json:"totalVerses"`
}

type SurahsResponse struct {
	Surahs []SurahSummary `json:"surahs"`
}

type BookmarksResponse struct {
	Bookmarks []bookmarks.Bookmark `json:"bookmarks"`
}

type CollectionsResponse struct {
	Collections []bookmarks.Collection `json:"collections"`
}

type HealthResponse struct {
	LoadedAt       *time.Time `json:"loadedAt,omitempty"`
	Status         string     `json:"status"`
	Corpus         string     `json:"corpus"`
	Version        string     `json:"version"`
	PreservedMarks []string   `json:"preservedMarks"`
	Verses         int        `json:"verses"`
	CachedPatterns int        `json:"cachedPatterns"`
}

type VersionResponse struct {
	Version string `json:"version"`
}

type CorpusReloadedNotification struct {
	File string `json:"file,omitempty"`
}

type BookmarksChangedNotification struct {
	Action string `json:"action"`
	Surah  int    `json:"surah,omitempty"`
	Verse  int    `json:"verse,omitempty"`
}

// LastReadResponse is the saved reading position with the verse it points
// at, when that verse is in the loaded corpus.
type LastReadResponse struct {
	Record    *corpus.VerseRecord `json:"record,omitempty"`
	SurahName string              `json:"surahName,omitempty"`
	Position  history.LastRead    `json:"position"`
}

type SearchHistoryResponse struct {
	Entries []history.SearchEntry `json:"entries"`
}
