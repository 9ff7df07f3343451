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

type SearchParams struct {
	Query    string `json:"query" validate:"required,max=500"`
	Language string `json:"language" validate:"omitempty,searchlang"`
	Mode     string `json:"mode" validate:"omitempty,searchmode"`
	Limit    int    `json:"limit" validate:"gte=0,lte=10000"`
}

type HighlightParams struct {
	Text  string `json:"text" validate:"required"`
	Query string `json:"query" validate:"max=500"`
	Mode  string `json:"mode" validate:"omitempty,searchmode"`
}

type SurahParams struct {
	Number int `json:"number" validate:"gte=1,lte=114"`
}

type VerseParams struct {
	Surah int `json:"surah" validate:"gte=1,lte=114"`
	Verse int `json:"verse" validate:"gte=1"`
}

type BookmarkParams struct {
	Color string `json:"color" validate:"omitempty,bookmarkcolor"`
	VerseParams
}

type NewCollectionParams struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"required,collectioncolor"`
}

type CollectionParams struct {
	ID string `json:"id" validate:"required,uuid"`
}

type CollectionVerseParams struct {
	ID string `json:"id" validate:"required,uuid"`
	VerseParams
}

type SearchHistoryParams struct {
	LastID int64 `json:"lastId" validate:"gte=0"`
	Limit  int   `json:"limit" validate:"gte=0,lte=100"`
}
