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

package methods

import (
	"errors"
	"fmt"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/validation"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/history"
	"github.com/rs/zerolog/log"
)

func (env *RequestEnv) history() (*history.DB, error) {
	if env.History == nil {
		return nil, ErrHistoryDisabled
	}
	return env.History, nil
}

// logSearch records a search when history is enabled. Failures are only
// logged.
func (env *RequestEnv) logSearch(query, language, mode string, results int) {
	if env.History == nil {
		return
	}
	if _, err := env.History.AddSearch(env.ctx(), query, language, mode, results); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("failed to log search")
	}
}

func (env *RequestEnv) lastReadResponse(lr history.LastRead) models.LastReadResponse {
	resp := models.LastReadResponse{Position: lr}
	c, ok := env.Loader.Corpus()
	if !ok {
		return resp
	}
	if s, ok := c.Surah(lr.Surah); ok {
		resp.SurahName = s.DisplayName()
	}
	if v, ok := c.Verse(lr.Surah, lr.Verse); ok {
		resp.Record = v
	}
	return resp
}

//nolint:gocritic // single-use parameter in API handler
func HandleLastRead(env RequestEnv) (any, error) {
	h, err := env.history()
	if err != nil {
		return nil, err
	}
	lr, err := h.LastRead(env.ctx())
	if errors.Is(err, history.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get last read position: %w", err)
	}
	return env.lastReadResponse(lr), nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleLastReadSet(env RequestEnv) (any, error) {
	var params models.VerseParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}
	h, err := env.history()
	if err != nil {
		return nil, err
	}
	ref, err := env.verseRef(params)
	if err != nil {
		return nil, err
	}

	lr, err := h.SetLastRead(env.ctx(), ref.Surah, ref.Verse)
	if err != nil {
		return nil, fmt.Errorf("failed to save last read position: %w", err)
	}
	log.Debug().Int("surah", lr.Surah).Int("verse", lr.Verse).Msg("saved last read position")
	return env.lastReadResponse(lr), nil
}

// HandleSearchHistory pages through logged searches, newest first. Params
// are optional.
//
//nolint:gocritic // single-use parameter in API handler
func HandleSearchHistory(env RequestEnv) (any, error) {
	var params models.SearchHistoryParams
	if len(env.Params) > 0 {
		if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
			return nil, err //nolint:wrapcheck // validation errors are returned as-is
		}
	}
	h, err := env.history()
	if err != nil {
		return nil, err
	}
	entries, err := h.Searches(env.ctx(), params.LastID, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}
	return models.SearchHistoryResponse{Entries: entries}, nil
}

// HandleHistoryClear removes the last read position and the search log.
//
//nolint:gocritic // single-use parameter in API handler
func HandleHistoryClear(env RequestEnv) (any, error) {
	h, err := env.history()
	if err != nil {
		return nil, err
	}
	if err := h.Truncate(env.ctx()); err != nil {
		return nil, fmt.Errorf("failed to clear history: %w", err)
	}
	log.Info().Msg("reading history cleared")
	return NoContent{}, nil
}
