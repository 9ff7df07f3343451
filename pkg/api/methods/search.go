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
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/validation"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/normalize"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/search"
	"github.com/rs/zerolog/log"
)

func (env *RequestEnv) mode(s string) search.Mode {
	if m, err := search.ParseMode(s); err == nil {
		return m
	}
	if env.Config != nil {
		return env.Config.DefaultMode()
	}
	return search.ModeExact
}

func (env *RequestEnv) language(s string) search.Language {
	if l, err := search.ParseLanguage(s); err == nil {
		return l
	}
	if env.Config != nil {
		return env.Config.DefaultLanguage()
	}
	return search.LanguageAll
}

//nolint:gocritic // single-use parameter in API handler
func HandleSearch(env RequestEnv) (any, error) {
	var params models.SearchParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}

	c, err := env.corpus()
	if err != nil {
		return nil, err
	}

	lang := env.language(params.Language)
	mode := env.mode(params.Mode)
	script := normalize.DetectScript(params.Query)
	matches := env.Searcher.Search(c, params.Query, lang, mode)
	log.Info().
		Str("query", params.Query).
		Stringer("script", script).
		Str("language", string(lang)).
		Str("mode", string(mode)).
		Int("results", len(matches)).
		Msg("received search request")
	env.logSearch(params.Query, string(lang), string(mode), len(matches))

	resp := models.SearchResponse{
		Query:    params.Query,
		Script:   script.String(),
		Language: string(lang),
		Mode:     string(mode),
		Total:    len(matches),
		Results:  make([]models.SearchResult, 0, len(matches)),
	}
	if params.Limit > 0 && len(matches) > params.Limit {
		matches = matches[:params.Limit]
	}
	for i := range matches {
		resp.Results = append(resp.Results, models.SearchResult{
			MatchResult: matches[i],
			Highlighted: env.Searcher.Highlight(matches[i].Text(), params.Query, mode),
		})
	}
	return resp, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleHighlight(env RequestEnv) (any, error) {
	var params models.HighlightParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}
	return models.HighlightResponse{
		Runs: env.Searcher.Highlight(params.Text, params.Query, env.mode(params.Mode)),
	}, nil
}
