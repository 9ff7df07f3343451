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
	"fmt"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/validation"
)

//nolint:gocritic // single-use parameter in API handler
func HandleSurahs(env RequestEnv) (any, error) {
	c, err := env.corpus()
	if err != nil {
		return nil, err
	}

	resp := models.SurahsResponse{Surahs: make([]models.SurahSummary, 0, len(c.Surahs))}
	for i := range c.Surahs {
		s := &c.Surahs[i]
		resp.Surahs = append(resp.Surahs, models.SurahSummary{
			Number:         s.Number,
			ArabicName:     s.ArabicName,
			EnglishName:    s.EnglishName,
			RevelationType: s.RevelationType,
			TotalVerses:    s.TotalVerses(),
		})
	}
	return resp, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleSurah(env RequestEnv) (any, error) {
	var params models.SurahParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}

	c, err := env.corpus()
	if err != nil {
		return nil, err
	}
	s, ok := c.Surah(params.Number)
	if !ok {
		return nil, fmt.Errorf("%w: surah %d", ErrNotFound, params.Number)
	}
	return s, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleVerse(env RequestEnv) (any, error) {
	var params models.VerseParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}

	c, err := env.corpus()
	if err != nil {
		return nil, err
	}
	v, ok := c.Verse(params.Surah, params.Verse)
	if !ok {
		return nil, fmt.Errorf("%w: verse %d:%d", ErrNotFound, params.Surah, params.Verse)
	}
	return v, nil
}
