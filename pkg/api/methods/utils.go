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
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/config"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/corpus"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/search"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleVersion(_ RequestEnv) (any, error) {
	log.Info().Msg("received version request")
	return models.VersionResponse{Version: config.AppVersion}, nil
}

// Health reports the loader and searcher state without triggering a load.
func Health(l *corpus.Loader, s *search.Searcher) models.HealthResponse {
	resp := models.HealthResponse{
		Status:         "ok",
		Corpus:         l.State().String(),
		Version:        config.AppVersion,
		PreservedMarks: make([]string, 0, 3),
	}
	if s != nil {
		for _, r := range s.PreservedMarks() {
			resp.PreservedMarks = append(resp.PreservedMarks, fmt.Sprintf("U+%04X", r))
		}
		resp.CachedPatterns = s.CachedPatterns()
	}
	if c, ok := l.Corpus(); ok {
		resp.Verses = c.VerseCount()
		loadedAt := l.LoadedAt()
		resp.LoadedAt = &loadedAt
	}
	return resp
}

// HandleCorpusReload drops the cached corpus and loads it again.
//
//nolint:gocritic // single-use parameter in API handler
func HandleCorpusReload(env RequestEnv) (any, error) {
	log.Info().Msg("received corpus reload request")
	if !env.Loader.Reset() {
		log.Debug().Msg("corpus load in flight, reloading after it finishes")
		if _, err := env.Loader.Load(env.ctx()); err != nil {
			log.Debug().Err(err).Msg("stale corpus load failed")
		}
	}
	if _, err := env.corpus(); err != nil {
		return nil, err
	}
	env.notify(models.NotificationCorpusReloaded, models.CorpusReloadedNotification{})
	return Health(env.Loader, env.Searcher), nil
}
