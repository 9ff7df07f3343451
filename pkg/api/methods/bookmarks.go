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
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/bookmarks"
	"github.com/rs/zerolog/log"
)

func (env *RequestEnv) store() (*bookmarks.Store, error) {
	if env.Bookmarks == nil {
		return nil, ErrBookmarksDisabled
	}
	return env.Bookmarks, nil
}

// verseRef checks the verse exists in the loaded corpus.
func (env *RequestEnv) verseRef(p models.VerseParams) (bookmarks.VerseRef, error) {
	c, err := env.corpus()
	if err != nil {
		return bookmarks.VerseRef{}, err
	}
	if _, ok := c.Verse(p.Surah, p.Verse); !ok {
		return bookmarks.VerseRef{}, fmt.Errorf("%w: verse %d:%d", ErrNotFound, p.Surah, p.Verse)
	}
	return bookmarks.VerseRef{Surah: p.Surah, Verse: p.Verse}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleBookmarks(env RequestEnv) (any, error) {
	s, err := env.store()
	if err != nil {
		return nil, err
	}
	bms, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return models.BookmarksResponse{Bookmarks: bms}, nil
}

// HandleSurahBookmarks lists the bookmarks of one surah in verse order.
//
//nolint:gocritic // single-use parameter in API handler
func HandleSurahBookmarks(env RequestEnv) (any, error) {
	var params models.SurahParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}
	s, err := env.store()
	if err != nil {
		return nil, err
	}
	bms, err := s.InSurah(params.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to list surah bookmarks: %w", err)
	}
	return models.BookmarksResponse{Bookmarks: bms}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleBookmarksPut(env RequestEnv) (any, error) {
	var params models.BookmarkParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}
	s, err := env.store()
	if err != nil {
		return nil, err
	}
	ref, err := env.verseRef(params.VerseParams)
	if err != nil {
		return nil, err
	}

	b, err := s.Put(ref, params.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}
	log.Info().Int("surah", ref.Surah).Int("verse", ref.Verse).Str("color", b.Color).Msg("bookmark saved")
	env.notify(models.NotificationBookmarksChanged, models.BookmarksChangedNotification{
		Action: "put",
		Surah:  ref.Surah,
		Verse:  ref.Verse,
	})
	return b, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleBookmarksDelete(env RequestEnv) (any, error) {
	var params models.VerseParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}
	s, err := env.store()
	if err != nil {
		return nil, err
	}

	ref := bookmarks.VerseRef{Surah: params.Surah, Verse: params.Verse}
	if err := s.Remove(ref); err != nil {
		return nil, fmt.Errorf("failed to remove bookmark: %w", err)
	}
	env.notify(models.NotificationBookmarksChanged, models.BookmarksChangedNotification{
		Action: "delete",
		Surah:  ref.Surah,
		Verse:  ref.Verse,
	})
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleCollections(env RequestEnv) (any, error) {
	s, err := env.store()
	if err != nil {
		return nil, err
	}
	cs, err := s.Collections()
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return models.CollectionsResponse{Collections: cs}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleCollectionsNew(env RequestEnv) (any, error) {
	var params models.NewCollectionParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}
	s, err := env.store()
	if err != nil {
		return nil, err
	}
	c, err := s.CreateCollection(params.Name, params.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	env.notify(models.NotificationBookmarksChanged, models.BookmarksChangedNotification{Action: "collection"})
	return c, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleCollectionsAdd(env RequestEnv) (any, error) {
	var params models.CollectionVerseParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}
	s, err := env.store()
	if err != nil {
		return nil, err
	}
	ref, err := env.verseRef(params.VerseParams)
	if err != nil {
		return nil, err
	}
	c, err := s.AddToCollection(params.ID, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to add to collection: %w", err)
	}
	env.notify(models.NotificationBookmarksChanged, models.BookmarksChangedNotification{Action: "collection"})
	return c, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleCollectionsRemove(env RequestEnv) (any, error) {
	var params models.CollectionVerseParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}
	s, err := env.store()
	if err != nil {
		return nil, err
	}
	c, err := s.RemoveFromCollection(params.ID, bookmarks.VerseRef{Surah: params.Surah, Verse: params.Verse})
	if err != nil {
		return nil, fmt.Errorf("failed to remove from collection: %w", err)
	}
	env.notify(models.NotificationBookmarksChanged, models.BookmarksChangedNotification{Action: "collection"})
	return c, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleCollectionsDelete(env RequestEnv) (any, error) {
	var params models.CollectionParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err //nolint:wrapcheck // validation errors are returned as-is
	}
	s, err := env.store()
	if err != nil {
		return nil, err
	}
	if err := s.DeleteCollection(params.ID); err != nil {
		return nil, fmt.Errorf("failed to delete collection: %w", err)
	}
	env.notify(models.NotificationBookmarksChanged, models.BookmarksChangedNotification{Action: "collection"})
	return NoContent{}, nil
}
