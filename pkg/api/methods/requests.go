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

// Package methods implements the API methods. Each handler takes a
// RequestEnv holding the raw JSON params and returns a response model.
package methods

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/bookmarks"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/config"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/corpus"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/history"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/search"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrBookmarksDisabled = errors.New("bookmarks are not available")
	ErrHistoryDisabled   = errors.New("reading history is not available")
)

type RequestEnv struct {
	Context       context.Context
	Config        *config.Instance
	Loader        *corpus.Loader
	Searcher      *search.Searcher
	Bookmarks     *bookmarks.Store
	History       *history.DB
	Notifications chan<- models.Notification
	Params        json.RawMessage
}

// NoContent is returned by methods with nothing to report.
type NoContent struct{}

// Handler is the signature shared by all methods.
type Handler func(RequestEnv) (any, error)

// Map routes JSON-RPC method names to handlers.
var Map = map[string]Handler{
	models.MethodSearch:          HandleSearch,
	models.MethodHighlight:       HandleHighlight,
	models.MethodSurahs:          HandleSurahs,
	models.MethodSurah:           HandleSurah,
	models.MethodVerse:           HandleVerse,
	models.MethodBookmarks:       HandleBookmarks,
	models.MethodBookmarksPut:    HandleBookmarksPut,
	models.MethodBookmarksDelete: HandleBookmarksDelete,
	models.MethodBookmarksSurah:  HandleSurahBookmarks,
	models.MethodCollections:     HandleCollections,
	models.MethodCollectionsNew:  HandleCollectionsNew,
	models.MethodCollectionsAdd:  HandleCollectionsAdd,
	models.MethodCollectionsDrop: HandleCollectionsRemove,
	models.MethodCollectionsDel:  HandleCollectionsDelete,
	models.MethodLastRead:        HandleLastRead,
	models.MethodLastReadSet:     HandleLastReadSet,
	models.MethodSearchHistory:   HandleSearchHistory,
	models.MethodHistoryClear:    HandleHistoryClear,
	models.MethodCorpusReload:    HandleCorpusReload,
	models.MethodVersion:         HandleVersion,
}

func (env *RequestEnv) ctx() context.Context {
	if env.Context == nil {
		return context.Background()
	}
	return env.Context
}

func (env *RequestEnv) corpus() (*corpus.Corpus, error) {
	c, err := env.Loader.Load(env.ctx())
	if err != nil {
		return nil, err //nolint:wrapcheck // loader errors carry ErrLoaderFailed
	}
	return c, nil
}

// notify sends without blocking; a full channel drops the notification.
func (env *RequestEnv) notify(method string, params any) {
	if env.Notifications == nil {
		return
	}
	select {
	case env.Notifications <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification queue full, dropping")
	}
}
