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

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/methods"
	apimiddleware "github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/middleware"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/validation"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var errBadPathParam = errors.New("invalid path parameter")

// paramsFunc turns a REST request into the JSON params of a method.
type paramsFunc func(*http.Request) (any, error)

type errorResponse struct {
	Error     string                  `json:"error"`
	RequestID string                  `json:"requestId,omitempty"`
	Fields    []validation.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, obj := errorFor(err)
	resp := errorResponse{
		Error:     obj.Message,
		RequestID: apimiddleware.GetRequestID(r.Context()),
	}
	var ve *validation.Error
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", resp.RequestID).Msg("request failed")
	}
	writeJSON(w, status, resp)
}

// rest adapts a method to an HTTP handler.
func (s *Server) rest(h methods.Handler, params paramsFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := params(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var raw json.RawMessage
		if p != nil {
			raw, err = json.Marshal(p)
			if err != nil {
				writeError(w, r, err)
				return
			}
		}

		resp, err := h(s.env(r.Context(), raw))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if _, ok := resp.(methods.NoContent); ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadPathParam, name)
	}
	return v, nil
}

func pathVerse(r *http.Request) (models.VerseParams, error) {
	surah, err := pathInt(r, "surah")
	if err != nil {
		return models.VerseParams{}, err
	}
	verse, err := pathInt(r, "verse")
	if err != nil {
		return models.VerseParams{}, err
	}
	return models.VerseParams{Surah: surah, Verse: verse}, nil
}

func noParams(*http.Request) (any, error) {
	return nil, nil //nolint:nilnil // methods without params
}

// bodyParams passes the request body through as the method params.
func bodyParams(r *http.Request) (any, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) == 0 {
		return nil, validation.ErrMissingParams
	}
	if !json.Valid(body) {
		return nil, validation.ErrInvalidParams
	}
	return json.RawMessage(body), nil
}

func searchParams(r *http.Request) (any, error) {
	q := r.URL.Query()
	p := models.SearchParams{
		Query:    q.Get("q"),
		Language: q.Get("lang"),
		Mode:     q.Get("mode"),
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return nil, fmt.Errorf("%w: limit must be a number", validation.ErrInvalidParams)
		}
		p.Limit = n
	}
	return p, nil
}

func highlightParams(r *http.Request) (any, error) {
	q := r.URL.Query()
	return models.HighlightParams{
		Text:  q.Get("text"),
		Query: q.Get("q"),
		Mode:  q.Get("mode"),
	}, nil
}

func surahParams(r *http.Request) (any, error) {
	n, err := pathInt(r, "surah")
	if err != nil {
		return nil, err
	}
	return models.SurahParams{Number: n}, nil
}

func verseParams(r *http.Request) (any, error) {
	return pathVerse(r)
}

// bookmarkParams reads the verse from the path and an optional
// {"color": "..."} body.
func bookmarkParams(r *http.Request) (any, error) {
	v, err := pathVerse(r)
	if err != nil {
		return nil, err
	}
	p := models.BookmarkParams{VerseParams: v}

	var body struct {
		Color string `json:"color"`
	}
	err = json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body)
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, validation.ErrInvalidParams
	default:
		p.Color = body.Color
	}
	return p, nil
}

func collectionParams(r *http.Request) (any, error) {
	return models.CollectionParams{ID: chi.URLParam(r, "id")}, nil
}

func collectionVerseParams(r *http.Request) (any, error) {
	v, err := pathVerse(r)
	if err != nil {
		return nil, err
	}
	return models.CollectionVerseParams{ID: chi.URLParam(r, "id"), VerseParams: v}, nil
}

func searchHistoryParams(r *http.Request) (any, error) {
	q := r.URL.Query()
	var p models.SearchHistoryParams
	if v := q.Get("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: after must be a number", validation.ErrInvalidParams)
		}
		p.LastID = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: limit must be a number", validation.ErrInvalidParams)
		}
		p.Limit = n
	}
	return p, nil
}
