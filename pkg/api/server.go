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

// Package api serves verse search, highlighting and bookmarks over HTTP,
// as REST routes and as JSON-RPC on a websocket.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/methods"
	apimiddleware "github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/middleware"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/validation"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/bookmarks"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/config"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/corpus"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/history"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/search"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

const (
	WebSocketPath = "/ws"

	notificationQueueSize = 32
	maxBodyBytes          = 1 << 16
	shutdownTimeout       = 5 * time.Second
)

// Server wires the corpus, searcher and bookmarks store to HTTP.
type Server struct {
	cfg           *config.Instance
	loader        *corpus.Loader
	searcher      *search.Searcher
	store         *bookmarks.Store
	history       *history.DB
	limiter       *apimiddleware.IPRateLimiter
	ws            *melody.Melody
	notifications chan models.Notification
}

// ServerOption configures optional server features.
type ServerOption func(*Server)

// WithHistory enables the reading history routes and search logging.
func WithHistory(h *history.DB) ServerOption {
	return func(s *Server) {
		s.history = h
	}
}

// NewServer creates a server. store may be nil, in which case the bookmark
// routes answer 503. The history routes answer 503 unless WithHistory is
// given.
func NewServer(
	cfg *config.Instance,
	loader *corpus.Loader,
	searcher *search.Searcher,
	store *bookmarks.Store,
	clock clockwork.Clock,
	opts ...ServerOption,
) *Server {
	perSecond, burst := cfg.RateLimit()
	s := &Server{
		cfg:           cfg,
		loader:        loader,
		searcher:      searcher,
		store:         store,
		limiter:       apimiddleware.NewIPRateLimiter(perSecond, burst, clock),
		ws:            melody.New(),
		notifications: make(chan models.Notification, notificationQueueSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ws.Upgrader.CheckOrigin = s.checkOrigin
	s.ws.HandleMessage(apimiddleware.WebSocketRateLimitHandler(s.limiter, s.handleWSMessage))
	return s
}

func (s *Server) env(ctx context.Context, params json.RawMessage) methods.RequestEnv {
	return methods.RequestEnv{
		Context:       ctx,
		Config:        s.cfg,
		Loader:        s.loader,
		Searcher:      s.searcher,
		Bookmarks:     s.store,
		History:       s.history,
		Notifications: s.notifications,
		Params:        params,
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	allowed := s.cfg.AllowedOrigins()
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}

// Notify queues a notification for every websocket client. It never
// blocks; a full queue drops the notification.
func (s *Server) Notify(method string, params any) {
	select {
	case s.notifications <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification queue full, dropping")
	}
}

// CorpusChanged is a corpus watcher hook announcing the reset to clients.
func (s *Server) CorpusChanged(path string) {
	s.Notify(models.NotificationCorpusReloaded, models.CorpusReloadedNotification{File: path})
}

// StartWorkers runs the notification broadcaster and rate limiter cleanup
// until ctx is cancelled.
func (s *Server) StartWorkers(ctx context.Context) {
	s.limiter.StartCleanup(ctx)
	go s.broadcastNotifications(ctx)
}

func (s *Server) broadcastNotifications(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("stopping notification broadcaster")
			return
		case notif := <-s.notifications:
			params, err := json.Marshal(notif.Params)
			if err != nil {
				log.Error().Err(err).Msg("failed to marshal notification params")
				continue
			}
			data, err := json.Marshal(models.RequestObject{
				JSONRPC: "2.0",
				Method:  notif.Method,
				Params:  params,
			})
			if err != nil {
				log.Error().Err(err).Msg("failed to marshal notification")
				continue
			}
			if err := s.ws.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("failed to broadcast notification")
			}
		}
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.RequestID)
	r.Use(apimiddleware.HTTPRateLimitMiddleware(s.limiter))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type", apimiddleware.RequestIDHeader},
		ExposedHeaders: []string{apimiddleware.RequestIDHeader},
	}))

	r.Get(WebSocketPath, func(w http.ResponseWriter, r *http.Request) {
		if err := s.ws.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("failed to handle websocket request")
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.NoCache)
		r.Use(middleware.Timeout(config.APIRequestTimeout))

		r.Get("/health", s.handleHealth)
		r.Get("/version", s.rest(methods.HandleVersion, noParams))
		r.Get("/search", s.rest(methods.HandleSearch, searchParams))
		r.Get("/highlight", s.rest(methods.HandleHighlight, highlightParams))
		r.Get("/surahs", s.rest(methods.HandleSurahs, noParams))
		r.Get("/surahs/{surah}", s.rest(methods.HandleSurah, surahParams))
		r.Get("/surahs/{surah}/verses/{verse}", s.rest(methods.HandleVerse, verseParams))
		r.Get("/surahs/{surah}/bookmarks", s.rest(methods.HandleSurahBookmarks, surahParams))
		r.Post("/corpus/reload", s.rest(methods.HandleCorpusReload, noParams))

		r.Get("/bookmarks", s.rest(methods.HandleBookmarks, noParams))
		r.Put("/bookmarks/{surah}/{verse}", s.rest(methods.HandleBookmarksPut, bookmarkParams))
		r.Delete("/bookmarks/{surah}/{verse}", s.rest(methods.HandleBookmarksDelete, verseParams))

		r.Get("/collections", s.rest(methods.HandleCollections, noParams))
		r.Post("/collections", s.rest(methods.HandleCollectionsNew, bodyParams))
		r.Delete("/collections/{id}", s.rest(methods.HandleCollectionsDelete, collectionParams))
		r.Put("/collections/{id}/verses/{surah}/{verse}", s.rest(methods.HandleCollectionsAdd, collectionVerseParams))
		r.Delete("/collections/{id}/verses/{surah}/{verse}", s.rest(methods.HandleCollectionsRemove, collectionVerseParams))

		r.Get("/history/last-read", s.rest(methods.HandleLastRead, noParams))
		r.Put("/history/last-read/{surah}/{verse}", s.rest(methods.HandleLastReadSet, verseParams))
		r.Get("/history/searches", s.rest(methods.HandleSearchHistory, searchHistoryParams))
		r.Delete("/history", s.rest(methods.HandleHistoryClear, noParams))
	})

	return r
}

// ListenAndServe serves on the configured port until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := ":" + strconv.Itoa(s.cfg.APIPort())
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.StartWorkers(ctx)

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("starting http server")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	if err := s.ws.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close websocket sessions")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server stopped: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, methods.Health(s.loader, s.searcher))
}

// errorFor maps a method error to an HTTP status and JSON-RPC error.
func errorFor(err error) (int, models.ErrorObject) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve),
		errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams),
		errors.Is(err, errBadPathParam),
		errors.Is(err, bookmarks.ErrInvalidColor),
		errors.Is(err, bookmarks.ErrInvalidVerse),
		errors.Is(err, bookmarks.ErrInvalidName),
		errors.Is(err, history.ErrInvalidVerse):
		return http.StatusBadRequest, models.ErrorObject{
			Code:    models.ErrorInvalidParams.Code,
			Message: models.ErrorInvalidParams.Message + ": " + err.Error(),
		}
	case errors.Is(err, methods.ErrNotFound),
		errors.Is(err, bookmarks.ErrNotFound),
		errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound, models.ErrorObject{
			Code:    models.ErrorNotFound.Code,
			Message: err.Error(),
		}
	case errors.Is(err, corpus.ErrLoaderFailed),
		errors.Is(err, methods.ErrBookmarksDisabled),
		errors.Is(err, methods.ErrHistoryDisabled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, models.ErrorObject{
			Code:    models.ErrorUnavailable.Code,
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, models.ErrorInternal
	}
}
