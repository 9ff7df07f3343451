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

// Package history stores the reader's last position and a log of searches
// in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

var (
	ErrNullSQL      = errors.New("history database is not connected")
	ErrNotFound     = errors.New("no last read position")
	ErrInvalidVerse = errors.New("invalid verse reference")
	ErrEmptyQuery   = errors.New("empty search query")
)

const (
	sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

	DefaultPageSize = 25
	MaxPageSize     = 100
	maxSearchID     = 1<<63 - 1

	cleanupInterval = 24 * time.Hour
	surahCount      = 114
)

// LastRead is the verse the reader last opened.
type LastRead struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Surah     int       `json:"surah"`
	Verse     int       `json:"verse"`
}

// SearchEntry is one logged search.
type SearchEntry struct {
	Time     time.Time `json:"time"`
	Query    string    `json:"query"`
	Language string    `json:"language"`
	Mode     string    `json:"mode"`
	ID       int64     `json:"id"`
	Results  int       `json:"results"`
}

type DB struct {
	sql   *sql.DB
	clock clockwork.Clock
}

type Option func(*DB)

func WithClock(c clockwork.Clock) Option {
	return func(db *DB) {
		db.clock = c
	}
}

func newDB(sqlDB *sql.DB, opts ...Option) *DB {
	db := &DB{sql: sqlDB, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Open opens or creates the database at path and applies pending
// migrations.
func Open(path string, opts ...Option) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}
	sqlDB, err := sql.Open("sqlite3", path+sqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := migrateUp(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	log.Info().Str("path", path).Msg("opened history database")
	return newDB(sqlDB, opts...), nil
}

func (db *DB) Close() error {
	if db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetLastRead records surah:verse as the current reading position.
func (db *DB) SetLastRead(ctx context.Context, surah, verse int) (LastRead, error) {
	if db.sql == nil {
		return LastRead{}, ErrNullSQL
	}
	if surah < 1 || surah > surahCount || verse < 1 {
		return LastRead{}, fmt.Errorf("%w: %d:%d", ErrInvalidVerse, surah, verse)
	}
	lr := LastRead{
		Surah:     surah,
		Verse:     verse,
		UpdatedAt: db.clock.Now().UTC().Truncate(time.Second),
	}
	return lr, sqlSetLastRead(ctx, db.sql, lr)
}

// LastRead returns the saved reading position, or ErrNotFound.
func (db *DB) LastRead(ctx context.Context) (LastRead, error) {
	if db.sql == nil {
		return LastRead{}, ErrNullSQL
	}
	return sqlGetLastRead(ctx, db.sql)
}

// AddSearch logs a search and returns the stored entry.
func (db *DB) AddSearch(ctx context.Context, query, language, mode string, results int) (SearchEntry, error) {
	if db.sql == nil {
		return SearchEntry{}, ErrNullSQL
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchEntry{}, ErrEmptyQuery
	}
	e := SearchEntry{
		Time:     db.clock.Now().UTC().Truncate(time.Second),
		Query:    query,
		Language: language,
		Mode:     mode,
		Results:  results,
	}
	id, err := sqlAddSearch(ctx, db.sql, e)
	if err != nil {
		return SearchEntry{}, err
	}
	e.ID = id
	return e, nil
}

// Searches returns up to limit entries older than lastID, newest first.
// Pass the ID of the last entry of a page to fetch the next one.
func (db *DB) Searches(ctx context.Context, lastID int64, limit int) ([]SearchEntry, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return sqlGetSearches(ctx, db.sql, lastID, limit)
}

// Cleanup deletes search log entries older than retentionDays. Zero or less
// keeps everything.
func (db *DB) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := db.clock.Now().AddDate(0, 0, -retentionDays)
	n, err := sqlCleanupSearches(ctx, db.sql, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("removed", n).Int("retention_days", retentionDays).Msg("cleaned up search log")
	}
	return n, nil
}

// StartCleanup runs Cleanup once and then daily until ctx is cancelled.
func (db *DB) StartCleanup(ctx context.Context, retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	go func() {
		ticker := db.clock.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			if _, err := db.Cleanup(ctx, retentionDays); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("failed to clean up search log")
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
			}
		}
	}()
}

// Truncate removes all history.
func (db *DB) Truncate(ctx context.Context) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(ctx, db.sql)
}
