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

// Package bookmarks persists verse bookmarks and named collections of verses
// in a bbolt database.
package bookmarks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketBookmarks   = "bookmarks"
	BucketCollections = "collections"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidColor = errors.New("invalid color")
	ErrInvalidVerse = errors.New("invalid verse reference")
	ErrInvalidName  = errors.New("collection name is required")
)

// BookmarkColors are the marker colors a bookmark may carry. A bookmark
// may also have no color.
var BookmarkColors = []string{
	"red", "blue", "yellow", "purple", "green", "orange", "pink", "teal", "lime", "brown",
}

// CollectionColors are the colors a collection may carry.
var CollectionColors = []string{
	"green", "blue", "orange", "purple", "yellow", "peach", "red", "teal", "brown", "pink",
}

// VerseRef identifies a verse.
type VerseRef struct {
	Surah int `json:"surah"`
	Verse int `json:"verse"`
}

func (r VerseRef) valid() bool {
	return r.Surah > 0 && r.Verse > 0
}

// key sorts bookmarks in surah and verse order under a byte-wise cursor.
func (r VerseRef) key() []byte {
	return fmt.Appendf(nil, "%04d:%04d", r.Surah, r.Verse)
}

type Bookmark struct {
	CreatedAt time.Time `json:"createdAt"`
	Color     string    `json:"color,omitempty"`
	VerseRef
}

type Collection struct {
	CreatedAt time.Time  `json:"createdAt"`
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	Verses    []VerseRef `json:"verses"`
}

// Store is a bookmarks database. It is safe for concurrent use.
type Store struct {
	db    *bolt.DB
	clock clockwork.Clock
}

type Option func(*Store)

// WithClock sets the clock used for creation timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// Open opens or creates the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BucketBookmarks, BucketCollections} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close bolt database")
		}
		return nil, fmt.Errorf("failed to initialize bolt database: %w", err)
	}

	s := &Store{db: db, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(s)
	}
	log.Debug().Str("path", path).Msg("opened bookmarks database")
	return s, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	return nil
}

// Put bookmarks a verse, replacing its color if it is already bookmarked.
// The original creation time is kept on replace.
func (s *Store) Put(ref VerseRef, color string) (Bookmark, error) {
	if !ref.valid() {
		return Bookmark{}, fmt.Errorf("%w: %d:%d", ErrInvalidVerse, ref.Surah, ref.Verse)
	}
	if color != "" && !slices.Contains(BookmarkColors, color) {
		return Bookmark{}, fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}

	b := Bookmark{VerseRef: ref, Color: color, CreatedAt: s.clock.Now().UTC()}
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketBookmarks))
		if existing := bucket.Get(ref.key()); existing != nil {
			var prev Bookmark
			if err := json.Unmarshal(existing, &prev); err != nil {
				return fmt.Errorf("failed to unmarshal bookmark: %w", err)
			}
			b.CreatedAt = prev.CreatedAt
		}
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark: %w", err)
		}
		return bucket.Put(ref.key(), data)
	})
	if err != nil {
		return Bookmark{}, fmt.Errorf("failed to save bookmark: %w", err)
	}
	return b, nil
}

// Get returns the bookmark for a verse.
func (s *Store) Get(ref VerseRef) (Bookmark, error) {
	var b Bookmark
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketBookmarks)).Get(ref.key())
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &b)
	})
	if err != nil {
		return Bookmark{}, fmt.Errorf("failed to get bookmark %d:%d: %w", ref.Surah, ref.Verse, err)
	}
	return b, nil
}

// Remove deletes the bookmark for a verse.
func (s *Store) Remove(ref VerseRef) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketBookmarks))
		if bucket.Get(ref.key()) == nil {
			return ErrNotFound
		}
		return bucket.Delete(ref.key())
	})
	if err != nil {
		return fmt.Errorf("failed to remove bookmark %d:%d: %w", ref.Surah, ref.Verse, err)
	}
	return nil
}

// List returns bookmarks newest first; bookmarks created at the same time
// keep surah and verse order.
func (s *Store) List() ([]Bookmark, error) {
	bms := make([]Bookmark, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketBookmarks)).ForEach(func(_, v []byte) error {
			var b Bookmark
			if err := json.Unmarshal(v, &b); err != nil {
				return fmt.Errorf("failed to unmarshal bookmark: %w", err)
			}
			bms = append(bms, b)
			return nil
		})
	})
	if err != nil {
		return bms, fmt.Errorf("failed to view bolt database: %w", err)
	}

	sort.SliceStable(bms, func(i, j int) bool {
		return bms[i].CreatedAt.After(bms[j].CreatedAt)
	})
	return bms, nil
}

// CreateCollection adds an empty collection with a generated id.
func (s *Store) CreateCollection(name, color string) (Collection, error) {
	if name == "" {
		return Collection{}, ErrInvalidName
	}
	if !slices.Contains(CollectionColors, color) {
		return Collection{}, fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}

	c := Collection{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     color,
		Verses:    []VerseRef{},
		CreatedAt: s.clock.Now().UTC(),
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return putCollection(tx, &c)
	})
	if err != nil {
		return Collection{}, fmt.Errorf("failed to create collection: %w", err)
	}
	log.Info().Str("id", c.ID).Str("name", name).Msg("created collection")
	return c, nil
}

func putCollection(tx *bolt.Tx, c *Collection) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}
	return tx.Bucket([]byte(BucketCollections)).Put([]byte(c.ID), data)
}

func getCollection(tx *bolt.Tx, id string) (Collection, error) {
	var c Collection
	data := tx.Bucket([]byte(BucketCollections)).Get([]byte(id))
	if data == nil {
		return c, ErrNotFound
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to unmarshal collection: %w", err)
	}
	return c, nil
}

// Collection returns one collection by id.
func (s *Store) Collection(id string) (Collection, error) {
	var c Collection
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		c, err = getCollection(tx, id)
		return err
	})
	if err != nil {
		return Collection{}, fmt.Errorf("failed to get collection %q: %w", id, err)
	}
	return c, nil
}

// Collections returns all collections, oldest first.
func (s *Store) Collections() ([]Collection, error) {
	cs := make([]Collection, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketCollections)).ForEach(func(_, v []byte) error {
			var c Collection
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("failed to unmarshal collection: %w", err)
			}
			cs = append(cs, c)
			return nil
		})
	})
	if err != nil {
		return cs, fmt.Errorf("failed to view bolt database: %w", err)
	}

	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.Before(cs[j].CreatedAt)
		}
		return cs[i].Name < cs[j].Name
	})
	return cs, nil
}

func (s *Store) updateCollection(id string, fn func(*Collection) error) (Collection, error) {
	var c Collection
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		c, err = getCollection(tx, id)
		if err != nil {
			return err
		}
		if err := fn(&c); err != nil {
			return err
		}
		return putCollection(tx, &c)
	})
	if err != nil {
		return Collection{}, fmt.Errorf("failed to update collection %q: %w", id, err)
	}
	return c, nil
}

// AddToCollection appends a verse to a collection. Adding a verse already
// in the collection changes nothing.
func (s *Store) AddToCollection(id string, ref VerseRef) (Collection, error) {
	if !ref.valid() {
		return Collection{}, fmt.Errorf("%w: %d:%d", ErrInvalidVerse, ref.Surah, ref.Verse)
	}
	return s.updateCollection(id, func(c *Collection) error {
		if !slices.Contains(c.Verses, ref) {
			c.Verses = append(c.Verses, ref)
		}
		return nil
	})
}

// RemoveFromCollection drops a verse from a collection.
func (s *Store) RemoveFromCollection(id string, ref VerseRef) (Collection, error) {
	return s.updateCollection(id, func(c *Collection) error {
		i := slices.Index(c.Verses, ref)
		if i < 0 {
			return ErrNotFound
		}
		c.Verses = slices.Delete(c.Verses, i, i+1)
		return nil
	})
}

// DeleteCollection removes a collection. Bookmarks are not affected.
func (s *Store) DeleteCollection(id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketCollections))
		if bucket.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", id, err)
	}
	return nil
}

// InSurah returns the bookmarks of one surah in verse order.
func (s *Store) InSurah(surah int) ([]Bookmark, error) {
	bms := make([]Bookmark, 0)
	prefix := fmt.Appendf(nil, "%04d:", surah)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(BucketBookmarks)).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var b Bookmark
			if err := json.Unmarshal(v, &b); err != nil {
				return fmt.Errorf("failed to unmarshal bookmark: %w", err)
			}
			bms = append(bms, b)
		}
		return nil
	})
	if err != nil {
		return bms, fmt.Errorf("failed to view bolt database: %w", err)
	}
	return bms, nil
}
