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

package bookmarks

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, clock clockwork.Clock) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bookmarks.db"), WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})
	return s
}

func TestPutAndGet(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	s := openStore(t, clock)

	ref := VerseRef{Surah: 2, Verse: 255}
	b, err := s.Put(ref, "teal")
	require.NoError(t, err)
	assert.Equal(t, "teal", b.Color)
	assert.Equal(t, clock.Now(), b.CreatedAt)

	got, err := s.Get(ref)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = s.Get(VerseRef{Surah: 2, Verse: 1})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPut_ReplaceKeepsCreatedAt(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	s := openStore(t, clock)

	ref := VerseRef{Surah: 1, Verse: 1}
	first, err := s.Put(ref, "red")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	second, err := s.Put(ref, "")
	require.NoError(t, err)
	assert.Empty(t, second.Color)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	all, err := s.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPut_Invalid(t *testing.T) {
	t.Parallel()

	s := openStore(t, clockwork.NewFakeClock())

	_, err := s.Put(VerseRef{Surah: 1, Verse: 1}, "magenta")
	require.ErrorIs(t, err, ErrInvalidColor)

	_, err = s.Put(VerseRef{Surah: 0, Verse: 1}, "red")
	require.ErrorIs(t, err, ErrInvalidVerse)

	_, err = s.Put(VerseRef{Surah: 1, Verse: -3}, "")
	require.ErrorIs(t, err, ErrInvalidVerse)
}

func TestList_NewestFirst(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	s := openStore(t, clock)

	refs := []VerseRef{{Surah: 112, Verse: 1}, {Surah: 1, Verse: 7}, {Surah: 36, Verse: 1}}
	for _, ref := range refs {
		_, err := s.Put(ref, "")
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, refs[2], all[0].VerseRef)
	assert.Equal(t, refs[1], all[1].VerseRef)
	assert.Equal(t, refs[0], all[2].VerseRef)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	s := openStore(t, clockwork.NewFakeClock())
	ref := VerseRef{Surah: 3, Verse: 4}

	_, err := s.Put(ref, "blue")
	require.NoError(t, err)
	require.NoError(t, s.Remove(ref))

	_, err = s.Get(ref)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Remove(ref), ErrNotFound)
}

func TestInSurah(t *testing.T) {
	t.Parallel()

	s := openStore(t, clockwork.NewFakeClock())
	for _, ref := range []VerseRef{
		{Surah: 2, Verse: 10},
		{Surah: 2, Verse: 2},
		{Surah: 20, Verse: 1},
		{Surah: 1, Verse: 2},
	} {
		_, err := s.Put(ref, "")
		require.NoError(t, err)
	}

	bms, err := s.InSurah(2)
	require.NoError(t, err)
	require.Len(t, bms, 2)
	assert.Equal(t, 2, bms[0].Verse)
	assert.Equal(t, 10, bms[1].Verse)

	bms, err = s.InSurah(99)
	require.NoError(t, err)
	assert.Empty(t, bms)
}

func TestCollections(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	s := openStore(t, clock)

	c, err := s.CreateCollection("Patience", "peach")
	require.NoError(t, err)
	_, err = uuid.Parse(c.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Verses)

	clock.Advance(time.Second)
	other, err := s.CreateCollection("Mercy", "green")
	require.NoError(t, err)

	ref := VerseRef{Surah: 2, Verse: 153}
	c, err = s.AddToCollection(c.ID, ref)
	require.NoError(t, err)
	c, err = s.AddToCollection(c.ID, ref)
	require.NoError(t, err)
	assert.Equal(t, []VerseRef{ref}, c.Verses)

	all, err := s.Collections()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Patience", all[0].Name)
	assert.Equal(t, other.ID, all[1].ID)

	c, err = s.RemoveFromCollection(c.ID, ref)
	require.NoError(t, err)
	assert.Empty(t, c.Verses)

	_, err = s.RemoveFromCollection(c.ID, ref)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteCollection(c.ID))
	_, err = s.Collection(c.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteCollection(c.ID), ErrNotFound)
}

func TestCollections_Invalid(t *testing.T) {
	t.Parallel()

	s := openStore(t, clockwork.NewFakeClock())

	_, err := s.CreateCollection("", "green")
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = s.CreateCollection("Faith", "lime")
	require.ErrorIs(t, err, ErrInvalidColor)

	_, err = s.AddToCollection("missing", VerseRef{Surah: 1, Verse: 1})
	require.ErrorIs(t, err, ErrNotFound)

	c, err := s.CreateCollection("Faith", "blue")
	require.NoError(t, err)
	_, err = s.AddToCollection(c.ID, VerseRef{})
	require.ErrorIs(t, err, ErrInvalidVerse)
}

func TestReopenPersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bookmarks.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Put(VerseRef{Surah: 18, Verse: 10}, "purple")
	require.NoError(t, err)
	c, err := s.CreateCollection("Night", "blue")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	b, err := s.Get(VerseRef{Surah: 18, Verse: 10})
	require.NoError(t, err)
	assert.Equal(t, "purple", b.Color)

	got, err := s.Collection(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Night", got.Name)
}
