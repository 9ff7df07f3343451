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

package history

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestSqlSetLastRead(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectPrepare(`insert into LastRead.*on conflict`).
		ExpectExec().
		WithArgs(2, 255, testTime.Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := sqlSetLastRead(context.Background(), db, LastRead{Surah: 2, Verse: 255, UpdatedAt: testTime})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlSetLastRead_PrepareError(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectPrepare(`insert into LastRead`).WillReturnError(errors.New("disk I/O error"))

	err := sqlSetLastRead(context.Background(), db, LastRead{Surah: 1, Verse: 1, UpdatedAt: testTime})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to prepare last read statement")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetLastRead(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectQuery(`select Surah, Verse, UpdatedAt from LastRead`).
		WillReturnRows(sqlmock.NewRows([]string{"Surah", "Verse", "UpdatedAt"}).
			AddRow(18, 10, testTime.Unix()))

	lr, err := sqlGetLastRead(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, LastRead{Surah: 18, Verse: 10, UpdatedAt: testTime}, lr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetLastRead_Empty(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectQuery(`select Surah, Verse, UpdatedAt from LastRead`).
		WillReturnRows(sqlmock.NewRows([]string{"Surah", "Verse", "UpdatedAt"}))

	_, err := sqlGetLastRead(context.Background(), db)
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlAddSearch(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	entry := SearchEntry{
		Time:     testTime,
		Query:    "Katonda",
		Language: "luganda",
		Mode:     "similar",
		Results:  12,
	}
	mock.ExpectPrepare(`insert into SearchLog`).
		ExpectExec().
		WithArgs(testTime.Unix(), "Katonda", "luganda", "similar", 12).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := sqlAddSearch(context.Background(), db, entry)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlAddSearch_ExecError(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectPrepare(`insert into SearchLog`).
		ExpectExec().
		WillReturnError(errors.New("database is locked"))

	_, err := sqlAddSearch(context.Background(), db, SearchEntry{Time: testTime, Query: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert search log entry")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetSearches(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	later := testTime.Add(time.Minute)
	mock.ExpectPrepare(`select DBID, Time, Query, Language, Mode, Results.*from SearchLog`).
		ExpectQuery().
		WithArgs(int64(maxSearchID), 2).
		WillReturnRows(sqlmock.NewRows([]string{"DBID", "Time", "Query", "Language", "Mode", "Results"}).
			AddRow(9, later.Unix(), "mercy", "english", "exact", 3).
			AddRow(8, testTime.Unix(), "الله", "arabic", "similar", 40))

	list, err := sqlGetSearches(context.Background(), db, 0, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, SearchEntry{
		ID: 9, Time: later, Query: "mercy", Language: "english", Mode: "exact", Results: 3,
	}, list[0])
	assert.Equal(t, int64(8), list[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlCleanupSearches(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectPrepare(`delete from SearchLog where Time <`).
		ExpectExec().
		WithArgs(testTime.Unix()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := sqlCleanupSearches(context.Background(), db, testTime)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearches_ClampsLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{name: "default", limit: 0, expected: DefaultPageSize},
		{name: "negative", limit: -4, expected: DefaultPageSize},
		{name: "within range", limit: 40, expected: 40},
		{name: "too large", limit: 5000, expected: MaxPageSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sqlDB, mock := newMock(t)
			db := newDB(sqlDB)

			mock.ExpectPrepare(`from SearchLog`).
				ExpectQuery().
				WithArgs(int64(5), tt.expected).
				WillReturnRows(sqlmock.NewRows([]string{"DBID", "Time", "Query", "Language", "Mode", "Results"}))

			list, err := db.Searches(context.Background(), 5, tt.limit)
			require.NoError(t, err)
			assert.Empty(t, list)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMethods_Validation(t *testing.T) {
	t.Parallel()
	sqlDB, mock := newMock(t)
	db := newDB(sqlDB, WithClock(clockwork.NewFakeClockAt(testTime)))
	ctx := context.Background()

	_, err := db.SetLastRead(ctx, 0, 1)
	require.ErrorIs(t, err, ErrInvalidVerse)
	_, err = db.SetLastRead(ctx, 115, 1)
	require.ErrorIs(t, err, ErrInvalidVerse)
	_, err = db.SetLastRead(ctx, 1, 0)
	require.ErrorIs(t, err, ErrInvalidVerse)
	_, err = db.AddSearch(ctx, "  ", "all", "exact", 0)
	require.ErrorIs(t, err, ErrEmptyQuery)

	n, err := db.Cleanup(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMethods_NullSQL(t *testing.T) {
	t.Parallel()
	db := &DB{}
	ctx := context.Background()

	_, err := db.SetLastRead(ctx, 1, 1)
	require.ErrorIs(t, err, ErrNullSQL)
	_, err = db.LastRead(ctx)
	require.ErrorIs(t, err, ErrNullSQL)
	_, err = db.AddSearch(ctx, "q", "all", "exact", 0)
	require.ErrorIs(t, err, ErrNullSQL)
	_, err = db.Searches(ctx, 0, 0)
	require.ErrorIs(t, err, ErrNullSQL)
	_, err = db.Cleanup(ctx, 30)
	require.ErrorIs(t, err, ErrNullSQL)
	require.ErrorIs(t, db.Truncate(ctx), ErrNullSQL)
	require.NoError(t, db.Close())
}
