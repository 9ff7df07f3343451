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
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

func closeStmt(stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql statement")
	}
}

func sqlSetLastRead(ctx context.Context, db *sql.DB, lr LastRead) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into LastRead(ID, Surah, Verse, UpdatedAt)
		values (1, ?, ?, ?)
		on conflict(ID) do update set
			Surah = excluded.Surah,
			Verse = excluded.Verse,
			UpdatedAt = excluded.UpdatedAt;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare last read statement: %w", err)
	}
	defer closeStmt(stmt)

	if _, err := stmt.ExecContext(ctx, lr.Surah, lr.Verse, lr.UpdatedAt.Unix()); err != nil {
		return fmt.Errorf("failed to save last read position: %w", err)
	}
	return nil
}

func sqlGetLastRead(ctx context.Context, db *sql.DB) (LastRead, error) {
	var lr LastRead
	var updatedAt int64
	err := db.QueryRowContext(ctx, `
		select Surah, Verse, UpdatedAt from LastRead where ID = 1;
	`).Scan(&lr.Surah, &lr.Verse, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return lr, ErrNotFound
	} else if err != nil {
		return lr, fmt.Errorf("failed to query last read position: %w", err)
	}
	lr.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return lr, nil
}

func sqlAddSearch(ctx context.Context, db *sql.DB, entry SearchEntry) (int64, error) {
	stmt, err := db.PrepareContext(ctx, `
		insert into SearchLog(Time, Query, Language, Mode, Results)
		values (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare search log statement: %w", err)
	}
	defer closeStmt(stmt)

	res, err := stmt.ExecContext(ctx,
		entry.Time.Unix(),
		entry.Query,
		entry.Language,
		entry.Mode,
		entry.Results,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert search log entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get search log entry id: %w", err)
	}
	return id, nil
}

// sqlGetSearches pages backwards from lastID, newest first. A lastID of
// zero starts from the most recent entry.
func sqlGetSearches(ctx context.Context, db *sql.DB, lastID int64, limit int) ([]SearchEntry, error) {
	list := make([]SearchEntry, 0, limit)
	if lastID <= 0 {
		lastID = maxSearchID
	}

	stmt, err := db.PrepareContext(ctx, `
		select DBID, Time, Query, Language, Mode, Results
		from SearchLog
		where DBID < ?
		order by DBID desc
		limit ?;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare search log query: %w", err)
	}
	defer closeStmt(stmt)

	rows, err := stmt.QueryContext(ctx, lastID, limit)
	if err != nil {
		return list, fmt.Errorf("failed to query search log: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	for rows.Next() {
		var e SearchEntry
		var ts int64
		if err := rows.Scan(&e.ID, &ts, &e.Query, &e.Language, &e.Mode, &e.Results); err != nil {
			return list, fmt.Errorf("failed to scan search log entry: %w", err)
		}
		e.Time = time.Unix(ts, 0).UTC()
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("failed to iterate search log: %w", err)
	}
	return list, nil
}

func sqlCleanupSearches(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	stmt, err := db.PrepareContext(ctx, `delete from SearchLog where Time < ?;`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare search log cleanup: %w", err)
	}
	defer closeStmt(stmt)

	res, err := stmt.ExecContext(ctx, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to clean up search log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count removed search log entries: %w", err)
	}
	return n, nil
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		delete from LastRead;
		delete from SearchLog;
		vacuum;
	`)
	if err != nil {
		return fmt.Errorf("failed to truncate history: %w", err)
	}
	return nil
}
