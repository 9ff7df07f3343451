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
	"database/sql"
	"embed"
	"fmt"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/helpers/syncutil"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationDir = "migrations"

// goose keeps its filesystem and dialect in package globals.
var migrationMutex syncutil.Mutex

type gooseLogger struct{}

func (*gooseLogger) Printf(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (*gooseLogger) Fatalf(format string, v ...any) {
	log.Fatal().Msgf(format, v...)
}

func migrateUp(db *sql.DB) error {
	migrationMutex.Lock()
	defer migrationMutex.Unlock()

	goose.SetLogger(&gooseLogger{})
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("error setting goose dialect: %w", err)
	}

	log.Debug().Str("migration_dir", migrationDir).Msg("running history migrations")
	if err := goose.Up(db, migrationDir); err != nil {
		return fmt.Errorf("failed to run history migrations: %w", err)
	}
	return nil
}
