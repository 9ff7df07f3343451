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

package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

var AppVersion = "DEVELOPMENT"

const (
	AppName           = "quran-luganda"
	CfgFile           = "config.toml"
	LogFile           = "quran.log"
	LogsDir           = "logs"
	BookmarksDbFile   = "bookmarks.db"
	HistoryDbFile     = "history.db"
	APIRequestTimeout = 30 * time.Second
)

// DefaultConfigDir is the per-user directory holding config.toml.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultDataDir is the per-user directory holding the corpus sources and
// the bookmarks database.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultLogDir is where rotated log files are written.
func DefaultLogDir() string {
	return filepath.Join(xdg.DataHome, AppName, LogsDir)
}
