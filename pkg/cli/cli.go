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

// Package cli holds the command line flags, environment setup and result
// printing shared by the quran-search command.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/config"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/helpers"
	"github.com/spf13/afero"
)

var ErrNoAction = errors.New("nothing to do: pass -q, -serve or -api")

type Flags struct {
	Query     *string
	Lang      *string
	Mode      *string
	Format    *string
	Limit     *int
	Serve     *bool
	Watch     *bool
	Remote    *bool
	API       *string
	Version   *bool
	Debug     *bool
	ConfigDir *string
	DataDir   *string
}

// SetupFlags defines the flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Query: fs.String(
			"q",
			"",
			"search query in Arabic, Luganda or English",
		),
		Lang: fs.String(
			"lang",
			"",
			"language to search: all, arabic, luganda or english (default from config)",
		),
		Mode: fs.String(
			"mode",
			"",
			"match mode: similar or exact (default from config)",
		),
		Format: fs.String(
			"format",
			string(FormatText),
			"output format: text, json, csv or yaml",
		),
		Limit: fs.Int(
			"limit",
			0,
			"print at most this many results (0 for all)",
		),
		Serve: fs.Bool(
			"serve",
			false,
			"run the HTTP and websocket API",
		),
		Watch: fs.Bool(
			"watch",
			false,
			"with -serve, reload the corpus when source files change",
		),
		Remote: fs.Bool(
			"remote",
			false,
			"send -q to a running server instead of searching locally",
		),
		API: fs.String(
			"api",
			"",
			"send method:params to a running server and print the response",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
		ConfigDir: fs.String(
			"config-dir",
			config.DefaultConfigDir(),
			"directory holding config.toml",
		),
		DataDir: fs.String(
			"data-dir",
			config.DefaultDataDir(),
			"directory holding corpus sources and bookmarks",
		),
	}
}

// Pre parses args and handles flags that need no environment. It reports
// whether the program should exit.
func (f *Flags) Pre(fs *flag.FlagSet, args []string, out io.Writer) (bool, error) {
	if err := fs.Parse(args); err != nil {
		return true, fmt.Errorf("failed to parse flags: %w", err)
	}
	if *f.Version {
		_, _ = fmt.Fprintf(out, "Quran Luganda Ahmadiyya search v%s\n", config.AppVersion)
		return true, nil
	}
	if _, err := ParseFormat(*f.Format); err != nil {
		return true, err
	}
	if *f.Query == "" && !*f.Serve && *f.API == "" {
		return true, ErrNoAction
	}
	return false, nil
}

// SplitAPI splits a -api value "method:params" into its parts.
func SplitAPI(value string) (method, params string) {
	method, params, _ = strings.Cut(value, ":")
	return method, params
}

// Setup creates the directories, starts logging and loads the config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	fs afero.Fs,
	f *Flags,
	defaultConfig config.Values,
	writers []io.Writer,
) (*config.Instance, error) {
	logDir := config.DefaultLogDir()
	for _, dir := range []string{*f.ConfigDir, *f.DataDir, logDir} {
		if err := fs.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := helpers.InitLogging(logDir, config.LogFile, writers...); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.NewConfig(fs, *f.ConfigDir, *f.DataDir, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	helpers.SetLogLevel(cfg.DebugLogging() || *f.Debug)
	return cfg, nil
}
