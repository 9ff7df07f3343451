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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/corpus"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/helpers/syncutil"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/normalize"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/search"
	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	CfgEnv        = "QURAN_CFG"
)

var (
	ErrNoConfigPath   = errors.New("config path not set")
	ErrSchemaMismatch = errors.New("schema version mismatch")
)

type Values struct {
	Corpus       Corpus    `toml:"corpus"`
	Search       Search    `toml:"search"`
	API          API       `toml:"api"`
	Bookmarks    Bookmarks `toml:"bookmarks"`
	History      History   `toml:"history"`
	Telemetry    Telemetry `toml:"telemetry"`
	ConfigSchema int       `toml:"config_schema"`
	DebugLogging bool      `toml:"debug_logging"`
}

type Corpus struct {
	DataDir     string `toml:"data_dir,omitempty"`
	ArabicFile  string `toml:"arabic_file" validate:"required"`
	LugandaFile string `toml:"luganda_file" validate:"required"`
	EnglishFile string `toml:"english_file" validate:"required"`
	Watch       bool   `toml:"watch"`
}

type Search struct {
	DefaultMode     string   `toml:"default_mode" validate:"oneof=similar exact"`
	DefaultLanguage string   `toml:"default_language" validate:"oneof=all arabic luganda english"`
	PreservedMarks  []string `toml:"preserved_marks,multiline"`
	CacheSize       int      `toml:"cache_size" validate:"gte=0"`
}

type API struct {
	AllowedOrigins []string `toml:"allowed_origins,omitempty"`
	Port           int      `toml:"port" validate:"gte=1,lte=65535"`
	InstanceName   string   `toml:"instance_name,omitempty"`
	RateLimit      float64  `toml:"rate_limit" validate:"gte=0"`
	RateBurst      int      `toml:"rate_burst" validate:"gte=0"`
	Discovery      bool     `toml:"discovery"`
}

type Bookmarks struct {
	DbFile string `toml:"db_file,omitempty"`
}

type Telemetry struct {
	ErrorReportingDSN string `toml:"error_reporting_dsn,omitempty" validate:"omitempty,url"`
}

type History struct {
	DbFile        string `toml:"db_file,omitempty"`
	RetentionDays int    `toml:"retention_days" validate:"gte=0"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Corpus: Corpus{
		ArabicFile:  "quran_arabic.json",
		LugandaFile: "quran_luganda.json",
		EnglishFile: "quran_english.json",
	},
	Search: Search{
		DefaultMode:     string(search.ModeExact),
		DefaultLanguage: string(search.LanguageAll),
		PreservedMarks:  []string{"U+06DD", "U+06DE", "U+06E9"},
		CacheSize:       search.DefaultCacheSize,
	},
	API: API{
		Port:           7580,
		AllowedOrigins: []string{"*"},
		RateLimit:      10,
		RateBurst:      20,
	},
	History: History{
		RetentionDays: 90,
	},
}

// clone copies v so decoding into the result never writes through to the
// slices of v.
//
//nolint:gocritic // config struct copied for immutability
func (v Values) clone() Values {
	v.Search.PreservedMarks = slices.Clone(v.Search.PreservedMarks)
	v.API.AllowedOrigins = slices.Clone(v.API.AllowedOrigins)
	return v
}

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	dataDir  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads config.toml from configDir, or from the path in QURAN_CFG
// when set, writing the defaults there first if the file does not exist.
// Relative corpus paths resolve against dataDir.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(fs afero.Fs, configDir, dataDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		dataDir:  dataDir,
		vals:     defaults.clone(),
		defaults: defaults.clone(),
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		log.Info().Str("path", cfgPath).Msg("saving new default config to disk")

		if err := fs.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load rereads the config file. Values missing from the file keep their
// defaults.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return ErrNoConfigPath
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newVals := c.defaults.clone()
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	if err := validateValues(&newVals); err != nil {
		return err
	}
	if _, err := parseMarks(newVals.Search.PreservedMarks); err != nil {
		return err
	}

	c.vals = newVals
	return nil
}

func validateValues(v *Values) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config value %s: failed %q check", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func parseMarks(marks []string) ([]rune, error) {
	out := make([]rune, 0, len(marks))
	for _, m := range marks {
		r, err := normalize.ParseRune(m)
		if err != nil {
			return nil, fmt.Errorf("invalid preserved mark: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Save writes the current values to the config file.
func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return ErrNoConfigPath
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the location of the config file.
func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// DataDir returns the configured data directory, falling back to the one
// given to NewConfig.
func (c *Instance) DataDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Corpus.DataDir != "" {
		return c.vals.Corpus.DataDir
	}
	return c.dataDir
}

func (c *Instance) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir(), name)
}

// CorpusSources returns the three source file paths, relative ones resolved
// against the data directory.
func (c *Instance) CorpusSources() corpus.Sources {
	c.mu.RLock()
	vals := c.vals.Corpus
	c.mu.RUnlock()
	return corpus.Sources{
		Arabic:  c.resolve(vals.ArabicFile),
		Luganda: c.resolve(vals.LugandaFile),
		English: c.resolve(vals.EnglishFile),
	}
}

func (c *Instance) WatchCorpus() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Corpus.Watch
}

func (c *Instance) DefaultMode() search.Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return search.Mode(c.vals.Search.DefaultMode)
}

func (c *Instance) DefaultLanguage() search.Language {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return search.Language(c.vals.Search.DefaultLanguage)
}

// PreservedMarks returns the Arabic marks kept by normalization. Load has
// already rejected unparsable entries.
func (c *Instance) PreservedMarks() []rune {
	c.mu.RLock()
	defer c.mu.RUnlock()
	marks, err := parseMarks(c.vals.Search.PreservedMarks)
	if err != nil {
		log.Warn().Err(err).Msg("using default preserved marks")
		return normalize.DefaultPreserved
	}
	return marks
}

// Normalizer builds the Arabic normalizer for the configured marks.
func (c *Instance) Normalizer() *normalize.Normalizer {
	return normalize.New(c.PreservedMarks())
}

func (c *Instance) SearchCacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Search.CacheSize
}

func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.API.Port
}

func (c *Instance) AllowedOrigins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.vals.API.AllowedOrigins...)
}

// RateLimit returns requests per second and burst per client IP. A zero
// rate disables limiting.
func (c *Instance) RateLimit() (perSecond float64, burst int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.API.RateLimit, c.vals.API.RateBurst
}

// BookmarksPath returns the bookmarks database location.
func (c *Instance) BookmarksPath() string {
	c.mu.RLock()
	name := c.vals.Bookmarks.DbFile
	c.mu.RUnlock()
	if name == "" {
		name = BookmarksDbFile
	}
	return c.resolve(name)
}

// HistoryPath returns the reading history database location.
func (c *Instance) HistoryPath() string {
	c.mu.RLock()
	name := c.vals.History.DbFile
	c.mu.RUnlock()
	if name == "" {
		name = HistoryDbFile
	}
	return c.resolve(name)
}

// HistoryRetentionDays is how long search log entries are kept. Zero keeps
// them forever.
func (c *Instance) HistoryRetentionDays() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.History.RetentionDays
}

// DiscoveryEnabled reports whether the server advertises itself over mDNS.
func (c *Instance) DiscoveryEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.API.Discovery
}

func (c *Instance) DiscoveryInstanceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.API.InstanceName
}

// ErrorReportingDSN is the Sentry DSN errors are reported to. Empty disables
// reporting.
func (c *Instance) ErrorReportingDSN() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Telemetry.ErrorReportingDSN
}
