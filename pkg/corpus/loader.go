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

package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/helpers/syncutil"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/normalize"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// ErrLoaderFailed wraps every error returned from a failed load attempt.
var ErrLoaderFailed = errors.New("corpus load failed")

// State is the lifecycle position of a Loader.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sources are the paths of the three JSON files on the loader's filesystem.
type Sources struct {
	Arabic  string
	Luganda string
	English string
}

type attempt struct {
	done   chan struct{}
	corpus *Corpus
	err    error
}

func (a *attempt) wait(ctx context.Context) (*Corpus, error) {
	select {
	case <-a.done:
		if a.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoaderFailed, a.err)
		}
		return a.corpus, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for corpus: %w", ctx.Err())
	}
}

// Loader loads the corpus once and shares the result with every caller.
//
// The first Load moves the loader from idle to loading and reads the sources;
// concurrent callers wait on the same attempt. Success moves it to ready and
// later calls return the cached corpus without touching the filesystem. A
// failure moves it to failed, and the next Load starts a fresh attempt. A
// Reset during an attempt marks it stale: its callers still get the result,
// but the loader goes back to idle instead of caching it.
type Loader struct {
	loadedAt time.Time
	fs       afero.Fs
	clock    clockwork.Clock
	norm     *normalize.Normalizer
	inflight *attempt
	corpus   *Corpus
	err      error
	sources  Sources
	state    State
	stale    bool
	mu       syncutil.Mutex
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithClock sets the clock used for load timestamps.
func WithClock(c clockwork.Clock) LoaderOption {
	return func(l *Loader) {
		l.clock = c
	}
}

// WithNormalizer sets the Arabic normalizer used for the cached fields. It
// must match the one used to build search patterns.
func WithNormalizer(n *normalize.Normalizer) LoaderOption {
	return func(l *Loader) {
		l.norm = n
	}
}

// NewLoader creates an idle loader reading from fs.
func NewLoader(fs afero.Fs, sources Sources, opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:      fs,
		sources: sources,
		clock:   clockwork.NewRealClock(),
		norm:    normalize.Default,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the corpus, reading it on first use. ctx bounds how long this
// caller waits; it also cancels the read when this caller owns the attempt.
func (l *Loader) Load(ctx context.Context) (*Corpus, error) {
	l.mu.Lock()
	switch l.state {
	case StateReady:
		c := l.corpus
		l.mu.Unlock()
		return c, nil
	case StateLoading:
		a := l.inflight
		l.mu.Unlock()
		return a.wait(ctx)
	case StateIdle, StateFailed:
	}

	a := &attempt{done: make(chan struct{})}
	l.state = StateLoading
	l.inflight = a
	l.mu.Unlock()

	start := l.clock.Now()
	c, err := l.read(ctx)

	l.mu.Lock()
	a.corpus, a.err = c, err
	l.inflight = nil
	stale := l.stale
	l.stale = false
	switch {
	case err != nil:
		l.state = StateFailed
		l.err = err
	case stale:
		l.state = StateIdle
	default:
		l.state = StateReady
		l.corpus = c
		l.err = nil
		l.loadedAt = l.clock.Now()
	}
	close(a.done)
	l.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("failed to load corpus")
		return nil, fmt.Errorf("%w: %w", ErrLoaderFailed, err)
	}

	if stale {
		log.Info().Msg("corpus sources changed during load, result not cached")
		return c, nil
	}

	log.Info().
		Int("surahs", len(c.Surahs)).
		Int("verses", c.VerseCount()).
		Dur("took", l.clock.Since(start)).
		Msg("corpus loaded")
	return c, nil
}

// Reset discards a cached corpus or failure and returns the loader to idle.
// While an attempt is in flight it marks that attempt stale instead and
// returns false; the loader goes idle once the attempt finishes.
func (l *Loader) Reset() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateLoading {
		l.stale = true
		return false
	}
	l.state = StateIdle
	l.corpus = nil
	l.err = nil
	l.loadedAt = time.Time{}
	return true
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error of the last failed attempt, if the loader is in the
// failed state.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// LoadedAt returns when the cached corpus finished loading, or the zero time.
func (l *Loader) LoadedAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadedAt
}

// Corpus returns the cached corpus without blocking.
func (l *Loader) Corpus() (*Corpus, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.corpus, l.state == StateReady
}

func (l *Loader) read(ctx context.Context) (*Corpus, error) {
	var (
		arabic  []ArabicVerse
		luganda []TranslationVerse
		english []TranslationVerse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		arabic, err = readSource(gctx, l.fs, l.sources.Arabic, DecodeArabic)
		return err
	})
	g.Go(func() error {
		var err error
		luganda, err = readSource(gctx, l.fs, l.sources.Luganda, DecodeTranslation)
		return err
	})
	g.Go(func() error {
		var err error
		english, err = readSource(gctx, l.fs, l.sources.English, DecodeTranslation)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // readSource already wraps
	}

	return Join(l.norm, arabic, luganda, english)
}

func readSource[T any](
	ctx context.Context,
	fs afero.Fs,
	path string,
	decode func(io.Reader) ([]T, error),
) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", path).Msg("failed to close source")
		}
	}()

	verses, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("verses", len(verses)).Msg("read corpus source")
	return verses, nil
}
