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
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is how long the watcher waits after the last change to a
// source before resetting the loader. Editors often save in several writes.
const DefaultDebounce = 250 * time.Millisecond

// Watcher resets a Loader when one of its source files changes on disk, so
// the next Load picks up the new text. It only makes sense for loaders
// backed by the OS filesystem.
type Watcher struct {
	loader   *Loader
	watcher  *fsnotify.Watcher
	clock    clockwork.Clock
	files    map[string]struct{}
	done     chan struct{}
	onReset  func(path string)
	debounce time.Duration
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period after the last source change.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

func newWatcher(l *Loader, onReset func(path string), opts ...WatchOption) *Watcher {
	w := &Watcher{
		loader:   l,
		clock:    l.clock,
		files:    make(map[string]struct{}, 3),
		done:     make(chan struct{}),
		onReset:  onReset,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, p := range []string{l.sources.Arabic, l.sources.Luganda, l.sources.English} {
		w.files[filepath.Clean(p)] = struct{}{}
	}
	return w
}

// Watch starts watching the directories holding the loader's sources.
// Directories are watched rather than files so editors that replace a file
// by renaming over it are still seen. Changes are debounced on the loader's
// clock. onReset, when not nil, is called from the watcher goroutine after
// each reset with the last changed file.
func Watch(l *Loader, onReset func(path string), opts ...WatchOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := newWatcher(l, onReset, opts...)
	w.watcher = fw

	dirs := make(map[string]struct{}, 3)
	for p := range w.files {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.Debug().Str("dir", dir).Msg("watching corpus sources")
	}

	go w.run(fw.Events, fw.Errors)
	return w, nil
}

func (w *Watcher) run(events <-chan fsnotify.Event, errs <-chan error) {
	defer close(w.done)

	var (
		timer   clockwork.Timer
		timerC  <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).
				Msg("corpus source changed")
			pending = event.Name
			if timer == nil {
				timer = w.clock.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.Chan():
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.Chan()
		case <-timerC:
			timerC = nil
			w.reset(pending)
		case err, ok := <-errs:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("corpus watcher error")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if _, ok := w.files[filepath.Clean(event.Name)]; !ok {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func (w *Watcher) reset(path string) {
	if w.loader.Reset() {
		log.Info().Str("file", path).Msg("corpus source changed, cache cleared")
	} else {
		log.Info().Str("file", path).
			Msg("corpus source changed during load, load marked stale")
	}
	if w.onReset != nil {
		w.onReset(path)
	}
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	if err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	return nil
}
