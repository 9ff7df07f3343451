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

//go:build deadlock

// Package syncutil wraps the mutexes guarding the corpus loader and the
// pattern cache. Building with -tags=deadlock swaps in lock-order and
// timeout detection for development.
package syncutil

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockEnabled reports whether this build detects deadlocks.
const DeadlockEnabled = true

// DefaultDeadlockTimeout is how long a lock may be waited on before the
// detector reports it.
const DefaultDeadlockTimeout = 30 * time.Second

func init() {
	deadlock.Opts.DeadlockTimeout = DefaultDeadlockTimeout
}

// SetDeadlockTimeout changes the detector's wait threshold. Zero disables
// timeout reporting while keeping lock-order checks.
func SetDeadlockTimeout(d time.Duration) {
	deadlock.Opts.DeadlockTimeout = d
}

// Mutex guards single-writer state such as the loader lifecycle.
type Mutex struct {
	deadlock.Mutex
}

// RWMutex guards read-mostly state such as compiled pattern caches.
type RWMutex struct {
	deadlock.RWMutex
}
