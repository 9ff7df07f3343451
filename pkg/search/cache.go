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

package search

import (
	"fmt"
	"regexp"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/helpers/syncutil"
)

// DefaultCacheSize bounds how many compiled expressions a Searcher keeps.
const DefaultCacheSize = 512

// regexCache keeps compiled search expressions keyed by their source so a
// repeated query, or the highlighter following the matcher, compiles once.
// When full it is emptied rather than evicting individual entries.
type regexCache struct {
	cache map[string]*regexp.Regexp
	limit int
	mu    syncutil.RWMutex
}

func newRegexCache(limit int) *regexCache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	return &regexCache{
		cache: make(map[string]*regexp.Regexp),
		limit: limit,
	}
}

func (rc *regexCache) compile(expr string) (*regexp.Regexp, error) {
	rc.mu.RLock()
	if re, ok := rc.cache[expr]; ok {
		rc.mu.RUnlock()
		return re, nil
	}
	rc.mu.RUnlock()

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if re, ok := rc.cache[expr]; ok {
		return re, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile search pattern %q: %w", expr, err)
	}

	if len(rc.cache) >= rc.limit {
		rc.cache = make(map[string]*regexp.Regexp, rc.limit)
	}
	rc.cache[expr] = re
	return re, nil
}

func (rc *regexCache) size() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.cache)
}
