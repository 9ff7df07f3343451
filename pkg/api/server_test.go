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

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/bookmarks"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/config"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/corpus"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/history"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/search"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testArabic = []corpus.ArabicVerse{
		{SurahNumber: 1, SurahNameArabic: "الفاتحة", AyahNumber: 1, TextContent: "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ"},
		{SurahNumber: 1, SurahNameArabic: "الفاتحة", AyahNumber: 2, TextContent: "ٱلْحَمْدُ لِلَّهِ رَبِّ ٱلْعَٰلَمِينَ"},
		{SurahNumber: 112, SurahNameArabic: "الإخلاص", AyahNumber: 1, TextContent: "قُلْ هُوَ ٱللَّهُ أَحَدٌ"},
		{SurahNumber: 112, SurahNameArabic: "الإخلاص", AyahNumber: 2, TextContent: "ٱللَّهُ ٱلصَّمَدُ"},
	}
	testLuganda = []corpus.TranslationVerse{
		{SurahNumber: 1, SurahName: "Al-Fatiha", AyahNumber: 1, Text: "Mu linnya lya Katonda Omusaasizi"},
		{SurahNumber: 112, SurahName: "Al-Ikhlas", AyahNumber: 1, Text: "Gamba nti Ye Katonda, Omu"},
	}
	testEnglish = []corpus.TranslationVerse{
		{SurahNumber: 1, SurahName: "The Opening", AyahNumber: 1, Text: "In the name of Allah, the Gracious, the Merciful."},
		{SurahNumber: 1, SurahName: "The Opening", AyahNumber: 2, Text: "All praise belongs to Allah, Lord of all the worlds,"},
		{SurahNumber: 112, SurahName: "The Unity", AyahNumber: 1, Text: "Say, 'He is Allah, the One;"},
		{SurahNumber: 112, SurahName: "The Unity", AyahNumber: 2, Text: "Allah, the Independent and Besought of all."},
	}
)

type testEnv struct {
	server *Server
	http   *httptest.Server
	loader *corpus.Loader
	store  *bookmarks.Store
	hist   *history.DB
}

type testOptions struct {
	noBookmarks bool
	noHistory   bool
	noCorpus    bool
}

func writeSource(t *testing.T, fs afero.Fs, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
}

func newTestEnv(t *testing.T, opts testOptions) *testEnv {
	t.Helper()

	defaults := config.BaseDefaults
	defaults.API.RateLimit = 0
	fs := afero.NewMemMapFs()
	cfg, err := config.NewConfig(fs, "/config", "/data", defaults)
	require.NoError(t, err)

	sources := cfg.CorpusSources()
	if !opts.noCorpus {
		writeSource(t, fs, sources.Arabic, testArabic)
		writeSource(t, fs, sources.Luganda, testLuganda)
		writeSource(t, fs, sources.English, testEnglish)
	}

	env := &testEnv{loader: corpus.NewLoader(fs, sources, corpus.WithNormalizer(cfg.Normalizer()))}
	if !opts.noBookmarks {
		env.store, err = bookmarks.Open(filepath.Join(t.TempDir(), "bookmarks.db"))
		require.NoError(t, err)
		t.Cleanup(func() {
			assert.NoError(t, env.store.Close())
		})
	}

	var serverOpts []ServerOption
	if !opts.noHistory {
		env.hist, err = history.Open(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		t.Cleanup(func() {
			assert.NoError(t, env.hist.Close())
		})
		serverOpts = append(serverOpts, WithHistory(env.hist))
	}

	env.server = NewServer(
		cfg,
		env.loader,
		search.New(cfg.Normalizer()),
		env.store,
		clockwork.NewRealClock(),
		serverOpts...,
	)
	ctx, cancel := context.WithCancel(context.Background())
	env.server.StartWorkers(ctx)
	env.http = httptest.NewServer(env.server.Handler())
	t.Cleanup(func() {
		env.http.Close()
		cancel()
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, e.http.URL+path, r)
	require.NoError(t, err)
	resp, err := e.http.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	resp, body := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	h := decode[models.HealthResponse](t, body)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "idle", h.Corpus)
	assert.Nil(t, h.LoadedAt)
	assert.Equal(t, []string{"U+06DD", "U+06DE", "U+06E9"}, h.PreservedMarks)
	assert.Zero(t, h.CachedPatterns)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	_, err := env.loader.Load(context.Background())
	require.NoError(t, err)

	_, body = env.do(t, http.MethodGet, "/health", "")
	h = decode[models.HealthResponse](t, body)
	assert.Equal(t, "ready", h.Corpus)
	assert.Equal(t, 4, h.Verses)
	assert.NotNil(t, h.LoadedAt)

	resp, _ = env.do(t, http.MethodGet, "/search?q=allah", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = env.do(t, http.MethodGet, "/health", "")
	h = decode[models.HealthResponse](t, body)
	assert.Positive(t, h.CachedPatterns)
}

func TestSearchRoute(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	resp, body := env.do(t, http.MethodGet, "/search?q=%D8%A7%D9%84%D9%84%D9%87&lang=arabic&mode=exact", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	sr := decode[models.SearchResponse](t, body)
	assert.Equal(t, "arabic", sr.Script)
	assert.Equal(t, "arabic", sr.Language)
	assert.Equal(t, "exact", sr.Mode)
	require.Equal(t, 3, sr.Total)
	keys := make([]string, 0, len(sr.Results))
	for _, r := range sr.Results {
		keys = append(keys, r.Key())
		assert.Equal(t, search.FieldArabic, r.MatchedField)
		var joined strings.Builder
		highlighted := false
		for _, run := range r.Highlighted {
			joined.WriteString(run.Text)
			highlighted = highlighted || run.Highlighted
		}
		assert.Equal(t, r.Arabic, joined.String())
		assert.True(t, highlighted)
	}
	assert.Equal(t, []string{"1:1", "112:1", "112:2"}, keys)
}

func TestSearchRoute_DefaultsAndLimit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	resp, body := env.do(t, http.MethodGet, "/search?q=allah&limit=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	sr := decode[models.SearchResponse](t, body)
	assert.Equal(t, "latin", sr.Script)
	assert.Equal(t, "all", sr.Language)
	assert.Equal(t, "exact", sr.Mode)
	assert.Equal(t, 4, sr.Total)
	require.Len(t, sr.Results, 2)
	assert.Equal(t, search.FieldEnglish, sr.Results[0].MatchedField)
	assert.Equal(t, []search.Run{
		{Text: "In the name of "},
		{Text: "Allah", Highlighted: true},
		{Text: ", the Gracious, the Merciful."},
	}, sr.Results[0].Highlighted)
}

func TestSearchRoute_TitleMatch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	_, body := env.do(t, http.MethodGet, "/search?q=unity", "")
	sr := decode[models.SearchResponse](t, body)
	require.Len(t, sr.Results, 1)
	assert.Equal(t, search.FieldTitle, sr.Results[0].MatchedField)
	assert.Equal(t, "112:1", sr.Results[0].Key())
}

func TestSearchRoute_Invalid(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	tests := []struct {
		name  string
		path  string
		field string
	}{
		{name: "missing query", path: "/search", field: "query"},
		{name: "bad mode", path: "/search?q=a&mode=fuzzy", field: "mode"},
		{name: "bad language", path: "/search?q=a&lang=swahili", field: "language"},
		{name: "bad limit", path: "/search?q=a&limit=ten"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, body := env.do(t, http.MethodGet, tt.path, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			er := decode[errorResponse](t, body)
			assert.NotEmpty(t, er.RequestID)
			if tt.field != "" {
				require.Len(t, er.Fields, 1)
				assert.Equal(t, tt.field, er.Fields[0].Field)
			}
		})
	}
}

func TestHighlightRoute(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	resp, body := env.do(t, http.MethodGet, "/highlight?text=Godly+god&q=god&mode=exact", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hr := decode[models.HighlightResponse](t, body)
	assert.Equal(t, []search.Run{
		{Text: "Godly "},
		{Text: "god", Highlighted: true},
	}, hr.Runs)

	resp, _ = env.do(t, http.MethodGet, "/highlight?q=god", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSurahRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	resp, body := env.do(t, http.MethodGet, "/surahs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[models.SurahsResponse](t, body)
	require.Len(t, list.Surahs, 2)
	assert.Equal(t, models.SurahSummary{
		Number:         112,
		ArabicName:     "الإخلاص",
		EnglishName:    "The Unity",
		RevelationType: corpus.RevelationMedinan,
		TotalVerses:    2,
	}, list.Surahs[1])

	resp, body = env.do(t, http.MethodGet, "/surahs/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := decode[corpus.Surah](t, body)
	assert.Equal(t, "The Opening", s.EnglishName)
	assert.Len(t, s.Verses, 2)

	resp, body = env.do(t, http.MethodGet, "/surahs/112/verses/2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decode[corpus.VerseRecord](t, body)
	assert.Equal(t, "Allah, the Independent and Besought of all.", v.English)
	assert.Empty(t, v.Luganda)

	tests := []struct {
		path   string
		status int
	}{
		{path: "/surahs/2", status: http.StatusNotFound},
		{path: "/surahs/115", status: http.StatusBadRequest},
		{path: "/surahs/abc", status: http.StatusBadRequest},
		{path: "/surahs/112/verses/9", status: http.StatusNotFound},
		{path: "/surahs/112/verses/0", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp, _ := env.do(t, http.MethodGet, tt.path, "")
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
	}
}

func TestCorpusUnavailable(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{noCorpus: true})

	resp, body := env.do(t, http.MethodGet, "/search?q=allah", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, decode[errorResponse](t, body).Error, "corpus load failed")

	_, body = env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, "failed", decode[models.HealthResponse](t, body).Corpus)
}

func TestCorpusReloadRoute(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	resp, body := env.do(t, http.MethodPost, "/corpus/reload", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "ready", decode[models.HealthResponse](t, body).Corpus)
}

func TestBookmarkRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	resp, body := env.do(t, http.MethodPut, "/bookmarks/112/1", `{"color":"teal"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	b := decode[bookmarks.Bookmark](t, body)
	assert.Equal(t, "teal", b.Color)

	resp, _ = env.do(t, http.MethodPut, "/bookmarks/1/2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = env.do(t, http.MethodGet, "/bookmarks", "")
	list := decode[models.BookmarksResponse](t, body)
	assert.Len(t, list.Bookmarks, 2)

	resp, body = env.do(t, http.MethodGet, "/surahs/112/bookmarks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	list = decode[models.BookmarksResponse](t, body)
	require.Len(t, list.Bookmarks, 1)
	assert.Equal(t, bookmarks.VerseRef{Surah: 112, Verse: 1}, list.Bookmarks[0].VerseRef)

	_, body = env.do(t, http.MethodGet, "/surahs/2/bookmarks", "")
	list = decode[models.BookmarksResponse](t, body)
	assert.Empty(t, list.Bookmarks)

	resp, _ = env.do(t, http.MethodGet, "/surahs/115/bookmarks", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/bookmarks/112/1", `{"color":"magenta"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/bookmarks/112/1", `{"color":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/bookmarks/2/255", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "verse not in corpus")

	resp, _ = env.do(t, http.MethodDelete, "/bookmarks/112/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/bookmarks/112/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCollectionRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	resp, body := env.do(t, http.MethodPost, "/collections", `{"name":"Oneness","color":"peach"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	c := decode[bookmarks.Collection](t, body)

	resp, body = env.do(t, http.MethodPut, "/collections/"+c.ID+"/verses/112/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	c = decode[bookmarks.Collection](t, body)
	assert.Equal(t, []bookmarks.VerseRef{{Surah: 112, Verse: 1}}, c.Verses)

	_, body = env.do(t, http.MethodGet, "/collections", "")
	list := decode[models.CollectionsResponse](t, body)
	require.Len(t, list.Collections, 1)
	assert.Equal(t, "Oneness", list.Collections[0].Name)

	resp, _ = env.do(t, http.MethodDelete, "/collections/"+c.ID+"/verses/112/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/collections/"+c.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{method: http.MethodPost, path: "/collections", body: "", status: http.StatusBadRequest},
		{method: http.MethodPost, path: "/collections", body: `{"name":"x","color":"lime"}`, status: http.StatusBadRequest},
		{method: http.MethodPost, path: "/collections", body: `{"color":"blue"}`, status: http.StatusBadRequest},
		{method: http.MethodDelete, path: "/collections/not-a-uuid", status: http.StatusBadRequest},
		{method: http.MethodDelete, path: "/collections/" + c.ID, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, body := env.do(t, tt.method, tt.path, tt.body)
		assert.Equal(t, tt.status, resp.StatusCode, "%s %s: %s", tt.method, tt.path, body)
	}
}

func TestBookmarksDisabled(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{noBookmarks: true})

	resp, _ := env.do(t, http.MethodGet, "/bookmarks", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHistoryRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{})

	resp, _ := env.do(t, http.MethodGet, "/history/last-read", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/history/last-read/1/9", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "verse not in corpus")

	resp, data := env.do(t, http.MethodPut, "/history/last-read/112/2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	resp, data = env.do(t, http.MethodGet, "/history/last-read", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lr := decode[models.LastReadResponse](t, data)
	assert.Equal(t, 112, lr.Position.Surah)
	assert.Equal(t, 2, lr.Position.Verse)
	require.NotNil(t, lr.Record)
	assert.Equal(t, "Allah, the Independent and Besought of all.", lr.Record.English)
	assert.Equal(t, "The Unity — الإخلاص", lr.SurahName)

	for _, q := range []string{"gracious", "Katonda", "light"} {
		resp, _ = env.do(t, http.MethodGet, "/search?lang=english&q="+q, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, data = env.do(t, http.MethodGet, "/history/searches?limit=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[models.SearchHistoryResponse](t, data)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "light", page.Entries[0].Query)
	assert.Equal(t, "english", page.Entries[0].Language)
	assert.Equal(t, 0, page.Entries[0].Results)
	assert.Equal(t, "Katonda", page.Entries[1].Query)

	resp, data = env.do(t, http.MethodGet, "/history/searches?after="+
		strconv.FormatInt(page.Entries[1].ID, 10), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decode[models.SearchHistoryResponse](t, data)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "gracious", page.Entries[0].Query)
	assert.Equal(t, 1, page.Entries[0].Results)

	resp, _ = env.do(t, http.MethodGet, "/history/searches?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/history/searches?after=x", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/history", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/history/last-read", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, data = env.do(t, http.MethodGet, "/history/searches", "")
	page = decode[models.SearchHistoryResponse](t, data)
	assert.Empty(t, page.Entries)
}

func TestHistoryDisabled(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testOptions{noHistory: true})

	resp, _ := env.do(t, http.MethodGet, "/history/last-read", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/history", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/search?q=Allah", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "search works without history")
}
