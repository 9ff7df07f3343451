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

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestID_ReusesIncoming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{name: "valid uuid", header: "6f1c9a0e-3b1d-4c55-8f7a-2d8e9b0c4a11", reused: true},
		{name: "garbage", header: "abc; drop", reused: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(RequestIDHeader, tt.header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if tt.reused {
				assert.Equal(t, tt.header, w.Header().Get(RequestIDHeader))
			} else {
				assert.NotEqual(t, tt.header, w.Header().Get(RequestIDHeader))
			}
		})
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	t.Parallel()
	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", http.NoBody).Context()))
}
