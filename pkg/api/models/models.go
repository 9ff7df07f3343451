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

// Package models defines the request and response shapes of the search API,
// shared by the REST routes and the JSON-RPC websocket.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

const (
	MethodSearch          = "search"
	MethodHighlight       = "highlight"
	MethodSurahs          = "surahs"
	MethodSurah           = "surah"
	MethodVerse           = "verse"
	MethodBookmarks       = "bookmarks"
	MethodBookmarksPut    = "bookmarks.put"
	MethodBookmarksDelete = "bookmarks.delete"
	MethodBookmarksSurah  = "bookmarks.surah"
	MethodCollections     = "collections"
	MethodCollectionsNew  = "collections.new"
	MethodCollectionsAdd  = "collections.add"
	MethodCollectionsDrop = "collections.remove"
	MethodCollectionsDel  = "collections.delete"
	MethodCorpusReload    = "corpus.reload"
	MethodLastRead        = "history.lastread"
	MethodLastReadSet     = "history.lastread.set"
	MethodSearchHistory   = "history.searches"
	MethodHistoryClear    = "history.clear"
	MethodVersion         = "version"
)

// ErrInvalidRPCID is returned for ids that are objects or arrays.
var ErrInvalidRPCID = errors.New("JSON-RPC ID cannot be an object or array")

// RPCID is a JSON-RPC id kept as raw JSON so it is echoed back exactly.
type RPCID struct {
	json.RawMessage
}

// NullRPCID is the id sent with errors for unparseable requests.
var NullRPCID = RPCID{RawMessage: []byte("null")}

func (id *RPCID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return ErrInvalidRPCID
	}
	id.RawMessage = bytes.Clone(data)
	return nil
}

func (id RPCID) MarshalJSON() ([]byte, error) {
	if len(id.RawMessage) == 0 {
		return []byte("null"), nil
	}
	return id.RawMessage, nil
}

// IsAbsent reports a notification: a request sent without an id.
func (id *RPCID) IsAbsent() bool {
	return id == nil || len(id.RawMessage) == 0
}

func (id *RPCID) String() string {
	if id.IsAbsent() {
		return "null"
	}
	return string(id.RawMessage)
}

type RequestObject struct {
	ID      *RPCID          `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorObject struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ResponseObject struct {
	Result  any    `json:"result"`
	JSONRPC string `json:"jsonrpc"`
	ID      RPCID  `json:"id"`
}

// ResponseErrorObject omits the result member, which JSON-RPC forbids on
// error responses.
type ResponseErrorObject struct {
	Error   *ErrorObject `json:"error"`
	JSONRPC string       `json:"jsonrpc"`
	ID      RPCID        `json:"id"`
}

var (
	ErrorParse          = ErrorObject{Code: -32700, Message: "Parse error"}
	ErrorInvalidRequest = ErrorObject{Code: -32600, Message: "Invalid Request"}
	ErrorMethodNotFound = ErrorObject{Code: -32601, Message: "Method not found"}
	ErrorInvalidParams  = ErrorObject{Code: -32602, Message: "Invalid params"}
	ErrorInternal       = ErrorObject{Code: -32603, Message: "Internal error"}
	ErrorServer         = ErrorObject{Code: -32000, Message: "Server error"}
	ErrorRateLimited    = ErrorObject{Code: -32001, Message: "Rate limit exceeded"}
	ErrorNotFound       = ErrorObject{Code: -32004, Message: "Not found"}
	ErrorUnavailable    = ErrorObject{Code: -32003, Message: "Corpus unavailable"}
)

const (
	NotificationCorpusReloaded   = "corpus.reloaded"
	NotificationBookmarksChanged = "bookmarks.changed"
)

// Notification is pushed to every websocket client as a JSON-RPC request
// without an id.
type Notification struct {
	Params any
	Method string
}

// NewStringID creates an id from a string value.
func NewStringID(s string) RPCID {
	b, _ := json.Marshal(s) //nolint:errchkjson // strings always marshal
	return RPCID{RawMessage: b}
}
