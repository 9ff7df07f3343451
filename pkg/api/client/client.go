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

// Package client talks JSON-RPC to a running search server over its
// websocket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrInvalidParams    = errors.New("invalid params")
	ErrRequestCancelled = errors.New("request cancelled")
)

// RPCError is an error object returned by the server.
type RPCError struct {
	models.ErrorObject
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// LocalURL is the websocket address of a server on this machine.
func LocalURL(port int) string {
	u := url.URL{
		Scheme: "ws",
		Host:   "localhost:" + strconv.Itoa(port),
		Path:   "/ws",
	}
	return u.String()
}

func dial(ctx context.Context, wsURL string) (*websocket.Conn, error) {
	c, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", wsURL, err)
	}
	return c, nil
}

func closeConn(c *websocket.Conn) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing websocket")
	}
}

// wait blocks until done closes, the timeout passes or ctx ends. The
// connection is closed on timeout or cancel so the reader exits.
func wait(ctx context.Context, c *websocket.Conn, done <-chan struct{}, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
		closeConn(c)
		<-done
		return ErrRequestTimeout
	case <-ctx.Done():
		closeConn(c)
		<-done
		return ErrRequestCancelled
	}
}

// Call sends one method with params (a JSON string, or "" for none) and
// returns the raw JSON result.
func Call(ctx context.Context, wsURL, method, params string) (json.RawMessage, error) {
	id := models.NewStringID(uuid.New().String())
	req := models.RequestObject{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
	}
	if params != "" {
		if !json.Valid([]byte(params)) {
			return nil, ErrInvalidParams
		}
		req.Params = json.RawMessage(params)
	}

	c, err := dial(ctx, wsURL)
	if err != nil {
		return nil, err
	}
	defer closeConn(c)

	type reply struct {
		Error  *models.ErrorObject `json:"error"`
		ID     models.RPCID        `json:"id"`
		Result json.RawMessage     `json:"result"`
	}
	done := make(chan struct{})
	var resp *reply

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Msg("websocket read ended")
				return
			}
			var m reply
			if err := json.Unmarshal(message, &m); err != nil {
				continue
			}
			if m.ID.String() != id.String() {
				continue
			}
			resp = &m
			return
		}
	}()

	if err := c.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if err := wait(ctx, c, done, config.APIRequestTimeout); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrRequestTimeout
	}
	if resp.Error != nil {
		return nil, &RPCError{ErrorObject: *resp.Error}
	}
	return resp.Result, nil
}

// WaitNotification blocks until the server pushes a notification with the
// given method and returns its params.
func WaitNotification(
	ctx context.Context,
	wsURL string,
	method string,
	timeout time.Duration,
	ready chan<- struct{},
) (json.RawMessage, error) {
	c, err := dial(ctx, wsURL)
	if err != nil {
		return nil, err
	}
	defer closeConn(c)

	done := make(chan struct{})
	var params json.RawMessage

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Msg("websocket read ended")
				return
			}
			var m models.RequestObject
			if err := json.Unmarshal(message, &m); err != nil {
				continue
			}
			if m.JSONRPC != "2.0" || !m.ID.IsAbsent() || m.Method != method {
				continue
			}
			params = m.Params
			return
		}
	}()

	if ready != nil {
		close(ready)
	}
	if err := wait(ctx, c, done, timeout); err != nil {
		return nil, err
	}
	if params == nil {
		return nil, ErrRequestTimeout
	}
	return params, nil
}
