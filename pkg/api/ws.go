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
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/methods"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/config"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

func sendResponse(session *melody.Session, id models.RPCID, result any) {
	data, err := json.Marshal(models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		return
	}
	if err := session.Write(data); err != nil {
		log.Error().Err(err).Msg("failed to send response")
	}
}

func sendError(session *melody.Session, id models.RPCID, errObj models.ErrorObject) {
	log.Debug().Int("code", errObj.Code).Str("message", errObj.Message).Msg("sending error")
	data, err := json.Marshal(models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &errObj,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal error response")
		return
	}
	if err := session.Write(data); err != nil {
		log.Error().Err(err).Msg("failed to send error response")
	}
}

func (s *Server) handleWSMessage(session *melody.Session, msg []byte) {
	// heartbeat
	if bytes.Equal(msg, []byte("ping")) {
		if err := session.Write([]byte("pong")); err != nil {
			log.Error().Err(err).Msg("failed to send pong")
		}
		return
	}

	if !json.Valid(msg) {
		sendError(session, models.NullRPCID, models.ErrorParse)
		return
	}

	var req models.RequestObject
	if err := json.Unmarshal(msg, &req); err != nil {
		sendError(session, models.NullRPCID, models.ErrorInvalidRequest)
		return
	}

	id := models.NullRPCID
	if !req.ID.IsAbsent() {
		id = *req.ID
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		sendError(session, id, models.ErrorInvalidRequest)
		return
	}
	if req.ID.IsAbsent() {
		log.Debug().Str("method", req.Method).Msg("ignoring client notification")
		return
	}

	fn, ok := methods.Map[strings.ToLower(req.Method)]
	if !ok {
		sendError(session, id, models.ErrorMethodNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(session.Request.Context(), config.APIRequestTimeout)
	defer cancel()

	resp, err := fn(s.env(ctx, req.Params))
	if err != nil {
		_, errObj := errorFor(err)
		if errObj == models.ErrorInternal {
			log.Error().Err(err).Str("method", req.Method).Msg("websocket method failed")
		}
		sendError(session, id, errObj)
		return
	}
	sendResponse(session, id, resp)
}
