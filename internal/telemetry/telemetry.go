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

// Package telemetry sends error-level log events to Sentry when the user
// configures a DSN. Paths are stripped of user names and search text never
// leaves the machine.
package telemetry

import (
	"fmt"
	"regexp"
	"runtime"
	"sync"
	"time"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/helpers"
	"github.com/getsentry/sentry-go"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const flushTimeout = 2 * time.Second

var (
	enabled      bool
	sentryWriter *sentryzerolog.Writer
	closeOnce    sync.Once

	homePathRe    = regexp.MustCompile(`(?i)/home/[^/]+/`)
	usersPathRe   = regexp.MustCompile(`(?i)/Users/[^/]+/`)
	windowsUserRe = regexp.MustCompile(`(?i)[a-zA-Z]:\\Users\\[^\\]+\\`)

	// log fields that carry what the reader searched for or highlighted
	privateFields = []string{"query", "text", "q"}
)

// Init starts error reporting to dsn. An empty dsn leaves it disabled.
func Init(dsn, appVersion string) error {
	if dsn == "" {
		log.Debug().Msg("error reporting disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          "quran-luganda@" + appVersion,
		AttachStacktrace: true,
		SendDefaultPII:   false,
		ServerName:       "",
		MaxBreadcrumbs:   0,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return sanitizeEvent(event)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
	})

	sentryWriter, err = sentryzerolog.NewWithHub(sentry.CurrentHub(), sentryzerolog.Options{
		Levels:       []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
		FlushTimeout: flushTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create sentry zerolog writer: %w", err)
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(
		helpers.LogWriter(),
		sentryWriter,
	)).With().Timestamp().Caller().Logger()

	enabled = true
	log.Info().Msg("error reporting enabled")
	return nil
}

// Close flushes pending events. Safe to call more than once.
func Close() {
	if !enabled {
		return
	}
	closeOnce.Do(func() {
		_ = sentryWriter.Close()
		sentry.Flush(flushTimeout)
	})
}

func Enabled() bool {
	return enabled
}

func sanitizeEvent(event *sentry.Event) *sentry.Event {
	event.ServerName = ""
	event.User = sentry.User{}

	for i := range event.Exception {
		if st := event.Exception[i].Stacktrace; st != nil {
			for j := range st.Frames {
				st.Frames[j].AbsPath = sanitizePath(st.Frames[j].AbsPath)
				st.Frames[j].Filename = sanitizePath(st.Frames[j].Filename)
			}
		}
	}

	event.Message = sanitizePath(event.Message)

	for _, k := range privateFields {
		delete(event.Extra, k)
	}
	for k, v := range event.Extra {
		if s, ok := v.(string); ok {
			event.Extra[k] = sanitizePath(s)
		}
	}

	if event.Request != nil {
		event.Request.QueryString = ""
		event.Request.Data = ""
	}
	return event
}

func sanitizePath(path string) string {
	if path == "" {
		return path
	}
	out := homePathRe.ReplaceAllString(path, "/home/<user>/")
	out = usersPathRe.ReplaceAllString(out, "/Users/<user>/")
	return windowsUserRe.ReplaceAllString(out, "C:\\Users\\<user>\\")
}
