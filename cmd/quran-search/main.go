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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/internal/telemetry"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/client"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/api/models"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/bookmarks"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/cli"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/config"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/corpus"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/discovery"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/history"
	"github.com/Sabeh2005/Quran-Luganda-Ahmadiyya/pkg/search"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, cli.ErrNoAction) {
			flag.Usage()
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := cli.SetupFlags(flag.CommandLine)
	if exit, err := flags.Pre(flag.CommandLine, args, out); exit {
		return err
	}

	var logWriters []io.Writer
	if *flags.Serve {
		logWriters = []io.Writer{os.Stderr}
	}

	fs := afero.NewOsFs()
	cfg, err := cli.Setup(fs, flags, config.BaseDefaults, logWriters)
	if err != nil {
		return err
	}

	if err := telemetry.Init(cfg.ErrorReportingDSN(), config.AppVersion); err != nil {
		log.Warn().Err(err).Msg("failed to start error reporting")
	}
	defer telemetry.Close()

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *flags.API != "":
		method, params := cli.SplitAPI(*flags.API)
		resp, err := client.Call(ctx, client.LocalURL(cfg.APIPort()), method, params)
		if err != nil {
			return fmt.Errorf("api call failed: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(resp))
		return nil
	case *flags.Serve:
		return serve(ctx, cfg, fs, *flags.Watch || cfg.WatchCorpus())
	case *flags.Remote:
		return remoteSearch(ctx, cfg, flags, out)
	default:
		return localSearch(ctx, cfg, fs, flags, out)
	}
}

func newLoader(cfg *config.Instance, fs afero.Fs) *corpus.Loader {
	return corpus.NewLoader(fs, cfg.CorpusSources(), corpus.WithNormalizer(cfg.Normalizer()))
}

func newSearcher(cfg *config.Instance) *search.Searcher {
	return search.New(cfg.Normalizer(), search.WithCacheSize(cfg.SearchCacheSize()))
}

func queryOptions(cfg *config.Instance, flags *cli.Flags) (search.Language, search.Mode, error) {
	lang := cfg.DefaultLanguage()
	if *flags.Lang != "" {
		l, err := search.ParseLanguage(*flags.Lang)
		if err != nil {
			return "", "", fmt.Errorf("invalid -lang: %w", err)
		}
		lang = l
	}
	mode := cfg.DefaultMode()
	if *flags.Mode != "" {
		m, err := search.ParseMode(*flags.Mode)
		if err != nil {
			return "", "", fmt.Errorf("invalid -mode: %w", err)
		}
		mode = m
	}
	return lang, mode, nil
}

func printResults(flags *cli.Flags, out io.Writer, results []models.SearchResult) error {
	format, err := cli.ParseFormat(*flags.Format)
	if err != nil {
		return err
	}
	if *flags.Limit > 0 && len(results) > *flags.Limit {
		results = results[:*flags.Limit]
	}
	return cli.WriteResults(out, format, results)
}

func localSearch(
	ctx context.Context,
	cfg *config.Instance,
	fs afero.Fs,
	flags *cli.Flags,
	out io.Writer,
) error {
	lang, mode, err := queryOptions(cfg, flags)
	if err != nil {
		return err
	}

	c, err := newLoader(cfg, fs).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	s := newSearcher(cfg)
	matches := s.Search(c, *flags.Query, lang, mode)
	return printResults(flags, out, cli.WithHighlights(s, *flags.Query, mode, matches))
}

func remoteSearch(ctx context.Context, cfg *config.Instance, flags *cli.Flags, out io.Writer) error {
	params, err := json.Marshal(models.SearchParams{
		Query:    *flags.Query,
		Language: *flags.Lang,
		Mode:     *flags.Mode,
	})
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}

	raw, err := client.Call(ctx, client.LocalURL(cfg.APIPort()), models.MethodSearch, string(params))
	if err != nil {
		return fmt.Errorf("remote search failed: %w", err)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("failed to decode search response: %w", err)
	}
	return printResults(flags, out, resp.Results)
}

func serve(ctx context.Context, cfg *config.Instance, fs afero.Fs, watch bool) error {
	loader := newLoader(cfg, fs)
	if _, err := loader.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("corpus not loaded at startup, will retry on first request")
	}

	store, err := bookmarks.Open(cfg.BookmarksPath())
	if err != nil {
		return fmt.Errorf("failed to open bookmarks: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close bookmarks")
		}
	}()

	hist, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("failed to open reading history: %w", err)
	}
	defer func() {
		if err := hist.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close reading history")
		}
	}()
	hist.StartCleanup(ctx, cfg.HistoryRetentionDays())

	srv := api.NewServer(
		cfg,
		loader,
		newSearcher(cfg),
		store,
		clockwork.NewRealClock(),
		api.WithHistory(hist),
	)

	if watch {
		w, err := corpus.Watch(loader, srv.CorpusChanged)
		if err != nil {
			return fmt.Errorf("failed to watch corpus: %w", err)
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to stop corpus watcher")
			}
		}()
	}

	if cfg.DiscoveryEnabled() {
		verses := 0
		if c, ok := loader.Corpus(); ok {
			verses = c.VerseCount()
		}
		adv := discovery.New(
			discovery.InstanceName(cfg.DiscoveryInstanceName(), os.Hostname),
			cfg.APIPort(),
			discovery.TXTRecords(config.AppVersion, verses),
			clockwork.NewRealClock(),
		)
		adv.Start(ctx)
		defer adv.Stop()
	}

	log.Info().Int("port", cfg.APIPort()).Str("version", config.AppVersion).Msg("starting server")
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
