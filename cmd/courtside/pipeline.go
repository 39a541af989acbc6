package main

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"courtside/internal/analysis"
	"courtside/internal/config"
	"courtside/internal/intent"
	"courtside/internal/llm"
	"courtside/internal/logging"
	"courtside/internal/nba"
	"courtside/internal/statcache"
)

// turnTimeout bounds one conversational turn end to end, covering the
// retry/backoff loop in the fetcher. The upstream contract has no
// timeout of its own.
const turnTimeout = 2 * time.Minute

// pipeline bundles everything a command needs to answer questions.
type pipeline struct {
	cfg          *config.Config
	client       llm.Client
	nbaClient    *nba.Client
	orchestrator *analysis.Orchestrator
	cache        *statcache.Cache
}

// buildPipeline wires the full answer pipeline from configuration. The
// cache is best-effort; a failure to open it degrades to uncached
// fetches.
func buildPipeline(cfg *config.Config) (*pipeline, error) {
	client, err := llm.NewClientFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("llm setup: %w", err)
	}

	var cache *statcache.Cache
	cachePath := cfg.Cache.Path
	if !filepath.IsAbs(cachePath) {
		cachePath = filepath.Join(workspace, cachePath)
	}
	cache, err = statcache.Open(cachePath, cfg.CacheTTL())
	if err != nil {
		logging.BootError("cache unavailable, fetching uncached: %v", err)
		cache = nil
	}

	opts := []nba.Option{
		nba.WithSeasonType(cfg.NBA.SeasonType),
		nba.WithRetry(cfg.NBA.Retries, cfg.NBABackoffUnit()),
		nba.WithWindow(cfg.NBA.Window),
		nba.WithHTTPClient(&http.Client{Timeout: cfg.NBATimeout()}),
	}
	if cache != nil {
		opts = append(opts, nba.WithCache(cache))
	}
	nbaClient := nba.NewClient(cfg.NBA.Season, opts...)

	orchestrator := analysis.NewOrchestrator(
		intent.NewExtractor(client),
		nba.NewFetcher(nbaClient),
		analysis.NewGenerator(client),
		analysis.NewEvaluator(client),
	)

	logging.Boot("pipeline ready: provider=%s model=%s season=%s",
		cfg.LLM.Provider, client.GetModel(), cfg.NBA.Season)

	return &pipeline{
		cfg:          cfg,
		client:       client,
		nbaClient:    nbaClient,
		orchestrator: orchestrator,
		cache:        cache,
	}, nil
}

// Close releases pipeline resources.
func (p *pipeline) Close() {
	if p.cache != nil {
		p.cache.Close()
	}
}
