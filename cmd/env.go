package main

import (
	"context"
	"time"

	"github.com/pdme/floodwatch/internal/bulletin"
	"github.com/pdme/floodwatch/internal/cache"
	"github.com/pdme/floodwatch/internal/fetcher"
	"github.com/pdme/floodwatch/internal/observability"
	"github.com/pdme/floodwatch/internal/pdftext"
)

// env wires the acquisition side: fetcher, PDF extraction, pipeline, cache.
// Construction is explicit; nothing is initialized as an import side effect.
type env struct {
	Fetcher  *fetcher.HTTPFetcher
	Pipeline *bulletin.Pipeline
	Cache    *cache.SnapshotCache
	Store    cache.Store
	Metrics  *observability.Metrics
}

func buildEnv(ctx context.Context, metrics *observability.Metrics) (*env, error) {
	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Bulletin.UserAgent,
		Timeout:      time.Duration(cfg.Bulletin.TimeoutSecs) * time.Second,
		ProbeTimeout: time.Duration(cfg.Bulletin.ProbeTimeoutSecs) * time.Second,
	})

	extractor, err := pdftext.NewExtractor(cfg.Bulletin.PDF)
	if err != nil {
		return nil, err
	}

	pipeline := bulletin.NewPipeline(httpFetcher, extractor, cfg.Bulletin, nil, metrics)

	store, err := cache.NewStore(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	return &env{
		Fetcher:  httpFetcher,
		Pipeline: pipeline,
		Cache:    cache.New(store, pipeline, cfg.Cache, nil, metrics),
		Store:    store,
		Metrics:  metrics,
	}, nil
}

func (e *env) Close() {
	_ = e.Store.Close()
}
