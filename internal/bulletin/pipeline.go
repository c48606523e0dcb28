package bulletin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/pdme/floodwatch/internal/config"
	"github.com/pdme/floodwatch/internal/fetcher"
	"github.com/pdme/floodwatch/internal/model"
	"github.com/pdme/floodwatch/internal/observability"
	"github.com/pdme/floodwatch/internal/pdftext"
)

// Fallback source labels. The pipeline never surfaces an error: exhaustion
// resolves to the canonical snapshot tagged with the failure mode.
const (
	sourceOfficial   = "Official IRSA Report (%s)"
	sourceConnFailed = "SIMULATION (Connection Failed)"
	sourceNoReport   = "SIMULATION (No Report For Date)"
)

// Downloader fetches a document over the network.
type Downloader interface {
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// Prober checks candidate availability without downloading.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (int, error)
}

// Pipeline drives bulletin acquisition: probe each dated candidate in
// order, extract text from the first document that resolves, parse it.
type Pipeline struct {
	downloader Downloader
	extractor  pdftext.Extractor
	clock      clockwork.Clock
	metrics    *observability.Metrics
	baseURL    string
	lookback   int
}

// NewPipeline creates an acquisition pipeline. If clock is nil the real
// clock is used; metrics may be nil.
func NewPipeline(d Downloader, e pdftext.Extractor, cfg config.BulletinConfig, clock clockwork.Clock, m *observability.Metrics) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		downloader: d,
		extractor:  e,
		clock:      clock,
		metrics:    m,
		baseURL:    cfg.BaseURL,
		lookback:   cfg.LookbackDays,
	}
}

// Fetch acquires the freshest available bulletin snapshot. All failure
// paths degrade to a fully-populated fallback; no error is returned.
func (p *Pipeline) Fetch(ctx context.Context) *model.Snapshot {
	now := p.clock.Now()
	connectionFailed := false

	for _, cand := range Candidates(p.baseURL, now, p.lookback) {
		body, err := p.downloader.Download(ctx, cand.URL)
		if err != nil {
			if errors.Is(err, fetcher.ErrNotFound) {
				p.metrics.IncFetch("no_document")
			} else {
				connectionFailed = true
				p.metrics.IncFetch("network_error")
			}
			zap.L().Warn("bulletin fetch failed",
				zap.String("url", cand.URL),
				zap.Error(err),
			)
			continue
		}

		text, err := p.extractor.ExtractText(ctx, body)
		if err != nil {
			p.metrics.IncFetch("extract_error")
			zap.L().Warn("bulletin text extraction failed",
				zap.String("url", cand.URL),
				zap.Error(err),
			)
			continue
		}

		snap := Parse(text, now)
		snap.Date = cand.Label
		snap.Source = fmt.Sprintf(sourceOfficial, cand.Label)
		p.metrics.IncFetch("success")
		zap.L().Info("bulletin acquired",
			zap.String("date", cand.Label),
			zap.String("url", cand.URL),
		)
		return snap
	}

	label := sourceNoReport
	if connectionFailed {
		label = sourceConnFailed
	}
	zap.L().Warn("no recent bulletin retrieved, serving fallback",
		zap.String("source", label),
	)
	return model.Fallback(label, now)
}

// ProbeResult reports one candidate's availability.
type ProbeResult struct {
	Candidate Candidate
	Status    int
	Err       error
}

// Diagnose checks every candidate with the short probe timeout. Diagnostic
// only: it never downloads or parses.
func (p *Pipeline) Diagnose(ctx context.Context, prober Prober) []ProbeResult {
	cands := Candidates(p.baseURL, p.clock.Now(), p.lookback)
	results := make([]ProbeResult, 0, len(cands))
	for _, cand := range cands {
		status, err := prober.Probe(ctx, cand.URL)
		results = append(results, ProbeResult{Candidate: cand, Status: status, Err: err})
	}
	return results
}
