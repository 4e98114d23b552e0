package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/couchcryptid/upper-winds-etl/internal/domain"
	"github.com/couchcryptid/upper-winds-etl/internal/observability"
)

// Fetcher retrieves the raw upper wind forecast for one airport code.
type Fetcher interface {
	Fetch(ctx context.Context, airportCode string) (domain.RawForecast, error)
}

// Sink persists a normalized record for one airport code.
type Sink interface {
	Name() string
	Store(ctx context.Context, rec domain.NormalizedRecord, airportCode string) error
}

// Report summarizes one pass over the configured airport codes.
type Report struct {
	Stored []string
	Failed []string
}

// Pipeline runs fetch, transform, and store for each configured airport code.
type Pipeline struct {
	fetcher Fetcher
	sink    Sink
	codes   []string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline over the given airport codes.
func New(f Fetcher, s Sink, codes []string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher: f,
		sink:    s,
		codes:   codes,
		logger:  logger,
		metrics: metrics,
	}
}

// Run processes every configured airport code in order. A failure for one code
// is logged and the loop moves on to the next; Run itself never fails.
func (p *Pipeline) Run(ctx context.Context) Report {
	start := time.Now()
	p.logger.Info("upper winds job started", "airport_codes", p.codes)
	p.metrics.RunInProgress.Set(1)
	defer p.metrics.RunInProgress.Set(0)

	var report Report
	for _, code := range p.codes {
		if p.processCode(ctx, code) {
			report.Stored = append(report.Stored, code)
		} else {
			report.Failed = append(report.Failed, code)
		}
	}

	p.metrics.RunsTotal.Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastRunTimestamp.SetToCurrentTime()

	p.logger.Info("upper winds job finished",
		"stored", len(report.Stored),
		"failed", len(report.Failed),
		"duration", time.Since(start),
	)
	return report
}

// processCode runs one fetch-transform-store cycle. Returns true if the record was stored.
func (p *Pipeline) processCode(ctx context.Context, code string) bool {
	raw, err := p.fetcher.Fetch(ctx, code)
	if err != nil {
		p.logger.Error("fetch failed, skipping airport", "airport_code", code, "error", err)
		return false
	}
	p.logger.Info("forecast fetched", "airport_code", code, "entries", len(raw.Entries))

	rec, skipped := domain.Transform(raw, domain.Now())
	for _, s := range skipped {
		p.logger.Warn("malformed forecast entry skipped",
			"airport_code", code,
			"index", s.Index,
			"start_validity", s.StartValidity,
			"error", s.Err,
		)
	}
	p.metrics.SkippedEntries.Add(float64(len(skipped)))
	p.logRecord(code, rec)

	if err := p.sink.Store(ctx, rec, code); err != nil {
		p.logger.Error("store failed", "airport_code", code, "sink", p.sink.Name(), "error", err)
		return false
	}
	p.logger.Info("record stored", "airport_code", code, "sink", p.sink.Name())
	return true
}

func (p *Pipeline) logRecord(code string, rec domain.NormalizedRecord) {
	if !p.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	pretty, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		p.logger.Warn("record not printable", "airport_code", code, "error", err)
		return
	}
	p.logger.Debug("normalized record", "airport_code", code, "record", string(pretty))
}
