package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/couchcryptid/upper-winds-etl/internal/domain"
	"github.com/couchcryptid/upper-winds-etl/internal/observability"
)

// TeeSink writes each record to every wrapped sink in order. A failing sink
// does not stop the others; the failures are joined into one error.
type TeeSink struct {
	sinks   []Sink
	metrics *observability.Metrics
}

// Tee combines sinks into one and records per-sink write outcomes.
func Tee(metrics *observability.Metrics, sinks ...Sink) *TeeSink {
	return &TeeSink{sinks: sinks, metrics: metrics}
}

// Name lists the wrapped sinks, e.g. "mongo+kafka".
func (t *TeeSink) Name() string {
	names := make([]string, len(t.sinks))
	for i, s := range t.sinks {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

func (t *TeeSink) Store(ctx context.Context, rec domain.NormalizedRecord, airportCode string) error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.Store(ctx, rec, airportCode); err != nil {
			t.metrics.StoreWrites.WithLabelValues(s.Name(), "error").Inc()
			errs = append(errs, err)
			continue
		}
		t.metrics.StoreWrites.WithLabelValues(s.Name(), "success").Inc()
	}
	return errors.Join(errs...)
}
