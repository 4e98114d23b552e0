package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/upper-winds-etl/internal/config"
	"github.com/couchcryptid/upper-winds-etl/internal/domain"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SinkName labels this sink in logs, errors, and metrics.
const SinkName = "mongo"

const disconnectTimeout = 5 * time.Second

// Sink inserts normalized records into MongoDB, one collection per airport code.
// It implements pipeline.Sink. A client is opened and closed around every
// Store call.
type Sink struct {
	uri        string
	database   string
	collPrefix string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewSink creates a MongoDB sink for the configured URI and database.
func NewSink(cfg *config.Config, logger *slog.Logger) *Sink {
	return &Sink{
		uri:        cfg.MongoURI,
		database:   cfg.MongoDatabase,
		collPrefix: cfg.MongoCollectionPrefix,
		timeout:    cfg.StoreTimeout,
		logger:     logger,
	}
}

// Name implements pipeline.Sink.
func (s *Sink) Name() string { return SinkName }

// Store inserts rec as a new document. Any failure is returned as a *domain.StoreError.
func (s *Sink) Store(ctx context.Context, rec domain.NormalizedRecord, airportCode string) error {
	if err := s.store(ctx, rec, airportCode); err != nil {
		return &domain.StoreError{AirportCode: airportCode, Sink: SinkName, Err: err}
	}
	return nil
}

func (s *Sink) store(ctx context.Context, rec domain.NormalizedRecord, airportCode string) (err error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
		defer dcancel()
		if derr := client.Disconnect(dctx); derr != nil {
			err = s.disconnectFailed(err, derr, airportCode)
		}
	}()

	coll := client.Database(s.database).Collection(CollectionName(s.collPrefix, airportCode))
	res, err := coll.InsertOne(ctx, rec)
	if err != nil {
		return fmt.Errorf("insert into %s.%s: %w", s.database, coll.Name(), err)
	}

	s.logger.Debug("record inserted",
		"airport_code", airportCode,
		"collection", coll.Name(),
		"id", res.InsertedID,
	)
	return nil
}

// disconnectFailed folds a disconnect error into the store result. A record
// that was inserted stays stored; the disconnect failure is only logged.
func (s *Sink) disconnectFailed(storeErr, disconnectErr error, airportCode string) error {
	s.logger.Warn("mongo disconnect failed", "airport_code", airportCode, "error", disconnectErr)
	if storeErr == nil {
		return nil
	}
	return errors.Join(storeErr, fmt.Errorf("disconnect: %w", disconnectErr))
}

// CollectionName returns the per-airport collection, e.g. "upper_winds_cyyu".
func CollectionName(prefix, airportCode string) string {
	code := strings.ToLower(strings.TrimSpace(airportCode))
	if prefix == "" {
		return code
	}
	return prefix + "_" + code
}
