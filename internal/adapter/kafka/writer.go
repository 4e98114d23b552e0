package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/upper-winds-etl/internal/config"
	"github.com/couchcryptid/upper-winds-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// SinkName labels this sink in logs, errors, and metrics.
const SinkName = "kafka"

// Writer publishes normalized records to a Kafka topic, keyed by airport code.
// It implements pipeline.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Name implements pipeline.Sink.
func (w *Writer) Name() string { return SinkName }

// Store publishes rec. Any failure is returned as a *domain.StoreError.
func (w *Writer) Store(ctx context.Context, rec domain.NormalizedRecord, airportCode string) error {
	msg, err := serializeToMessage(rec, airportCode)
	if err == nil {
		err = w.writer.WriteMessages(ctx, msg)
	}
	if err != nil {
		return &domain.StoreError{AirportCode: airportCode, Sink: SinkName, Err: err}
	}
	w.logger.Debug("record published", "airport_code", airportCode, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a NormalizedRecord into a Kafka message.
func serializeToMessage(rec domain.NormalizedRecord, airportCode string) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	code := strings.ToUpper(airportCode)
	return kafkago.Message{
		Key:   []byte(code),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "airport_code", Value: []byte(code)},
			{Key: "captured_at", Value: []byte(rec.Datetime)},
		},
	}, nil
}
