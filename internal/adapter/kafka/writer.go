package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/dlm-steering-stats/internal/config"
	"github.com/couchcryptid/dlm-steering-stats/internal/observability"
	"github.com/couchcryptid/dlm-steering-stats/internal/pipeline"
	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	maxAttempts    = 4
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes combination results to a Kafka topic, one message per
// combination. It implements pipeline.ReportLoader.
type Writer struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured results topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// ResultMessage is the payload of one published combination.
type ResultMessage struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	pipeline.CombinationResult
}

// LoadReport serializes every combination of the report and publishes them in
// a single WriteMessages call, retrying with backoff on failure.
func (w *Writer) LoadReport(ctx context.Context, report *pipeline.Report) error {
	if len(report.Results) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(report.Results))
	for i := range report.Results {
		msg, err := serializeToMessage(report, report.Results[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.writer.WriteMessages(ctx, msgs...); err == nil {
			w.metrics.ResultsPublished.Add(float64(len(msgs)))
			w.logger.Info("results published", "run_id", report.RunID, "messages", len(msgs))
			return nil
		}
		w.logger.Warn("publish results failed", "attempt", attempt, "error", err)
		if attempt == maxAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return fmt.Errorf("publish results: %w", err)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one combination into a Kafka message keyed by
// the combination key.
func serializeToMessage(report *pipeline.Report, res pipeline.CombinationResult) (kafkago.Message, error) {
	data, err := json.Marshal(ResultMessage{
		RunID:             report.RunID,
		GeneratedAt:       report.GeneratedAt,
		CombinationResult: res,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize combination %s: %w", res.Key, err)
	}
	status := "computed"
	if !res.Computed() {
		status = "skipped"
	}
	return kafkago.Message{
		Key:   []byte(res.Key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(report.RunID)},
			{Key: "region", Value: []byte(res.Region)},
			{Key: "status", Value: []byte(status)},
			{Key: "generated_at", Value: []byte(report.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
