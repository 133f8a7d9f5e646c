//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/dlm-steering-stats/internal/adapter/archive"
	"github.com/couchcryptid/dlm-steering-stats/internal/adapter/kafka"
	"github.com/couchcryptid/dlm-steering-stats/internal/config"
	"github.com/couchcryptid/dlm-steering-stats/internal/domain"
	"github.com/couchcryptid/dlm-steering-stats/internal/observability"
	"github.com/couchcryptid/dlm-steering-stats/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testResultsTopic = "test-results"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("dlm-stats-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// publishedResult holds a deserialized message read from the results topic.
type publishedResult struct {
	Result  kafka.ResultMessage
	Key     string
	Headers map[string]string
}

func readResult(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedResult {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from results topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var res kafka.ResultMessage
	require.NoError(t, json.Unmarshal(msg.Value, &res), "unmarshal result message")

	return publishedResult{Result: res, Key: string(msg.Key), Headers: headers}
}

// mockArchive writes two seasons for a Texas and a Louisiana point; speeds
// cycle through 1..6 m/s.
func mockArchive(t *testing.T) string {
	t.Helper()
	locs := []domain.Location{{Lon: -95.0, Lat: 29.5}, {Lon: -90.0, Lat: 29.5}}
	n := 2 * domain.SlotsPerSeason
	field := &domain.WindField{Locations: locs, Times: make([]float64, n), Speeds: make([][]float64, len(locs))}
	for j := range field.Times {
		field.Times[j] = domain.ToSerialDay(domain.SlotTime(j))
	}
	for i := range locs {
		row := make([]float64, n)
		for j := range row {
			row[j] = float64(1+j%6) + 0.5
		}
		field.Speeds[i] = row
	}

	path := filepath.Join(t.TempDir(), "archive.json.zst")
	require.NoError(t, archive.SaveWindField(path, field))
	return path
}

// TestPipelinePublishesResults runs the analysis from an archive file through
// the Kafka writer and verifies every combination arrives on the topic.
func TestPipelinePublishesResults(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testResultsTopic)

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testResultsTopic,
	}

	field, err := archive.LoadWindField(mockArchive(t))
	require.NoError(t, err)
	region, err := domain.ParseRegion("TX")
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	writer := kafka.NewWriter(cfg, discardLogger(), metrics)
	t.Cleanup(func() { _ = writer.Close() })

	opts := pipeline.DefaultOptions()
	opts.Periods = []domain.Period{{FirstSeason: 0, EndSeason: 2}}
	opts.Bootstrap.Resamples = 50
	opts.Rand = rand.New(rand.NewSource(1))
	p := pipeline.New(opts, discardLogger(), metrics, writer)

	report, err := p.Run(ctx, pipeline.Input{Field: field, Region: region})
	require.NoError(t, err)
	require.Len(t, report.Results, len(domain.AllBuckets()))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testResultsTopic,
		GroupID:     fmt.Sprintf("test-results-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]publishedResult, len(report.Results))
	for len(received) < len(report.Results) {
		pr := readResult(ctx, t, consumer)
		received[pr.Key] = pr
	}

	for _, want := range report.Results {
		got, ok := received[want.Key]
		require.True(t, ok, "missing message for %s", want.Key)

		assert.Equal(t, report.RunID, got.Headers["run_id"])
		assert.Equal(t, "TX", got.Headers["region"])
		assert.Equal(t, "computed", got.Headers["status"])
		_, err := time.Parse(time.RFC3339, got.Headers["generated_at"])
		assert.NoError(t, err, "invalid generated_at format")

		assert.Equal(t, report.RunID, got.Result.RunID)
		assert.Equal(t, want.Binned, got.Result.Binned)
		assert.Equal(t, want.Counts, got.Result.Counts)
	}

	all := received["texas_ALL_79_80"]
	require.NotNil(t, all.Result.MedianCI)
	// Only the single Texas point is retained: 1464 samples, a sixth per bin 1..6.
	assert.Equal(t, 2*domain.SlotsPerSeason, all.Result.Binned)
	assert.Equal(t, 2*domain.SlotsPerSeason/6, all.Result.Counts[1])
}
