//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/quake-query-service/internal/config"
	"github.com/couchcryptid/quake-query-service/internal/domain"
)

const testResultTopic = "test-seismic-results"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a throwaway Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublisherRoundTrip verifies that published query results come back off
// the topic with the expected key, headers, and payload.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testResultTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testResultTopic,
	}

	publisher := NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	mag1, mag2 := 5.3, 4.1
	events := []domain.SeismicEvent{
		{
			ID:         "us7000abcd",
			Place:      "52 km SSW of Kokopo, Papua New Guinea",
			Magnitude:  &mag1,
			OccurredAt: time.Now().Add(-time.Hour).UnixMilli(),
			Geo:        domain.Geo{Lat: -4.6, Lon: 152.1, Depth: 42},
		},
		{
			ID:         "us7000efgh",
			Place:      "near Tokyo, Japan",
			Magnitude:  &mag2,
			OccurredAt: time.Now().Add(-2 * time.Hour).UnixMilli(),
			Geo:        domain.Geo{Lat: 35.67, Lon: 139.65},
		},
	}

	require.NoError(t, publisher.Publish(ctx, events))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testResultTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make([]domain.SeismicEvent, 0, len(events))
	keys := make([]string, 0, len(events))
	for len(received) < len(events) {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from result topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Contains(t, headers, "occurred_at")
		assert.Contains(t, headers, "queried_at")
		_, err = time.Parse(time.RFC3339, headers["queried_at"])
		assert.NoError(t, err, "queried_at should be valid RFC3339")

		var event domain.SeismicEvent
		require.NoError(t, json.Unmarshal(msg.Value, &event))
		received = append(received, event)
		keys = append(keys, string(msg.Key))
	}

	require.Len(t, received, 2)
	assert.Equal(t, []string{"us7000abcd", "us7000efgh"}, keys)
	assert.Equal(t, events[0].Place, received[0].Place)
	require.NotNil(t, received[0].Magnitude)
	assert.Equal(t, mag1, *received[0].Magnitude)
	assert.Equal(t, events[1].Geo, received[1].Geo)
}

// TestPublishEmptyBatchIsNoop verifies that publishing no events performs no writes.
func TestPublishEmptyBatchIsNoop(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers: []string{"localhost:1"},
		KafkaTopic:   testResultTopic,
	}
	publisher := NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	// An unreachable broker proves no network call happens for empty input.
	assert.NoError(t, publisher.Publish(context.Background(), nil))
}
