//go:build usgs

package usgs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-query-service/internal/config"
	"github.com/couchcryptid/quake-query-service/internal/domain"
	"github.com/couchcryptid/quake-query-service/internal/observability"
)

// These tests hit the real USGS services.
// Run with: go test -tags=usgs ./internal/adapter/usgs/ -v -count=1

func smokeClient() *Client {
	return NewClient(config.DefaultFeedURL, config.DefaultSearchURL, 30*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_RecentEvents(t *testing.T) {
	events, err := smokeClient().RecentEvents(context.Background())
	require.NoError(t, err)

	// The all-day feed essentially always has events.
	assert.NotEmpty(t, events)
	for _, e := range events {
		assert.NotEmpty(t, e.ID)
	}
}

func TestSmoke_Search(t *testing.T) {
	now := time.Now().UTC()
	events, err := smokeClient().Search(context.Background(), domain.SearchQuery{
		Start:        now.Add(-7 * 24 * time.Hour),
		End:          now,
		MinMagnitude: 5,
	})
	require.NoError(t, err)

	for _, e := range events {
		require.NotNil(t, e.Magnitude)
		assert.GreaterOrEqual(t, *e.Magnitude, 5.0)
	}
}

func TestSmoke_Ping(t *testing.T) {
	assert.NoError(t, smokeClient().Ping(context.Background()))
}
