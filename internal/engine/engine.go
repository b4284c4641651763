package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/quake-query-service/internal/domain"
	"github.com/couchcryptid/quake-query-service/internal/observability"
)

// FeedSource retrieves the fixed rolling snapshot of recent events.
type FeedSource interface {
	RecentEvents(ctx context.Context) ([]domain.SeismicEvent, error)
}

// SearchSource issues a parameterized query against the search endpoint.
type SearchSource interface {
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.SeismicEvent, error)
}

// Publisher fans filtered events out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, events []domain.SeismicEvent) error
}

// Pinger reports whether the upstream event source is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Engine resolves query criteria against the two upstream sources, applies
// the client-side filter chain, and merges the results. It holds no mutable
// state between invocations; concurrent queries are independent and the
// caller treats the most recently completed one as authoritative.
type Engine struct {
	feed       FeedSource
	search     SearchSource
	summarizer domain.Summarizer
	publisher  Publisher
	pinger     Pinger
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates an Engine. summarizer, publisher, and pinger may be nil when
// the corresponding feature is disabled.
func New(feed FeedSource, search SearchSource, summarizer domain.Summarizer, publisher Publisher, pinger Pinger, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		feed:       feed,
		search:     search,
		summarizer: summarizer,
		publisher:  publisher,
		pinger:     pinger,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness reports upstream reachability for the readiness probe.
func (e *Engine) CheckReadiness(ctx context.Context) error {
	if e.pinger == nil {
		return nil
	}
	return e.pinger.Ping(ctx)
}

// Query resolves the criteria's time window, retrieves candidates from the
// snapshot feed and the search endpoint sequentially, filters the snapshot
// side client-side, and returns the concatenation with the snapshot events
// first. Cross-source duplicates are not removed.
//
// When exactly one source fails the result is built from the other and
// marked Degraded; when both fail the whole operation fails with
// domain.ErrDataFetch.
func (e *Engine) Query(ctx context.Context, criteria domain.QueryCriteria) (domain.ResultSet, error) {
	start, end := domain.ResolveTimeWindow(criteria)

	snapshot, feedErr := e.feed.RecentEvents(ctx)
	if feedErr != nil {
		e.logger.Warn("snapshot feed fetch failed", "error", feedErr)
	}

	var filtered []domain.SeismicEvent
	if feedErr == nil {
		filtered = domain.Apply(snapshot, domain.FiltersFor(criteria, start, end)...)
	}

	searched, searchErr := e.search.Search(ctx, domain.SearchQuery{
		Start:        start,
		End:          end,
		MinMagnitude: criteria.MinMagnitude,
		MaxMagnitude: criteria.MaxMagnitude,
		Region:       criteria.ActiveRegion(),
	})
	if searchErr != nil {
		e.logger.Warn("search endpoint fetch failed", "error", searchErr)
	}

	if feedErr != nil && searchErr != nil {
		e.metrics.QueriesTotal.WithLabelValues("query", "error").Inc()
		return domain.ResultSet{}, fmt.Errorf("%w: feed: %v; search: %v", domain.ErrDataFetch, feedErr, searchErr)
	}

	result := domain.ResultSet{
		Events:   append(filtered, searched...),
		Degraded: feedErr != nil || searchErr != nil,
	}

	e.publish(ctx, result.Events)

	e.metrics.ResultEvents.Observe(float64(len(result.Events)))
	if result.Degraded {
		e.metrics.DegradedResults.Inc()
		e.metrics.QueriesTotal.WithLabelValues("query", "degraded").Inc()
	} else {
		e.metrics.QueriesTotal.WithLabelValues("query", "success").Inc()
	}
	return result, nil
}

// Summarize fetches the snapshot feed, applies only the magnitude and time
// filters, renders the digest, and submits it to the summarization endpoint.
// On any failure the caller gets an error and no text, never a partial
// value; prior notes held by the caller stay untouched.
func (e *Engine) Summarize(ctx context.Context, criteria domain.QueryCriteria) (string, error) {
	if e.summarizer == nil {
		e.metrics.QueriesTotal.WithLabelValues("summarize", "error").Inc()
		return "", fmt.Errorf("%w: summarization is not configured", domain.ErrSummarization)
	}

	start, end := domain.ResolveTimeWindow(criteria)

	snapshot, err := e.feed.RecentEvents(ctx)
	if err != nil {
		e.metrics.QueriesTotal.WithLabelValues("summarize", "error").Inc()
		return "", fmt.Errorf("%w: feed: %v", domain.ErrDataFetch, err)
	}

	filtered := domain.Apply(snapshot, domain.DigestFiltersFor(criteria, start, end)...)

	notes, err := e.summarizer.Summarize(ctx, domain.BuildPrompt(filtered))
	if err != nil {
		e.metrics.QueriesTotal.WithLabelValues("summarize", "error").Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrSummarization, err)
	}

	e.metrics.QueriesTotal.WithLabelValues("summarize", "success").Inc()
	return notes, nil
}

// publish fans the merged events out when a publisher is configured. Fan-out
// failures are logged and counted but never fail the query.
func (e *Engine) publish(ctx context.Context, events []domain.SeismicEvent) {
	if e.publisher == nil || len(events) == 0 {
		return
	}
	if err := e.publisher.Publish(ctx, events); err != nil {
		e.metrics.PublishErrors.Inc()
		e.logger.Warn("result publish failed", "error", err, "events", len(events))
		return
	}
	e.metrics.EventsPublished.Add(float64(len(events)))
}
