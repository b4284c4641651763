package usgs

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/quake-query-service/internal/domain"
	"github.com/couchcryptid/quake-query-service/internal/observability"
)

// Source labels used in logs and metrics.
const (
	sourceFeed   = "feed"
	sourceSearch = "search"
)

// Client talks to the two USGS services: the fixed all-day summary feed and
// the parameterized FDSN event query endpoint.
type Client struct {
	http      *resty.Client
	feedURL   string
	searchURL string
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewClient creates a USGS client. The timeout applies per request; there is
// no retry policy, a single failure is terminal for the invocation.
func NewClient(feedURL, searchURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		http:      resty.New().SetTimeout(timeout),
		feedURL:   feedURL,
		searchURL: searchURL,
		metrics:   metrics,
		logger:    logger,
	}
}

// RecentEvents retrieves the rolling all-day snapshot feed. The feed is
// unparameterized; callers apply their own filtering.
func (c *Client) RecentEvents(ctx context.Context) ([]domain.SeismicEvent, error) {
	return c.fetch(ctx, sourceFeed, c.feedURL, nil)
}

// Search issues a parameterized query to the FDSN event endpoint. Window
// bounds are sent as calendar dates, so sub-day precision is lost on this
// path; magnitude and spatial constraints are enforced server-side.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) ([]domain.SeismicEvent, error) {
	params := map[string]string{
		"format":       "geojson",
		"starttime":    q.Start.Format("2006-01-02"),
		"endtime":      q.End.Format("2006-01-02"),
		"minmagnitude": strconv.FormatFloat(q.MinMagnitude, 'f', -1, 64),
		"orderby":      "time",
	}
	if q.MaxMagnitude != nil {
		params["maxmagnitude"] = strconv.FormatFloat(*q.MaxMagnitude, 'f', -1, 64)
	}
	if q.Region != nil {
		params["latitude"] = strconv.FormatFloat(q.Region.Lat, 'f', -1, 64)
		params["longitude"] = strconv.FormatFloat(q.Region.Lon, 'f', -1, 64)
		params["maxradiuskm"] = strconv.FormatFloat(q.Region.Radius, 'f', -1, 64)
	}
	return c.fetch(ctx, sourceSearch, c.searchURL, params)
}

// Ping checks upstream reachability via the FDSN version endpoint. Used by
// the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	url := strings.TrimSuffix(c.searchURL, "/query") + "/version"
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("usgs ping: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("usgs ping: status %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, source, url string, params map[string]string) ([]domain.SeismicEvent, error) {
	start := time.Now()

	req := c.http.R().SetContext(ctx).SetResult(&featureCollection{})
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(url)
	c.metrics.UpstreamDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("usgs %s request: %w", source, err)
	}
	if resp.IsError() {
		c.metrics.UpstreamRequests.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("usgs %s: status %d: %s", source, resp.StatusCode(), resp.String())
	}

	fc, ok := resp.Result().(*featureCollection)
	if !ok {
		c.metrics.UpstreamRequests.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("usgs %s: unexpected response shape", source)
	}

	c.metrics.UpstreamRequests.WithLabelValues(source, "success").Inc()
	return c.mapFeatures(source, fc), nil
}

// mapFeatures converts upstream features into domain events, dropping the
// ones that fail schema validation rather than trusting field presence.
func (c *Client) mapFeatures(source string, fc *featureCollection) []domain.SeismicEvent {
	events := make([]domain.SeismicEvent, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.ID == "" {
			c.metrics.DroppedFeatures.WithLabelValues(source, "missing_id").Inc()
			c.logger.Warn("dropping feature without id", "source", source)
			continue
		}
		if len(f.Geometry.Coordinates) < 2 {
			c.metrics.DroppedFeatures.WithLabelValues(source, "bad_coordinates").Inc()
			c.logger.Warn("dropping feature with bad coordinates",
				"source", source, "id", f.ID, "coordinates", len(f.Geometry.Coordinates))
			continue
		}

		geo := domain.Geo{
			Lon: f.Geometry.Coordinates[0],
			Lat: f.Geometry.Coordinates[1],
		}
		if len(f.Geometry.Coordinates) > 2 {
			geo.Depth = f.Geometry.Coordinates[2]
		}

		events = append(events, domain.SeismicEvent{
			ID:         f.ID,
			Place:      f.Properties.Place,
			Title:      f.Properties.Title,
			Magnitude:  f.Properties.magnitude(),
			OccurredAt: f.Properties.Time,
			Geo:        geo,
		})
	}
	return events
}

// USGS GeoJSON response types.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string            `json:"id"`
	Properties featureProperties `json:"properties"`
	Geometry   featureGeometry   `json:"geometry"`
}

type featureProperties struct {
	Mag *float64 `json:"mag"`
	// MagnitudeAlt covers the alternate "magnitude" spelling seen in
	// historical payload revisions.
	MagnitudeAlt *float64 `json:"magnitude"`
	Place        string   `json:"place"`
	Time         int64    `json:"time"`
	Title        string   `json:"title"`
}

// magnitude resolves the two upstream spellings, preferring the canonical one.
func (p featureProperties) magnitude() *float64 {
	if p.Mag != nil {
		return p.Mag
	}
	return p.MagnitudeAlt
}

type featureGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}
