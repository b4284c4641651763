package domain

import "time"

// Geo represents a WGS-84 coordinate with the optional depth reported by the
// upstream feed (kilometers below the surface).
type Geo struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Depth float64 `json:"depth,omitempty"`
}

// SeismicEvent is one earthquake observation parsed from an upstream feature.
// Events are created only at the feed boundary and never mutated afterwards;
// a new query replaces the whole set.
type SeismicEvent struct {
	ID    string `json:"id"`
	Place string `json:"place"`
	Title string `json:"title,omitempty"`

	// Magnitude is nil when the source reported no magnitude. Missing
	// magnitudes are excluded by magnitude filtering rather than treated
	// as zero.
	Magnitude *float64 `json:"magnitude"`

	// OccurredAt is the event time in epoch milliseconds, as reported
	// upstream.
	OccurredAt int64 `json:"occurred_at"`

	Geo Geo `json:"geo"`
}

// Time returns the event time in UTC.
func (e SeismicEvent) Time() time.Time {
	return time.UnixMilli(e.OccurredAt).UTC()
}

// ResultSet is the outcome of one query: the merged event sequence in source
// order (snapshot feed first, then search endpoint), optional narrative notes,
// and a flag marking results assembled from only one of the two sources.
type ResultSet struct {
	Events   []SeismicEvent `json:"events"`
	Notes    string         `json:"notes,omitempty"`
	Degraded bool           `json:"degraded,omitempty"`
}

// SearchQuery carries the parameters forwarded to the parameterized search
// endpoint. Dates travel as calendar dates, so sub-day precision is lost on
// this path.
type SearchQuery struct {
	Start        time.Time
	End          time.Time
	MinMagnitude float64
	MaxMagnitude *float64
	Region       *RegionAnchor
}
