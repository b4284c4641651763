package domain

import (
	"strings"
	"time"
)

// Predicate decides whether an event survives one filter stage.
type Predicate func(SeismicEvent) bool

// Apply runs the predicates over the events in one pass, preserving input
// order. The input slice is never modified.
func Apply(events []SeismicEvent, preds ...Predicate) []SeismicEvent {
	out := make([]SeismicEvent, 0, len(events))
outer:
	for _, e := range events {
		for _, p := range preds {
			if !p(e) {
				continue outer
			}
		}
		out = append(out, e)
	}
	return out
}

// MinMagnitude retains events with a reported magnitude of at least min.
// Events without a magnitude are excluded, not treated as zero.
func MinMagnitude(min float64) Predicate {
	return func(e SeismicEvent) bool {
		return e.Magnitude != nil && *e.Magnitude >= min
	}
}

// MaxMagnitude retains events with a reported magnitude of at most max.
func MaxMagnitude(max float64) Predicate {
	return func(e SeismicEvent) bool {
		return e.Magnitude != nil && *e.Magnitude <= max
	}
}

// WithinWindow retains events whose time falls inside [start, end] inclusive.
func WithinWindow(start, end time.Time) Predicate {
	return func(e SeismicEvent) bool {
		t := e.Time()
		return !t.Before(start) && !t.After(end)
	}
}

// PlaceContains retains events whose place description contains the query as
// a case-insensitive substring.
func PlaceContains(query string) Predicate {
	q := strings.ToLower(query)
	return func(e SeismicEvent) bool {
		return strings.Contains(strings.ToLower(e.Place), q)
	}
}

// WithinRegion retains events within the anchor's radius of its center,
// measured as great-circle distance.
func WithinRegion(r RegionAnchor) Predicate {
	center := r.Center()
	return func(e SeismicEvent) bool {
		return Haversine(e.Geo, center) <= r.Radius
	}
}

// FiltersFor assembles the full snapshot-feed filter chain for the criteria
// and resolved window. The stage order magnitude → time → place → region is
// a documented contract; it affects only how early events drop out, not
// which events survive.
func FiltersFor(c QueryCriteria, start, end time.Time) []Predicate {
	preds := []Predicate{MinMagnitude(c.MinMagnitude)}
	if c.MaxMagnitude != nil {
		preds = append(preds, MaxMagnitude(*c.MaxMagnitude))
	}
	preds = append(preds, WithinWindow(start, end))
	if strings.TrimSpace(c.PlaceQuery) != "" {
		preds = append(preds, PlaceContains(c.PlaceQuery))
	}
	if r := c.ActiveRegion(); r != nil {
		preds = append(preds, WithinRegion(*r))
	}
	return preds
}

// DigestFiltersFor assembles the reduced chain used for the narrative digest:
// magnitude and time only, no place or region filtering.
func DigestFiltersFor(c QueryCriteria, start, end time.Time) []Predicate {
	preds := []Predicate{MinMagnitude(c.MinMagnitude)}
	if c.MaxMagnitude != nil {
		preds = append(preds, MaxMagnitude(*c.MaxMagnitude))
	}
	return append(preds, WithinWindow(start, end))
}
