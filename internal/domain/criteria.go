package domain

import "time"

// Defaults applied when a caller leaves the corresponding criteria fields
// unset.
const (
	DefaultMinMagnitude = 3.0
	DefaultLookbackDays = 1
)

// QueryCriteria is the immutable input to one query. It is constructed once
// per invocation and passed by value; an in-flight query never observes later
// edits to the caller's form state.
type QueryCriteria struct {
	// PlaceQuery is an optional case-insensitive substring matched against
	// the event's place description.
	PlaceQuery string

	MinMagnitude float64
	MaxMagnitude *float64

	// StartDate and EndDate are optional explicit window bounds (calendar
	// dates). The zero value means unset.
	StartDate time.Time
	EndDate   time.Time

	// LookbackDays is the fallback window length used only when StartDate
	// is unset. Values below 1 fall back to DefaultLookbackDays.
	LookbackDays int

	// Regions holds the selected region labels in selection order. Only
	// the first label that resolves against the region table is applied
	// as a spatial filter.
	Regions []string
}

// ActiveRegion resolves the first selected region label, or nil when no
// region filter is active.
func (c QueryCriteria) ActiveRegion() *RegionAnchor {
	if len(c.Regions) == 0 {
		return nil
	}
	if r, ok := RegionByLabel(c.Regions[0]); ok {
		return &r
	}
	return nil
}

// ResolveTimeWindow computes the concrete [start, end] window for the
// criteria. Each bound falls back independently: end defaults to now, start
// defaults to now minus the lookback window (computed from now, not from
// end). An inverted window is not an error; it simply matches nothing.
func ResolveTimeWindow(c QueryCriteria) (start, end time.Time) {
	now := clock.Now()

	end = c.EndDate
	if end.IsZero() {
		end = now
	}

	start = c.StartDate
	if start.IsZero() {
		days := c.LookbackDays
		if days < 1 {
			days = DefaultLookbackDays
		}
		start = now.Add(-time.Duration(days) * 24 * time.Hour)
	}

	return start, end
}
