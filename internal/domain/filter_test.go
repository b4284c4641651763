package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func magPtr(v float64) *float64 { return &v }

func eventAt(id string, mag *float64, t time.Time, geo Geo) SeismicEvent {
	return SeismicEvent{
		ID:         id,
		Place:      "10 km NE of Somewhere",
		Magnitude:  mag,
		OccurredAt: t.UnixMilli(),
		Geo:        geo,
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	now := time.Now().UTC()
	events := []SeismicEvent{
		eventAt("a", magPtr(4), now, Geo{}),
		eventAt("b", magPtr(5), now, Geo{}),
		eventAt("c", magPtr(6), now, Geo{}),
	}

	out := Apply(events, MinMagnitude(3))

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestMinMagnitude_NilMagnitudeExcluded(t *testing.T) {
	events := []SeismicEvent{
		eventAt("reported", magPtr(3.5), time.Now(), Geo{}),
		eventAt("unreported", nil, time.Now(), Geo{}),
	}

	out := Apply(events, MinMagnitude(0))

	require.Len(t, out, 1)
	assert.Equal(t, "reported", out[0].ID)
}

func TestMaxMagnitude(t *testing.T) {
	events := []SeismicEvent{
		eventAt("small", magPtr(3.5), time.Now(), Geo{}),
		eventAt("large", magPtr(7.2), time.Now(), Geo{}),
	}

	out := Apply(events, MaxMagnitude(5))

	require.Len(t, out, 1)
	assert.Equal(t, "small", out[0].ID)
}

func TestWithinWindow_BoundsInclusive(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	events := []SeismicEvent{
		eventAt("at-start", magPtr(4), start, Geo{}),
		eventAt("inside", magPtr(4), start.Add(6*time.Hour), Geo{}),
		eventAt("at-end", magPtr(4), end, Geo{}),
		eventAt("before", magPtr(4), start.Add(-time.Millisecond), Geo{}),
		eventAt("after", magPtr(4), end.Add(time.Millisecond), Geo{}),
	}

	out := Apply(events, WithinWindow(start, end))

	require.Len(t, out, 3)
	assert.Equal(t, "at-start", out[0].ID)
	assert.Equal(t, "inside", out[1].ID)
	assert.Equal(t, "at-end", out[2].ID)
}

func TestWithinWindow_InvertedWindowMatchesNothing(t *testing.T) {
	now := time.Now().UTC()
	events := []SeismicEvent{eventAt("a", magPtr(4), now, Geo{})}

	out := Apply(events, WithinWindow(now.Add(time.Hour), now.Add(-time.Hour)))

	assert.Empty(t, out)
}

func TestPlaceContains_CaseInsensitive(t *testing.T) {
	e := eventAt("a", magPtr(4), time.Now(), Geo{})
	e.Place = "52 km SSW of Kokopo, Papua New Guinea"

	assert.True(t, PlaceContains("kokopo")(e))
	assert.True(t, PlaceContains("PAPUA")(e))
	assert.False(t, PlaceContains("chile")(e))
}

func TestWithinRegion_Idempotent(t *testing.T) {
	asia, ok := RegionByLabel("Asia")
	require.True(t, ok)

	events := []SeismicEvent{
		eventAt("tokyo", magPtr(5), time.Now(), Geo{Lat: 35.6762, Lon: 139.6503}),
		eventAt("santiago", magPtr(5), time.Now(), Geo{Lat: -33.4489, Lon: -70.6693}),
		eventAt("delhi", magPtr(5), time.Now(), Geo{Lat: 28.7041, Lon: 77.1025}),
	}

	once := Apply(events, WithinRegion(asia))
	twice := Apply(once, WithinRegion(asia))

	assert.Equal(t, once, twice)
}

// The reference scenario: minMagnitude 3, one-day lookback, no region. Only
// events that clear both the magnitude threshold and the 24-hour window
// survive.
func TestFiltersFor_MagnitudeAndWindowScenario(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	criteria := QueryCriteria{MinMagnitude: 3, LookbackDays: 1}
	start, end := now.Add(-24*time.Hour), now

	events := []SeismicEvent{
		eventAt("too-small", magPtr(2.1), now.Add(-30*time.Hour), Geo{}),
		eventAt("moderate", magPtr(3.4), now.Add(-2*time.Hour), Geo{}),
		eventAt("strong", magPtr(5.0), now.Add(-time.Hour), Geo{}),
	}

	out := Apply(events, FiltersFor(criteria, start, end)...)

	require.Len(t, out, 2)
	assert.Equal(t, "moderate", out[0].ID)
	assert.Equal(t, "strong", out[1].ID)
}

func TestFiltersFor_RegionScenario(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	criteria := QueryCriteria{MinMagnitude: 3, Regions: []string{"Asia"}}
	start, end := now.Add(-24*time.Hour), now

	events := []SeismicEvent{
		eventAt("qinghai", magPtr(4.2), now.Add(-time.Hour), Geo{Lat: 35.0, Lon: 101.0}),
		eventAt("buenos-aires", magPtr(4.2), now.Add(-time.Hour), Geo{Lat: -34.0, Lon: -58.0}),
	}

	out := Apply(events, FiltersFor(criteria, start, end)...)

	require.Len(t, out, 1)
	assert.Equal(t, "qinghai", out[0].ID)
}

func TestFiltersFor_UnknownRegionLabelSkipsSpatialFilter(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	criteria := QueryCriteria{MinMagnitude: 3, Regions: []string{"Atlantis"}}

	events := []SeismicEvent{
		eventAt("anywhere", magPtr(4), now.Add(-time.Hour), Geo{Lat: 0, Lon: 0}),
	}

	out := Apply(events, FiltersFor(criteria, now.Add(-24*time.Hour), now)...)

	assert.Len(t, out, 1)
}

// Every event surviving the full chain satisfies the magnitude and window
// invariants.
func TestFiltersFor_InvariantsHold(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	max := 6.0
	criteria := QueryCriteria{
		MinMagnitude: 3,
		MaxMagnitude: &max,
		PlaceQuery:   "of",
		Regions:      []string{"Asia"},
	}
	start, end := now.Add(-24*time.Hour), now

	events := []SeismicEvent{
		eventAt("a", magPtr(2.9), now.Add(-time.Hour), Geo{Lat: 35, Lon: 101}),
		eventAt("b", magPtr(4.5), now.Add(-time.Hour), Geo{Lat: 35, Lon: 101}),
		eventAt("c", magPtr(6.5), now.Add(-time.Hour), Geo{Lat: 35, Lon: 101}),
		eventAt("d", magPtr(4.5), now.Add(-48*time.Hour), Geo{Lat: 35, Lon: 101}),
		eventAt("e", nil, now.Add(-time.Hour), Geo{Lat: 35, Lon: 101}),
	}

	out := Apply(events, FiltersFor(criteria, start, end)...)

	asia, _ := RegionByLabel("Asia")
	for _, e := range out {
		require.NotNil(t, e.Magnitude)
		assert.GreaterOrEqual(t, *e.Magnitude, criteria.MinMagnitude)
		assert.LessOrEqual(t, *e.Magnitude, max)
		assert.False(t, e.Time().Before(start))
		assert.False(t, e.Time().After(end))
		assert.LessOrEqual(t, Haversine(e.Geo, asia.Center()), asia.Radius)
	}
	assert.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ID)
}

func TestDigestFiltersFor_IgnoresPlaceAndRegion(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	criteria := QueryCriteria{
		MinMagnitude: 3,
		PlaceQuery:   "chile",
		Regions:      []string{"Asia"},
	}

	e := eventAt("anywhere", magPtr(4), now.Add(-time.Hour), Geo{Lat: -34, Lon: -58})
	e.Place = "30 km W of Tokyo, Japan"

	out := Apply([]SeismicEvent{e}, DigestFiltersFor(criteria, now.Add(-24*time.Hour), now)...)

	assert.Len(t, out, 1)
}
