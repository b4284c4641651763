// Package domain models USGS earthquake observations and the filter
// primitives applied to them.
//
// # Data Sources
//
// Events come from two USGS services that share one GeoJSON feature shape:
//
//   - The rolling all-day summary feed, a fixed unparameterized snapshot at
//     https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson.
//   - The FDSN event query endpoint at
//     https://earthquake.usgs.gov/fdsnws/event/1/query, which accepts
//     calendar-date bounds, a minimum magnitude, and an optional
//     center-plus-radius spatial filter.
//
// # USGS Feature Conventions
//
// Magnitude:
//
//	The canonical property is "mag". Some historical payload revisions spell
//	it "magnitude"; both are accepted at the boundary. A null or missing
//	magnitude means unreported, which magnitude filters treat as excluded
//	rather than zero.
//
// Coordinates:
//
//	geometry.coordinates is [longitude, latitude, depth]. Note the lon-lat
//	order, opposite of the lat-lon convention used everywhere else in this
//	package.
//
// Time:
//
//	properties.time is epoch milliseconds UTC.
//
// # Time Windows
//
// A query window resolves each bound independently: the end falls back to
// now, the start falls back to now minus the lookback window. Both fallbacks
// are computed from now, so an explicit end date with no start date still
// anchors the start to the present. Inverted windows are legal and match
// nothing.
//
// # Region Anchors
//
// Continent-level filtering uses seven fixed anchors (center + radius in
// kilometers) defined in [Regions]. Membership is great-circle distance via
// the haversine formula with a mean Earth radius of 6371 km. When several
// region labels are selected only the first resolvable one is applied.
//
// # Filter Chain
//
// Snapshot-feed events pass through an ordered predicate chain:
// magnitude → time window → place substring → region. The order is a
// documented contract; it affects evaluation cost only, never the surviving
// set. The narrative digest path uses the reduced magnitude → time chain.
package domain
