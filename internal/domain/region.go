package domain

// RegionAnchor is a named coarse geographic filter: a continent-level center
// point and a radius in kilometers. The table is static and never mutated
// after initialization.
type RegionAnchor struct {
	Label  string  `json:"label"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Radius float64 `json:"radius_km"`
}

// Center returns the anchor's center coordinate.
func (r RegionAnchor) Center() Geo {
	return Geo{Lat: r.Lat, Lon: r.Lon}
}

// Regions is the fixed continent table. Radii are deliberately generous;
// the anchors exist for coarse filtering, not precise continental borders.
var Regions = []RegionAnchor{
	{Label: "Asia", Lat: 34.0479, Lon: 100.6197, Radius: 5000},
	{Label: "North America", Lat: 54.526, Lon: -105.2551, Radius: 5000},
	{Label: "South America", Lat: -8.7832, Lon: -55.4915, Radius: 4000},
	{Label: "Europe", Lat: 54.526, Lon: 15.2551, Radius: 4000},
	{Label: "Africa", Lat: 8.7832, Lon: 34.5085, Radius: 5000},
	{Label: "Antarctica", Lat: -82.8628, Lon: 135.0, Radius: 2500},
	{Label: "Australia", Lat: -25.2744, Lon: 133.7751, Radius: 3000},
}

// RegionByLabel looks up a region anchor by its exact label.
func RegionByLabel(label string) (RegionAnchor, bool) {
	for _, r := range Regions {
		if r.Label == label {
			return r, true
		}
	}
	return RegionAnchor{}, false
}
