// Command mockupstream serves local stand-ins for the three upstream
// contracts: the USGS all-day summary feed, the FDSN event query endpoint,
// and the summarization endpoint. It lets the service run end to end with no
// network access or API keys.
//
// Usage:
//
//	go run ./cmd/mockupstream -addr :8181
//
//	USGS_FEED_URL=http://localhost:8181/feed/all_day.geojson \
//	USGS_SEARCH_URL=http://localhost:8181/fdsnws/event/1/query \
//	SUMMARIZER_URL=http://localhost:8181/summarize \
//	go run ./cmd/server
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-query-service/internal/domain"
)

func main() {
	addr := flag.String("addr", ":8181", "listen address")
	seed := flag.Int64("seed", 1, "offset mixed into generated event ids")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /feed/all_day.geojson", handleFeed(*seed))
	mux.HandleFunc("GET /fdsnws/event/1/query", handleSearch(*seed))
	mux.HandleFunc("GET /fdsnws/event/1/version", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "1.14.1-mock")
	})
	mux.HandleFunc("POST /summarize", handleSummarize)

	log.Printf("mock upstream listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

// feature mirrors the USGS GeoJSON wire shape.
type feature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag   *float64 `json:"mag"`
		Place string   `json:"place"`
		Time  int64    `json:"time"`
		Title string   `json:"title"`
	} `json:"properties"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// generate produces one deterministic event near each region anchor per
// three-hour slot of the last day, magnitudes cycling between 2.5 and 6.0.
func generate(seed int64, now time.Time) []feature {
	var features []feature
	for slot := 0; slot < 8; slot++ {
		at := now.Add(-time.Duration(slot) * 3 * time.Hour)
		for i, r := range domain.Regions {
			mag := 2.5 + float64((slot+i)%8)*0.5
			f := feature{ID: fmt.Sprintf("mock%d%02d%02d", seed, slot, i)}
			f.Properties.Mag = &mag
			f.Properties.Place = fmt.Sprintf("%d km NE of %s anchor", 10+10*i, r.Label)
			f.Properties.Time = at.UnixMilli()
			f.Properties.Title = fmt.Sprintf("M %.1f - %s", mag, r.Label)
			f.Geometry.Type = "Point"
			f.Geometry.Coordinates = []float64{r.Lon + 0.5, r.Lat + 0.5, 10}
			features = append(features, f)
		}
	}
	return features
}

func handleFeed(seed int64) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeCollection(w, generate(seed, time.Now().UTC()))
	}
}

// handleSearch applies the server-side subset of FDSN filtering the real
// endpoint would: minimum magnitude, date bounds, and center-radius.
func handleSearch(seed int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("format") != "geojson" {
			http.Error(w, "unsupported format", http.StatusBadRequest)
			return
		}

		minMag, _ := strconv.ParseFloat(q.Get("minmagnitude"), 64)
		start, _ := time.Parse("2006-01-02", q.Get("starttime"))
		end, errEnd := time.Parse("2006-01-02", q.Get("endtime"))
		if errEnd == nil {
			// FDSN treats the end date as exclusive of the following day.
			end = end.Add(24 * time.Hour)
		}

		var anchor *domain.Geo
		var radius float64
		if q.Get("latitude") != "" {
			lat, _ := strconv.ParseFloat(q.Get("latitude"), 64)
			lon, _ := strconv.ParseFloat(q.Get("longitude"), 64)
			radius, _ = strconv.ParseFloat(q.Get("maxradiuskm"), 64)
			anchor = &domain.Geo{Lat: lat, Lon: lon}
		}

		var out []feature
		for _, f := range generate(seed, time.Now().UTC()) {
			if f.Properties.Mag == nil || *f.Properties.Mag < minMag {
				continue
			}
			at := time.UnixMilli(f.Properties.Time)
			if !start.IsZero() && at.Before(start) {
				continue
			}
			if errEnd == nil && at.After(end) {
				continue
			}
			if anchor != nil {
				pos := domain.Geo{Lon: f.Geometry.Coordinates[0], Lat: f.Geometry.Coordinates[1]}
				if domain.Haversine(pos, *anchor) > radius {
					continue
				}
			}
			out = append(out, f)
		}
		writeCollection(w, out)
	}
}

func handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid body"}`, http.StatusBadRequest)
		return
	}

	resp := struct {
		Notes string `json:"notes"`
	}{
		Notes: fmt.Sprintf("Mock summary generated at %s from a %d-byte prompt.",
			time.Now().UTC().Format(time.RFC3339), len(req.Prompt)),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeCollection(w http.ResponseWriter, features []feature) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(featureCollection{
		Type:     "FeatureCollection",
		Features: features,
	})
}
