// Package heatmap summarizes report coordinates into ranked grid cells for
// the "most reported areas" view.
package heatmap

import (
	"math"
	"sort"
)

// MaxAreas caps the number of buckets returned by TopAreas.
const MaxAreas = 5

// Point is a report coordinate
type Point struct {
	Lat float64
	Lng float64
}

// Area is one grid cell with its report count. Lat/Lng are the rounded
// cell coordinates.
type Area struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Count int     `json:"count"`
}

// TopAreas buckets points into 2-decimal-degree cells (roughly 1.1 km at
// the equator) and returns at most MaxAreas cells by descending count.
// Ties keep first-encountered order.
func TopAreas(points []Point) []Area {
	type cell struct {
		lat, lng float64
	}

	counts := make(map[cell]int)
	var order []cell
	for _, p := range points {
		c := cell{lat: round2(p.Lat), lng: round2(p.Lng)}
		if _, seen := counts[c]; !seen {
			order = append(order, c)
		}
		counts[c]++
	}

	areas := make([]Area, 0, len(order))
	for _, c := range order {
		areas = append(areas, Area{Lat: c.lat, Lng: c.lng, Count: counts[c]})
	}

	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Count > areas[j].Count
	})

	if len(areas) > MaxAreas {
		areas = areas[:MaxAreas]
	}
	return areas
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
