package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopAreas(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   []Area
	}{
		{
			name:   "empty input",
			points: nil,
			want:   []Area{},
		},
		{
			name: "points in the same cell aggregate",
			points: []Point{
				{Lat: 14.601, Lng: 121.001},
				{Lat: 14.602, Lng: 120.999},
				{Lat: 14.604, Lng: 121.004},
			},
			want: []Area{{Lat: 14.60, Lng: 121.00, Count: 3}},
		},
		{
			name: "cells rank by descending count",
			points: []Point{
				{Lat: 10.10, Lng: 10.10},
				{Lat: 20.20, Lng: 20.20},
				{Lat: 20.20, Lng: 20.20},
			},
			want: []Area{
				{Lat: 20.20, Lng: 20.20, Count: 2},
				{Lat: 10.10, Lng: 10.10, Count: 1},
			},
		},
		{
			name: "ties keep first-encountered order",
			points: []Point{
				{Lat: 1.11, Lng: 1.11},
				{Lat: 2.22, Lng: 2.22},
				{Lat: 3.33, Lng: 3.33},
				{Lat: 2.22, Lng: 2.22},
				{Lat: 1.11, Lng: 1.11},
			},
			want: []Area{
				{Lat: 1.11, Lng: 1.11, Count: 2},
				{Lat: 2.22, Lng: 2.22, Count: 2},
				{Lat: 3.33, Lng: 3.33, Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopAreas(tt.points)
			assert.Equal(t, len(tt.want), len(got))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i])
			}
		})
	}
}

func TestTopAreasCapsAtFive(t *testing.T) {
	var points []Point
	// Seven distinct cells, counts 7..1, shuffled-ish insertion order.
	for i := 0; i < 7; i++ {
		for j := 0; j <= 7-i; j++ {
			points = append(points, Point{Lat: float64(i), Lng: float64(i)})
		}
	}

	got := TopAreas(points)
	assert.Len(t, got, MaxAreas)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
	}
}

func TestTopAreasRoundsToTwoDecimals(t *testing.T) {
	got := TopAreas([]Point{{Lat: 14.5995, Lng: 121.0049}})
	assert.Equal(t, []Area{{Lat: 14.6, Lng: 121.0, Count: 1}}, got)
}
