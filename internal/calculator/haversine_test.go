package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine_SamePointIsZero(t *testing.T) {
	points := [][2]float64{
		{41.0, 29.0},
		{0, 0},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, Haversine(p[0], p[1], p[0], p[1]))
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"istanbul-ankara", 41.0082, 28.9784, 39.9334, 32.8597},
		{"across meridian", 51.5, -0.1, 48.85, 2.35},
		{"across antimeridian", 10, 179.5, 10, -179.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			ba := Haversine(tt.lat2, tt.lon2, tt.lat1, tt.lon1)
			assert.InDelta(t, ab, ba, 1e-9)
		})
	}
}

func TestHaversine_KnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expectedKm             float64
		toleranceKm            float64
	}{
		{"one degree of latitude", 41.0, 29.0, 42.0, 29.0, 111.19, 0.5},
		{"tenth of a degree", 41.0, 29.0, 41.1, 29.0, 11.12, 0.05},
		{"one degree of longitude on equator", 0, 0, 0, 1, 111.19, 0.5},
		{"equator to pole", 0, 0, 90, 0, 10007.54, 0.5},
		{"antipodal", 0, 0, 0, 180, 20015.09, 0.5},
		{"istanbul-ankara", 41.0082, 28.9784, 39.9334, 32.8597, 350.0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expectedKm, got, tt.toleranceKm)
		})
	}
}
