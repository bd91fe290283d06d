package geofence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceToSelfIsZero(t *testing.T) {
	for _, p := range [][2]float64{{0, 0}, {12.9716, 77.5946}, {-33.8688, 151.2093}, {89.9, -179.9}} {
		assert.Equal(t, 0.0, Distance(p[0], p[1], p[0], p[1]))
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	pairs := [][4]float64{
		{12.9716, 77.5946, 13.0827, 80.2707},
		{51.5237, -0.1585, 40.7128, -74.0060},
		{-33.8688, 151.2093, 35.6762, 139.6503},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1], p[2], p[3]), Distance(p[2], p[3], p[0], p[1]))
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// one degree of arc along the equator
	assert.InDelta(t, EarthRadius*math.Pi/180, Distance(0, 0, 0, 1), 1e-6)
	// antipodes
	assert.InDelta(t, EarthRadius*math.Pi, Distance(0, 0, 0, 180), 1e-6)
	// Bengaluru to Chennai, roughly 290 km
	assert.InDelta(t, 290_000, Distance(12.9716, 77.5946, 13.0827, 80.2707), 5_000)
}
