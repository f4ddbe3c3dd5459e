package entry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var centralPark = Coordinate{Latitude: 40.7851, Longitude: -73.9683}

func TestDistance_Reflexive(t *testing.T) {
	assert.Equal(t, 0.0, Distance(centralPark, centralPark))
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{centralPark, {Latitude: 34.0522, Longitude: -118.2437}},
		{{Latitude: 89.9999, Longitude: 10}, {Latitude: 89.9999, Longitude: -170}},
		{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 180}},
		{{Latitude: -33.8688, Longitude: 151.2093}, {Latitude: 51.5074, Longitude: -0.1278}},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]))
	}
}

func TestDistance_KnownValue(t *testing.T) {
	// New York to Los Angeles is roughly 3936 km.
	d := Distance(centralPark, Coordinate{Latitude: 34.0522, Longitude: -118.2437})
	assert.InDelta(t, 3_936_000, d, 20_000)
}

func TestDistance_AntipodalAndPoles(t *testing.T) {
	halfCircumference := math.Pi * EarthRadiusMeters

	tests := []struct {
		name string
		a, b Coordinate
		want float64
	}{
		{"antipodal equator", Coordinate{0, 0}, Coordinate{0, 180}, halfCircumference},
		{"pole to pole", Coordinate{90, 0}, Coordinate{-90, 0}, halfCircumference},
		{"north pole any longitude", Coordinate{90, 0}, Coordinate{90, 123}, 0},
		{"antipodal offset", Coordinate{40.7851, -73.9683}, Coordinate{-40.7851, 106.0317}, halfCircumference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Distance(tt.a, tt.b)
			require.False(t, math.IsNaN(d), "distance must not be NaN")
			assert.InDelta(t, tt.want, d, 1.0)
		})
	}
}

func TestDistance_Monotonic(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 180; i++ {
		d := Distance(Coordinate{0, 0}, Coordinate{0, float64(i)})
		assert.Greater(t, d, prev, "distance should grow with longitude offset %d", i)
		prev = d
	}
}

func TestIsWithin(t *testing.T) {
	fence := Geofence{ID: "g", Latitude: centralPark.Latitude, Longitude: centralPark.Longitude, Radius: 150}

	assert.True(t, IsWithin(fence, centralPark), "center is always within")

	// ~0.0045 degrees of latitude is ~500 m.
	farther := Coordinate{Latitude: centralPark.Latitude + 0.0045, Longitude: centralPark.Longitude}
	assert.False(t, IsWithin(fence, farther))

	// ~0.0009 degrees of latitude is ~100 m.
	closer := Coordinate{Latitude: centralPark.Latitude + 0.0009, Longitude: centralPark.Longitude}
	assert.True(t, IsWithin(fence, closer))
}

func TestIsWithin_TinyRadiusCenter(t *testing.T) {
	fence := Geofence{Latitude: -89.5, Longitude: 179.9, Radius: 0.001}
	assert.True(t, IsWithin(fence, fence.Center()))
}
