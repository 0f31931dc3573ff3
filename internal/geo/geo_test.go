package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	palmerston = Point{Lat: -40.3523, Lon: 175.6082}
	wellington = Point{Lat: -41.2866, Lon: 174.7756}
	auckland   = Point{Lat: -36.8485, Lon: 174.7633}
)

func TestDistanceKm_IdenticalPoints(t *testing.T) {
	assert.Zero(t, DistanceKm(palmerston, palmerston))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	there := DistanceKm(palmerston, wellington)
	back := DistanceKm(wellington, palmerston)
	assert.InDelta(t, there, back, 1e-9)
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name       string
		from, to   Point
		expectedKm float64
	}{
		{
			name:       "Palmerston North to Wellington",
			from:       palmerston,
			to:         wellington,
			expectedKm: 125.3,
		},
		{
			name:       "Wellington to Auckland",
			from:       wellington,
			to:         auckland,
			expectedKm: 493.0,
		},
		{
			name:       "one degree of longitude near 40S",
			from:       Point{Lat: -40.0, Lon: 175.0},
			to:         Point{Lat: -40.0, Lon: 176.0},
			expectedKm: 85.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.from, tt.to)
			assert.InDelta(t, tt.expectedKm, got, tt.expectedKm*0.02,
				"distance should be within 2%% of the known value")
		})
	}
}

func TestDistanceKm_NeverNegative(t *testing.T) {
	points := []Point{
		palmerston, wellington, auckland,
		{Lat: 0, Lon: 0},
		{Lat: 89.9, Lon: 10},
		{Lat: -89.9, Lon: -170},
	}
	for _, a := range points {
		for _, b := range points {
			assert.GreaterOrEqual(t, DistanceKm(a, b), 0.0)
		}
	}
}

func TestDistanceKm_NearAntipodal(t *testing.T) {
	// Near-antipodal pairs may not converge and fall back to haversine;
	// either way the result must be close to half the Earth's circumference.
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 0.5, Lon: 179.7}

	got := DistanceKm(a, b)
	assert.InDelta(t, 20000, got, 100)
}

func TestBearing_Cardinal(t *testing.T) {
	origin := Point{Lat: -40.0, Lon: 175.0}

	assert.InDelta(t, 0, Bearing(origin, Point{Lat: -39.0, Lon: 175.0}), 0.01, "due north")
	assert.InDelta(t, 180, Bearing(origin, Point{Lat: -41.0, Lon: 175.0}), 0.01, "due south")

	east := Bearing(origin, Point{Lat: -40.0, Lon: 176.0})
	assert.InDelta(t, 90, east, 1.0, "east along a parallel")

	west := Bearing(origin, Point{Lat: -40.0, Lon: 174.0})
	assert.InDelta(t, 270, west, 1.0, "west along a parallel")
}

func TestBearing_Normalized(t *testing.T) {
	points := []Point{palmerston, wellington, auckland, {Lat: 40, Lon: -175}}
	for _, a := range points {
		for _, b := range points {
			if a == b {
				continue
			}
			bearing := Bearing(a, b)
			assert.GreaterOrEqual(t, bearing, 0.0)
			assert.Less(t, bearing, 360.0)
		}
	}
}

func TestBearingDirection_Octants(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}

	// Small offsets near the equator where bearing closely tracks the
	// planar angle to the target.
	tests := []struct {
		name     string
		target   Point
		expected Direction
	}{
		{"due north", Point{Lat: 0.1, Lon: 0}, DirectionNorth},
		{"northeast", Point{Lat: 0.1, Lon: 0.1}, DirectionNortheast},
		{"due east", Point{Lat: 0, Lon: 0.1}, DirectionEast},
		{"southeast", Point{Lat: -0.1, Lon: 0.1}, DirectionSoutheast},
		{"due south", Point{Lat: -0.1, Lon: 0}, DirectionSouth},
		{"southwest", Point{Lat: -0.1, Lon: -0.1}, DirectionSouthwest},
		{"due west", Point{Lat: 0, Lon: -0.1}, DirectionWest},
		{"northwest", Point{Lat: 0.1, Lon: -0.1}, DirectionNorthwest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BearingDirection(origin, tt.target))
		})
	}
}

func TestBearingDirection_SectorBoundaries(t *testing.T) {
	// Boundaries fall on odd multiples of 22.5; bearings just past a
	// boundary must land in the next sector, and the wraparound sector
	// above 337.5 maps back to north.
	origin := Point{Lat: 0, Lon: 0}

	offset := func(bearingDeg float64) Point {
		// Near the equator a tiny equirectangular step yields the target
		// bearing to well under the sector width.
		rad := radians(bearingDeg)
		const step = 1e-4
		return Point{
			Lat: step * math.Cos(rad),
			Lon: step * math.Sin(rad),
		}
	}

	assert.Equal(t, DirectionNorth, BearingDirection(origin, offset(22.0)))
	assert.Equal(t, DirectionNortheast, BearingDirection(origin, offset(23.0)))
	assert.Equal(t, DirectionNorthwest, BearingDirection(origin, offset(337.0)))
	assert.Equal(t, DirectionNorth, BearingDirection(origin, offset(338.0)))
	assert.Equal(t, DirectionNorth, BearingDirection(origin, offset(359.9)))
	assert.Equal(t, DirectionSouth, BearingDirection(origin, offset(180)))
}
