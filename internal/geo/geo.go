// Package geo provides geodesic distance and compass-bearing utilities for
// lat/lng points on the WGS84 ellipsoid.
package geo

import (
	"math"
)

// WGS84 ellipsoid parameters.
const (
	// EarthRadiusKm is the mean Earth radius in kilometers, used by the
	// haversine fallback.
	EarthRadiusKm = 6371.0

	semiMajorKm = 6378.137           // equatorial radius in km
	flattening  = 1 / 298.257223563 // WGS84 flattening
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 // latitude in degrees (-90 to 90)
	Lon float64 // longitude in degrees (-180 to 180)
}

// Direction is a compass octant label derived from a bearing.
type Direction string

// The eight compass octants plus a defensive fallback for bearings outside
// [0, 360), which cannot occur for valid coordinates.
const (
	DirectionNorth     Direction = "north"
	DirectionNortheast Direction = "northeast"
	DirectionEast      Direction = "east"
	DirectionSoutheast Direction = "southeast"
	DirectionSouth     Direction = "south"
	DirectionSouthwest Direction = "southwest"
	DirectionWest      Direction = "west"
	DirectionNorthwest Direction = "northwest"
	DirectionUnknown   Direction = "unknown"
)

// DistanceKm calculates the geodesic distance between two points in
// kilometers using Vincenty's inverse formula on the WGS84 ellipsoid.
// The result is symmetric, never negative, and zero for identical points.
// For the rare near-antipodal pairs where Vincenty fails to converge it
// falls back to the haversine great-circle distance.
func DistanceKm(p1, p2 Point) float64 {
	if p1 == p2 {
		return 0
	}

	a := semiMajorKm
	f := flattening
	b := a * (1 - f)

	φ1 := radians(p1.Lat)
	φ2 := radians(p2.Lat)
	L := radians(p2.Lon - p1.Lon)

	// Reduced latitudes
	U1 := math.Atan((1 - f) * math.Tan(φ1))
	U2 := math.Atan((1 - f) * math.Tan(φ2))
	sinU1, cosU1 := math.Sincos(U1)
	sinU2, cosU2 := math.Sincos(U2)

	λ := L
	var sinσ, cosσ, σ, sinα, cos2α, cos2σm float64

	const maxIterations = 200
	converged := false
	for i := 0; i < maxIterations; i++ {
		sinλ, cosλ := math.Sincos(λ)
		sinσ = math.Sqrt(math.Pow(cosU2*sinλ, 2) +
			math.Pow(cosU1*sinU2-sinU1*cosU2*cosλ, 2))
		if sinσ == 0 {
			// Coincident points
			return 0
		}
		cosσ = sinU1*sinU2 + cosU1*cosU2*cosλ
		σ = math.Atan2(sinσ, cosσ)
		sinα = cosU1 * cosU2 * sinλ / sinσ
		cos2α = 1 - sinα*sinα
		if cos2α == 0 {
			// Equatorial line
			cos2σm = 0
		} else {
			cos2σm = cosσ - 2*sinU1*sinU2/cos2α
		}
		C := f / 16 * cos2α * (4 + f*(4-3*cos2α))
		λPrev := λ
		λ = L + (1-C)*f*sinα*
			(σ+C*sinσ*(cos2σm+C*cosσ*(-1+2*cos2σm*cos2σm)))
		if math.Abs(λ-λPrev) < 1e-12 {
			converged = true
			break
		}
	}
	if !converged {
		return haversineKm(p1, p2)
	}

	u2 := cos2α * (a*a - b*b) / (b * b)
	A := 1 + u2/16384*(4096+u2*(-768+u2*(320-175*u2)))
	B := u2 / 1024 * (256 + u2*(-128+u2*(74-47*u2)))
	Δσ := B * sinσ * (cos2σm + B/4*
		(cosσ*(-1+2*cos2σm*cos2σm)-
			B/6*cos2σm*(-3+4*sinσ*sinσ)*(-3+4*cos2σm*cos2σm)))

	return b * A * (σ - Δσ)
}

// haversineKm calculates the great-circle distance between two points using
// the haversine formula on a spherical Earth.
func haversineKm(p1, p2 Point) float64 {
	φ1 := radians(p1.Lat)
	φ2 := radians(p2.Lat)
	Δφ := radians(p2.Lat - p1.Lat)
	Δλ := radians(p2.Lon - p1.Lon)

	h := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*
			math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Bearing computes the initial bearing (forward azimuth) in degrees from
// origin toward target along the great-circle path, normalized to [0, 360).
func Bearing(origin, target Point) float64 {
	φ1 := radians(origin.Lat)
	φ2 := radians(target.Lat)
	Δλ := radians(target.Lon - origin.Lon)

	y := math.Sin(Δλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}

// BearingDirection classifies the bearing from origin to target into one of
// eight compass octants. Sectors are 45 degrees wide and centered on each
// cardinal and intercardinal direction, so boundaries fall on odd multiples
// of 22.5 degrees (lower-inclusive, upper-exclusive). The wraparound sector
// [337.5, 360) together with [0, 22.5) maps to north.
func BearingDirection(origin, target Point) Direction {
	bearing := Bearing(origin, target)

	switch {
	case bearing >= 337.5 && bearing < 360, bearing >= 0 && bearing < 22.5:
		return DirectionNorth
	case bearing >= 22.5 && bearing < 67.5:
		return DirectionNortheast
	case bearing >= 67.5 && bearing < 112.5:
		return DirectionEast
	case bearing >= 112.5 && bearing < 157.5:
		return DirectionSoutheast
	case bearing >= 157.5 && bearing < 202.5:
		return DirectionSouth
	case bearing >= 202.5 && bearing < 247.5:
		return DirectionSouthwest
	case bearing >= 247.5 && bearing < 292.5:
		return DirectionWest
	case bearing >= 292.5 && bearing < 337.5:
		return DirectionNorthwest
	default:
		return DirectionUnknown
	}
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
