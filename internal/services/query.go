// Package services implements the spatial query and summarization engine
// over the survey record store.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/nzbiodata/bioweb/api/internal/geo"
)

// Coordinate validation constants
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Radius validation constants
const (
	MinRadiusKm = 1
	MaxRadiusKm = 50
)

// Service-level errors
var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidRadius      = errors.New("radius must be between 1 and 50 km")
)

// Nearest-record searches run over three record pools: all time and two
// fixed date windows ending in 2023.
var (
	windowEnd       = time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
	windowStart2018 = time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
	windowStart2013 = time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// timeWindow is one nearest-record search pool. A nil *timeWindow means the
// all-time pool.
type timeWindow struct {
	start time.Time
	label string // appended to empty-pool messages, e.g. " for 2018-2023"
}

var (
	window2018 = &timeWindow{start: windowStart2018, label: " for 2018-2023"}
	window2013 = &timeWindow{start: windowStart2013, label: " for 2013-2023"}
)

// contains reports whether t falls inside the window, bounds inclusive.
func (w *timeWindow) contains(t time.Time) bool {
	if w == nil {
		return true
	}
	return !t.Before(w.start) && !t.After(windowEnd)
}

// validateQuery checks the origin and radius of a query against the ranges
// the transport layer promises. Kept here as well so the services are safe
// to call directly.
func validateQuery(origin geo.Point, radiusKm int) error {
	if origin.Lat < MinLatitude || origin.Lat > MaxLatitude {
		return fmt.Errorf("%w: latitude must be between %g and %g, got %g",
			ErrInvalidCoordinates, MinLatitude, MaxLatitude, origin.Lat)
	}
	if origin.Lon < MinLongitude || origin.Lon > MaxLongitude {
		return fmt.Errorf("%w: longitude must be between %g and %g, got %g",
			ErrInvalidCoordinates, MinLongitude, MaxLongitude, origin.Lon)
	}
	if radiusKm < MinRadiusKm || radiusKm > MaxRadiusKm {
		return fmt.Errorf("%w: got %d", ErrInvalidRadius, radiusKm)
	}
	return nil
}

// nearestString renders a found nearest record as "<distance> km <direction>".
func nearestString(origin geo.Point, target geo.Point, distanceKm float64) string {
	return fmt.Sprintf("%.1f km %s", distanceKm, geo.BearingDirection(origin, target))
}
