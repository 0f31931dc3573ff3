package services

import (
	"context"
	"fmt"

	"github.com/nzbiodata/bioweb/api/internal/geo"
	"github.com/nzbiodata/bioweb/api/internal/logger"
	"github.com/nzbiodata/bioweb/api/internal/models"
	"github.com/nzbiodata/bioweb/api/internal/store"
)

// BatCounts holds the radius-scoped counts for a bat query. The counts use
// the expanded view of the dataset: a "Both species detected" record
// contributes one event to each real species.
type BatCounts struct {
	TotalEvents        int
	PositiveDetections int
	LongTailed         int
	LongTailedRoosts   int
	ShortTailed        int
	ShortTailedRoosts  int
	Unknown            int
}

// BatSummaryRow is the per-species nearest-record table entry. The nearest
// searches run over the full, un-expanded dataset; cells are pre-rendered
// strings such as "3.2 km northwest" or "No roosts found for 2018-2023".
type BatSummaryRow struct {
	Species             string
	AllTimeNearest      string
	Nearest2013To2023   string
	Nearest2018To2023   string
	AllTimeNearestRoost string
	Roost2013To2023     string
	Roost2018To2023     string
}

// BatSummary is the full result of a bat radius query.
type BatSummary struct {
	Counts BatCounts
	Rows   []BatSummaryRow
}

// BatOccurrence is one bat record within the query radius, annotated with
// its distance and direction from the origin.
type BatOccurrence struct {
	Record     models.BatRecord
	DistanceKm float64
	Direction  geo.Direction
}

// BatService defines the bat summarization operations.
type BatService interface {
	// Summarize computes radius-scoped counts and the per-species
	// nearest-record table for the given query.
	Summarize(ctx context.Context, origin geo.Point, radiusKm int) (*BatSummary, error)

	// Occurrences returns every bat record within the radius, annotated
	// with distance and direction, in dataset order.
	Occurrences(ctx context.Context, origin geo.Point, radiusKm int) ([]BatOccurrence, error)
}

type batService struct {
	store *store.Store
	log   *logger.Logger
}

// NewBatService creates a new instance of BatService.
func NewBatService(st *store.Store, log *logger.Logger) BatService {
	return &batService{
		store: st,
		log:   log,
	}
}

// batDistance pairs a record with its distance from the query origin.
// Distances are computed fresh per query and never shared across queries.
type batDistance struct {
	rec  models.BatRecord
	dist float64
}

func (s *batService) annotate(origin geo.Point) []batDistance {
	records := s.store.BatRecords()
	annotated := make([]batDistance, len(records))
	for i, rec := range records {
		annotated[i] = batDistance{
			rec:  rec,
			dist: geo.DistanceKm(origin, geo.Point{Lat: rec.Latitude, Lon: rec.Longitude}),
		}
	}
	return annotated
}

func (s *batService) Summarize(ctx context.Context, origin geo.Point, radiusKm int) (*BatSummary, error) {
	if err := validateQuery(origin, radiusKm); err != nil {
		s.log.Warn("Invalid bat query", map[string]interface{}{
			"lat":    origin.Lat,
			"lng":    origin.Lon,
			"radius": radiusKm,
		})
		return nil, err
	}

	s.log.Info("Summarizing bat records", map[string]interface{}{
		"lat":     origin.Lat,
		"lng":     origin.Lon,
		"radius":  radiusKm,
		"records": s.store.BatCount(),
	})

	annotated := s.annotate(origin)

	counts := countBats(annotated, float64(radiusKm))

	// The nearest-record table covers the two real species always, and the
	// unknown label only when it appears within the radius.
	species := []string{models.SpeciesLongTailedBat, models.SpeciesShortTailedBat}
	if counts.Unknown > 0 {
		species = append(species, models.SpeciesUnknownBat)
	}

	rows := make([]BatSummaryRow, 0, len(species))
	for _, label := range species {
		rows = append(rows, BatSummaryRow{
			Species:             label,
			AllTimeNearest:      nearestBat(origin, annotated, label, false, nil),
			Nearest2013To2023:   nearestBat(origin, annotated, label, false, window2013),
			Nearest2018To2023:   nearestBat(origin, annotated, label, false, window2018),
			AllTimeNearestRoost: nearestBat(origin, annotated, label, true, nil),
			Roost2013To2023:     nearestBat(origin, annotated, label, true, window2013),
			Roost2018To2023:     nearestBat(origin, annotated, label, true, window2018),
		})
	}

	s.log.Info("Bat summary complete", map[string]interface{}{
		"total_events":        counts.TotalEvents,
		"positive_detections": counts.PositiveDetections,
		"species_rows":        len(rows),
	})

	return &BatSummary{Counts: counts, Rows: rows}, nil
}

func (s *batService) Occurrences(ctx context.Context, origin geo.Point, radiusKm int) ([]BatOccurrence, error) {
	if err := validateQuery(origin, radiusKm); err != nil {
		return nil, err
	}

	annotated := s.annotate(origin)

	occurrences := make([]BatOccurrence, 0)
	for _, a := range annotated {
		if a.dist > float64(radiusKm) {
			continue
		}
		occurrences = append(occurrences, BatOccurrence{
			Record:     a.rec,
			DistanceKm: a.dist,
			Direction: geo.BearingDirection(origin,
				geo.Point{Lat: a.rec.Latitude, Lon: a.rec.Longitude}),
		})
	}

	s.log.Info("Bat occurrences collected", map[string]interface{}{
		"radius": radiusKm,
		"count":  len(occurrences),
	})

	return occurrences, nil
}

// countBats tallies the radius-scoped counts using the expanded counting
// view: a compound "Both species detected" record counts once per real
// species, so it adds two events, two positive detections, and one to each
// species count (roost sub-counts included).
func countBats(annotated []batDistance, radiusKm float64) BatCounts {
	var counts BatCounts
	for _, a := range annotated {
		if a.dist > radiusKm {
			continue
		}

		labels := []string{a.rec.Species}
		if a.rec.Species == models.SpeciesBothDetected {
			labels = []string{models.SpeciesLongTailedBat, models.SpeciesShortTailedBat}
		}

		for _, label := range labels {
			counts.TotalEvents++
			if label != models.SpeciesNoneDetected {
				counts.PositiveDetections++
			}
			switch label {
			case models.SpeciesLongTailedBat:
				counts.LongTailed++
				if a.rec.Roost {
					counts.LongTailedRoosts++
				}
			case models.SpeciesShortTailedBat:
				counts.ShortTailed++
				if a.rec.Roost {
					counts.ShortTailedRoosts++
				}
			case models.SpeciesUnknownBat:
				counts.Unknown++
			}
		}
	}
	return counts
}

// nearestBat finds the minimum-distance record for a species over the full,
// un-expanded dataset, optionally restricted to roosts and to a date window.
// Compound "Both species detected" records never match a single-species
// label here; only the counting view expands them.
func nearestBat(origin geo.Point, annotated []batDistance, species string, roostOnly bool, window *timeWindow) string {
	var best *batDistance
	for i := range annotated {
		a := &annotated[i]
		if a.rec.Species != species {
			continue
		}
		if roostOnly && !a.rec.Roost {
			continue
		}
		if !window.contains(a.rec.Date) {
			continue
		}
		if best == nil || a.dist < best.dist {
			best = a
		}
	}

	if best == nil {
		noun := "records"
		if roostOnly {
			noun = "roosts"
		}
		label := ""
		if window != nil {
			label = window.label
		}
		return fmt.Sprintf("No %s found%s", noun, label)
	}

	return nearestString(origin,
		geo.Point{Lat: best.rec.Latitude, Lon: best.rec.Longitude}, best.dist)
}
