package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/nzbiodata/bioweb/api/internal/geo"
	"github.com/nzbiodata/bioweb/api/internal/logger"
	"github.com/nzbiodata/bioweb/api/internal/models"
	"github.com/nzbiodata/bioweb/api/internal/store"
)

// ObservationTypeCount is one entry of a per-species observation-type tally,
// ordered by descending count with ascending type label as tie-break.
type ObservationTypeCount struct {
	Type  string
	Count int
}

// HerpSummaryRow is the aggregated view of one species within the query
// radius, joined against the threat register. Category and Status carry the
// raw register values (or "unknown") for sorting and display styling; the
// nearest-record cells are pre-rendered strings.
//
// Scoping is deliberately mixed: TotalObservations, ObservationTypes,
// MostRecentSighting, and NearestAllTime describe the radius-restricted
// subset, while the two dated nearest lookups search the full dataset.
type HerpSummaryRow struct {
	TaxaGroup           string
	ScientificName      string
	CommonName          string
	Category            string
	Status              string
	ThreatStatusDisplay string
	ObservationTypes    []ObservationTypeCount
	TotalObservations   int
	MostRecentSighting  string
	NearestAllTime      string
	Nearest2013To2023   string
	Nearest2018To2023   string
}

// HerpSummary is the full result of a herpetofauna radius query. When no
// records fall within the radius, Rows is empty and Message carries the
// zero-result description; this is not an error.
type HerpSummary struct {
	UniqueSpeciesCount int
	Message            string
	Rows               []HerpSummaryRow
}

// HerpOccurrence is one herp record within the query radius, annotated with
// its distance and direction from the origin.
type HerpOccurrence struct {
	Record     models.HerpRecord
	DistanceKm float64
	Direction  geo.Direction
}

// HerpService defines the herpetofauna summarization operations.
type HerpService interface {
	// Summarize aggregates per-species records within the radius, joins
	// threat status, and orders rows by the fixed conservation priority.
	Summarize(ctx context.Context, origin geo.Point, radiusKm int) (*HerpSummary, error)

	// Occurrences returns every herp record within the radius, annotated
	// with distance and direction, in dataset order.
	Occurrences(ctx context.Context, origin geo.Point, radiusKm int) ([]HerpOccurrence, error)
}

type herpService struct {
	store *store.Store
	log   *logger.Logger
}

// NewHerpService creates a new instance of HerpService.
func NewHerpService(st *store.Store, log *logger.Logger) HerpService {
	return &herpService{
		store: st,
		log:   log,
	}
}

type herpDistance struct {
	rec  models.HerpRecord
	dist float64
}

func (s *herpService) annotate(origin geo.Point) []herpDistance {
	records := s.store.HerpRecords()
	annotated := make([]herpDistance, len(records))
	for i, rec := range records {
		annotated[i] = herpDistance{
			rec:  rec,
			dist: geo.DistanceKm(origin, geo.Point{Lat: rec.Latitude, Lon: rec.Longitude}),
		}
	}
	return annotated
}

func (s *herpService) Summarize(ctx context.Context, origin geo.Point, radiusKm int) (*HerpSummary, error) {
	if err := validateQuery(origin, radiusKm); err != nil {
		s.log.Warn("Invalid herp query", map[string]interface{}{
			"lat":    origin.Lat,
			"lng":    origin.Lon,
			"radius": radiusKm,
		})
		return nil, err
	}

	s.log.Info("Summarizing herpetofauna records", map[string]interface{}{
		"lat":     origin.Lat,
		"lng":     origin.Lon,
		"radius":  radiusKm,
		"records": s.store.HerpCount(),
	})

	annotated := s.annotate(origin)

	// Radius restriction and species discovery. The full annotated dataset
	// stays around for the dated nearest-record lookups below.
	inRadius := make([]herpDistance, 0)
	for _, a := range annotated {
		if a.dist <= float64(radiusKm) {
			inRadius = append(inRadius, a)
		}
	}

	speciesSet := make(map[string]struct{})
	for _, a := range inRadius {
		speciesSet[a.rec.ScientificName] = struct{}{}
	}
	if len(speciesSet) == 0 {
		s.log.Info("No herpetofauna records within radius", map[string]interface{}{
			"radius": radiusKm,
		})
		return &HerpSummary{
			UniqueSpeciesCount: 0,
			Message:            fmt.Sprintf("No herpetofauna records found within %d km.", radiusKm),
		}, nil
	}

	species := make([]string, 0, len(speciesSet))
	for name := range speciesSet {
		species = append(species, name)
	}
	sort.Strings(species)

	rows := make([]HerpSummaryRow, 0, len(species))
	for _, name := range species {
		rows = append(rows, s.summarizeSpecies(origin, name, inRadius, annotated))
	}

	sortSummaryRows(rows)

	s.log.Info("Herpetofauna summary complete", map[string]interface{}{
		"unique_species": len(rows),
	})

	return &HerpSummary{
		UniqueSpeciesCount: len(rows),
		Rows:               rows,
	}, nil
}

func (s *herpService) summarizeSpecies(origin geo.Point, name string, inRadius, annotated []herpDistance) HerpSummaryRow {
	row := HerpSummaryRow{
		ScientificName:      name,
		TaxaGroup:           models.ValueUnknown,
		Category:            models.ValueUnknown,
		Status:              models.ValueUnknown,
		ThreatStatusDisplay: models.ValueUnknown,
	}

	// Radius-scoped aggregation: common name from the first matching
	// record, per-type tally, most recent sighting, nearest in radius.
	typeCounts := make(map[string]int)
	var nearest *herpDistance
	var mostRecent models.HerpRecord
	for i := range inRadius {
		a := &inRadius[i]
		if a.rec.ScientificName != name {
			continue
		}
		if row.CommonName == "" {
			row.CommonName = a.rec.CommonName
		}
		row.TotalObservations++
		typeCounts[a.rec.ObservationType]++
		if a.rec.Date.After(mostRecent.Date) {
			mostRecent = a.rec
		}
		if nearest == nil || a.dist < nearest.dist {
			nearest = a
		}
	}

	row.ObservationTypes = sortedTypeCounts(typeCounts)

	if mostRecent.Date.IsZero() {
		// Cannot happen when the species is present in radius, handled
		// anyway so the formatter never sees a zero date.
		row.MostRecentSighting = "No records found"
	} else {
		row.MostRecentSighting = mostRecent.Date.Format("02/01/2006")
	}

	if nearest != nil {
		row.NearestAllTime = nearestString(origin,
			geo.Point{Lat: nearest.rec.Latitude, Lon: nearest.rec.Longitude}, nearest.dist)
	} else {
		row.NearestAllTime = "No records found"
	}

	// Best-effort threat join: a species absent from the register degrades
	// to "unknown" across the board instead of failing the query.
	if entry, ok := s.store.ThreatStatus(name); ok {
		row.TaxaGroup = entry.Taxa
		row.Category = entry.Category
		row.Status = entry.Status
		if entry.Category == entry.Status {
			row.ThreatStatusDisplay = entry.Category
		} else {
			row.ThreatStatusDisplay = fmt.Sprintf("%s - %s", entry.Category, entry.Status)
		}
	}

	// The dated lookups search the full dataset, not the radius subset.
	row.Nearest2013To2023 = nearestHerp(origin, annotated, name, window2013)
	row.Nearest2018To2023 = nearestHerp(origin, annotated, name, window2018)

	return row
}

func (s *herpService) Occurrences(ctx context.Context, origin geo.Point, radiusKm int) ([]HerpOccurrence, error) {
	if err := validateQuery(origin, radiusKm); err != nil {
		return nil, err
	}

	annotated := s.annotate(origin)

	occurrences := make([]HerpOccurrence, 0)
	for _, a := range annotated {
		if a.dist > float64(radiusKm) {
			continue
		}
		occurrences = append(occurrences, HerpOccurrence{
			Record:     a.rec,
			DistanceKm: a.dist,
			Direction: geo.BearingDirection(origin,
				geo.Point{Lat: a.rec.Latitude, Lon: a.rec.Longitude}),
		})
	}

	s.log.Info("Herpetofauna occurrences collected", map[string]interface{}{
		"radius": radiusKm,
		"count":  len(occurrences),
	})

	return occurrences, nil
}

// nearestHerp finds the minimum-distance record for a species within a date
// window, searching the full dataset.
func nearestHerp(origin geo.Point, annotated []herpDistance, species string, window *timeWindow) string {
	var best *herpDistance
	for i := range annotated {
		a := &annotated[i]
		if a.rec.ScientificName != species {
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
		label := ""
		if window != nil {
			label = window.label
		}
		return fmt.Sprintf("No records found%s", label)
	}

	return nearestString(origin,
		geo.Point{Lat: best.rec.Latitude, Lon: best.rec.Longitude}, best.dist)
}

func sortedTypeCounts(counts map[string]int) []ObservationTypeCount {
	out := make([]ObservationTypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, ObservationTypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// sortSummaryRows orders rows by taxa group, threat category, threat status
// (each via its fixed priority table), with scientific name as the final
// tie-break.
func sortSummaryRows(rows []HerpSummaryRow) {
	sort.Slice(rows, func(i, j int) bool {
		if a, b := models.TaxaRank(rows[i].TaxaGroup), models.TaxaRank(rows[j].TaxaGroup); a != b {
			return a < b
		}
		if a, b := models.CategoryRank(rows[i].Category), models.CategoryRank(rows[j].Category); a != b {
			return a < b
		}
		if a, b := models.StatusRank(rows[i].Status), models.StatusRank(rows[j].Status); a != b {
			return a < b
		}
		return rows[i].ScientificName < rows[j].ScientificName
	})
}
