package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/jszwec/csvutil"
	"github.com/nzbiodata/bioweb/api/internal/models"
	"github.com/nzbiodata/bioweb/api/internal/services"
)

// Export dates keep the source's day-first convention.
const exportDateLayout = "02/01/2006"

// batOccurrenceRow is the flat export shape of one in-radius bat record.
// Column names are fixed for compatibility with downstream consumers of the
// original exports.
type batOccurrenceRow struct {
	Species      string  `csv:"batspecies"`
	LocationName string  `csv:"locationna"`
	Roost        string  `csv:"roost"`
	Date         string  `csv:"date"`
	Passes       string  `csv:"numberofpa"`
	DetectorType string  `csv:"detectorty"`
	NightsOut    string  `csv:"nightsout"`
	SurveyMethod string  `csv:"surveymeth"`
	Longitude    float64 `csv:"Longitude"`
	Latitude     float64 `csv:"Latitude"`
	LatLong      string  `csv:"Lat_Long_Combined"`
	DistanceKm   float64 `csv:"distance_km"`
	Direction    string  `csv:"direction"`
}

// herpOccurrenceRow is the flat export shape of one in-radius herp record.
type herpOccurrenceRow struct {
	ScientificName       string  `csv:"scientific_name"`
	CommonName           string  `csv:"common_name"`
	Verified             string  `csv:"recordveri"`
	Date                 string  `csv:"date"`
	PlaceName            string  `csv:"placename"`
	ObservationType      string  `csv:"sightingty"`
	Count                string  `csv:"numberofin"`
	IdentificationMethod string  `csv:"identifica"`
	AgeYears             string  `csv:"ageinyears"`
	Longitude            float64 `csv:"Longitude"`
	Latitude             float64 `csv:"Latitude"`
	LatLong              string  `csv:"Lat_Long_Combined"`
	DistanceKm           float64 `csv:"distance_km"`
	Direction            string  `csv:"direction"`
}

// batSummaryRow is the flat export shape of one bat summary table row.
type batSummaryRow struct {
	Species   string `csv:"Species"`
	AllTime   string `csv:"All time nearest record"`
	R2013     string `csv:"Nearest record 2013 to 2023"`
	R2018     string `csv:"Nearest record 2018 to 2023"`
	RoostAll  string `csv:"All time nearest roost"`
	Roost2013 string `csv:"Nearest roost 2013 to 2023"`
	Roost2018 string `csv:"Nearest roost 2018 to 2023"`
}

// WriteBatOccurrences writes the in-radius bat records as CSV, ordered by
// the fixed species-label order then ascending distance.
func WriteBatOccurrences(w io.Writer, occurrences []services.BatOccurrence) error {
	sorted := make([]services.BatOccurrence, len(occurrences))
	copy(sorted, occurrences)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := models.BatExportSpeciesRank(sorted[i].Record.Species),
			models.BatExportSpeciesRank(sorted[j].Record.Species)
		if a != b {
			return a < b
		}
		return sorted[i].DistanceKm < sorted[j].DistanceKm
	})

	rows := make([]batOccurrenceRow, 0, len(sorted))
	for _, o := range sorted {
		rows = append(rows, batOccurrenceRow{
			Species:      o.Record.Species,
			LocationName: o.Record.LocationName,
			Roost:        boolString(o.Record.Roost),
			Date:         o.Record.Date.Format(exportDateLayout),
			Passes:       o.Record.Passes,
			DetectorType: o.Record.DetectorType,
			NightsOut:    o.Record.NightsOut,
			SurveyMethod: o.Record.SurveyMethod,
			Longitude:    o.Record.Longitude,
			Latitude:     o.Record.Latitude,
			LatLong:      latLong(o.Record.Latitude, o.Record.Longitude),
			DistanceKm:   o.DistanceKm,
			Direction:    string(o.Direction),
		})
	}

	return encodeRows(w, rows)
}

// WriteHerpOccurrences writes the in-radius herp records as CSV, ordered by
// scientific name then ascending distance.
func WriteHerpOccurrences(w io.Writer, occurrences []services.HerpOccurrence) error {
	sorted := make([]services.HerpOccurrence, len(occurrences))
	copy(sorted, occurrences)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Record.ScientificName != sorted[j].Record.ScientificName {
			return sorted[i].Record.ScientificName < sorted[j].Record.ScientificName
		}
		return sorted[i].DistanceKm < sorted[j].DistanceKm
	})

	rows := make([]herpOccurrenceRow, 0, len(sorted))
	for _, o := range sorted {
		rows = append(rows, herpOccurrenceRow{
			ScientificName:       o.Record.ScientificName,
			CommonName:           o.Record.CommonName,
			Verified:             boolString(o.Record.Verified),
			Date:                 o.Record.Date.Format(exportDateLayout),
			PlaceName:            o.Record.PlaceName,
			ObservationType:      o.Record.ObservationType,
			Count:                o.Record.Count,
			IdentificationMethod: o.Record.IdentificationMethod,
			AgeYears:             o.Record.AgeYears,
			Longitude:            o.Record.Longitude,
			Latitude:             o.Record.Latitude,
			LatLong:              latLong(o.Record.Latitude, o.Record.Longitude),
			DistanceKm:           o.DistanceKm,
			Direction:            string(o.Direction),
		})
	}

	return encodeRows(w, rows)
}

// WriteBatSummary writes the per-species nearest-record table as CSV in its
// fixed column order.
func WriteBatSummary(w io.Writer, summary *services.BatSummary) error {
	rows := make([]batSummaryRow, 0, len(summary.Rows))
	for _, r := range summary.Rows {
		rows = append(rows, batSummaryRow{
			Species:   r.Species,
			AllTime:   r.AllTimeNearest,
			R2013:     r.Nearest2013To2023,
			R2018:     r.Nearest2018To2023,
			RoostAll:  r.AllTimeNearestRoost,
			Roost2013: r.Roost2013To2023,
			Roost2018: r.Roost2018To2023,
		})
	}

	return encodeRows(w, rows)
}

// WriteHerpSummary writes the sorted species summary as CSV. The
// most-recent-sighting column header embeds the query radius, so the header
// row is written by hand and auto-headers are disabled.
func WriteHerpSummary(w io.Writer, summary *services.HerpSummary, radiusKm int) error {
	cw := csv.NewWriter(w)

	header := []string{
		"Taxa Group",
		"Species",
		"Common Name",
		"Threat Status",
		"Observation Type Summary",
		"Total Observations",
		fmt.Sprintf("Most recent sighting within %d km", radiusKm),
		"Nearest Record (all time)",
		"Nearest Record 2013 to 2023",
		"Nearest Record 2018 to 2023",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	enc := csvutil.NewEncoder(cw)
	enc.AutoHeader = false

	type herpSummaryRow struct {
		TaxaGroup          string
		Species            string
		CommonName         string
		ThreatStatus       string
		ObservationTypes   string
		TotalObservations  int
		MostRecentSighting string
		NearestAllTime     string
		Nearest2013        string
		Nearest2018        string
	}

	for _, r := range summary.Rows {
		row := herpSummaryRow{
			TaxaGroup:          r.TaxaGroup,
			Species:            r.ScientificName,
			CommonName:         r.CommonName,
			ThreatStatus:       r.ThreatStatusDisplay,
			ObservationTypes:   ObservationTypeText(r.ObservationTypes),
			TotalObservations:  r.TotalObservations,
			MostRecentSighting: r.MostRecentSighting,
			NearestAllTime:     r.NearestAllTime,
			Nearest2013:        r.Nearest2013To2023,
			Nearest2018:        r.Nearest2018To2023,
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// encodeRows writes a slice of tagged row structs with an automatic header.
// An empty slice still produces the header row.
func encodeRows[T any](w io.Writer, rows []T) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if len(rows) == 0 {
		var zero T
		if err := enc.EncodeHeader(zero); err != nil {
			return fmt.Errorf("failed to encode CSV header: %w", err)
		}
	} else if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// boolString renders flags the way the original exports did.
func boolString(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func latLong(lat, lon float64) string {
	return fmt.Sprintf("%v, %v", lat, lon)
}
