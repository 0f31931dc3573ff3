package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/nzbiodata/bioweb/api/internal/models"
)

// Files names the three source CSVs inside the data directory.
type Files struct {
	Bat          string
	Herp         string
	ThreatStatus string
}

// Source dates are day-first; the dataset mixes padded and unpadded values
// and the occasional ISO export.
var dateLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2006-01-02",
}

// batRow mirrors the raw bat CSV columns before normalization.
type batRow struct {
	Species      string `csv:"batspecies"`
	LocationName string `csv:"locationna"`
	Roost        string `csv:"roost"`
	Date         string `csv:"date"`
	Passes       string `csv:"numberofpa"`
	DetectorType string `csv:"detectorty"`
	NightsOut    string `csv:"nightsout"`
	SurveyMethod string `csv:"surveymeth"`
	Longitude    string `csv:"x"`
	Latitude     string `csv:"y"`
}

// herpRow mirrors the raw herpetofauna CSV columns before normalization.
type herpRow struct {
	ScientificName       string `csv:"scientific"`
	CommonName           string `csv:"commonname"`
	Verified             string `csv:"recordveri"`
	Date                 string `csv:"observat_2"`
	PlaceName            string `csv:"placename"`
	ObservationType      string `csv:"sightingty"`
	Count                string `csv:"numberofin"`
	IdentificationMethod string `csv:"identifica"`
	AgeYears             string `csv:"ageinyears"`
	Longitude            string `csv:"x"`
	Latitude             string `csv:"y"`
}

// threatRow mirrors the raw threat register CSV columns.
type threatRow struct {
	SpeciesName string `csv:"Current Species Name"`
	Taxa        string `csv:"Taxa"`
	Category    string `csv:"Category"`
	Status      string `csv:"Status"`
}

// Load reads and normalizes the three datasets from dir and builds a Store.
// Incomplete rows (missing coordinates, date, or species) are dropped rather
// than failing the load. Any returned error carries a single human-readable
// message suitable for showing to the operator.
func Load(dir string, files Files) (*Store, error) {
	batPath := filepath.Join(dir, files.Bat)
	herpPath := filepath.Join(dir, files.Herp)
	threatPath := filepath.Join(dir, files.ThreatStatus)

	var missing []string
	for _, p := range []string{batPath, herpPath, threatPath} {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, filepath.Base(p))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf(
			"missing file(s): %s. Please ensure all required CSVs are in %s",
			strings.Join(missing, ", "), dir)
	}

	bats, err := loadBatRecords(batPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load bat data from %s: %w", files.Bat, err)
	}

	herps, err := loadHerpRecords(herpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load herpetofauna data from %s: %w", files.Herp, err)
	}

	threats, err := loadThreatStatus(threatPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load threat status data from %s: %w", files.ThreatStatus, err)
	}

	return New(bats, herps, threats), nil
}

func loadBatRecords(path string) ([]models.BatRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []batRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	records := make([]models.BatRecord, 0, len(rows))
	for _, row := range rows {
		species := cleanField(row.Species)
		date, dateOK := parseDate(row.Date)
		lat, latOK := parseCoord(row.Latitude)
		lon, lonOK := parseCoord(row.Longitude)
		if species == "" || !dateOK || !latOK || !lonOK {
			continue
		}

		records = append(records, models.BatRecord{
			Species:      species,
			LocationName: cleanField(row.LocationName),
			Roost:        parseFlag(row.Roost),
			Date:         date,
			Passes:       strings.TrimSpace(row.Passes),
			DetectorType: strings.TrimSpace(row.DetectorType),
			NightsOut:    strings.TrimSpace(row.NightsOut),
			SurveyMethod: strings.TrimSpace(row.SurveyMethod),
			Latitude:     lat,
			Longitude:    lon,
		})
	}

	return records, nil
}

func loadHerpRecords(path string) ([]models.HerpRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []herpRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	records := make([]models.HerpRecord, 0, len(rows))
	for _, row := range rows {
		scientific := cleanField(row.ScientificName)
		common := cleanField(row.CommonName)
		date, dateOK := parseDate(row.Date)
		lat, latOK := parseCoord(row.Latitude)
		lon, lonOK := parseCoord(row.Longitude)
		if scientific == "" || common == "" || !dateOK || !latOK || !lonOK {
			continue
		}

		observationType := cleanField(row.ObservationType)
		if observationType == "" {
			observationType = models.ObservationTypeUndefined
		}

		records = append(records, models.HerpRecord{
			ScientificName:       scientific,
			CommonName:           common,
			Verified:             parseFlag(row.Verified),
			Date:                 date,
			PlaceName:            cleanField(row.PlaceName),
			ObservationType:      observationType,
			Count:                strings.TrimSpace(row.Count),
			IdentificationMethod: strings.TrimSpace(row.IdentificationMethod),
			AgeYears:             strings.TrimSpace(row.AgeYears),
			Latitude:             lat,
			Longitude:            lon,
		})
	}

	return records, nil
}

func loadThreatStatus(path string) ([]models.ThreatStatusEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []threatRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	entries := make([]models.ThreatStatusEntry, 0, len(rows))
	for _, row := range rows {
		name := cleanField(row.SpeciesName)
		if name == "" {
			continue
		}
		entries = append(entries, models.ThreatStatusEntry{
			SpeciesName: name,
			Taxa:        strings.TrimSpace(row.Taxa),
			Category:    strings.TrimSpace(row.Category),
			Status:      strings.TrimSpace(row.Status),
		})
	}

	return entries, nil
}

// cleanField strips stray quotes and surrounding whitespace, matching how
// the source data embeds quoted values.
func cleanField(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

// parseDate parses a day-first date string. The bool reports success.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseCoord(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseFlag converts the source's numeric 0/1 flag columns to bool.
// Unparseable values count as false, matching the source's fill-with-zero
// behavior.
func parseFlag(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false
	}
	return v != 0
}
