// Package report projects summarizer output into display rows for the web
// frontend and flat rows for CSV export.
package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/nzbiodata/bioweb/api/internal/models"
	"github.com/nzbiodata/bioweb/api/internal/services"
)

// threatHighlightClasses maps threat categories to the CSS class the
// frontend uses to highlight the threat-status cell. "Introduced and
// Naturalised" and unmatched categories deliberately have no entry.
var threatHighlightClasses = map[string]string{
	"Threatened":          "threatened-bg",
	"At Risk":             "at-risk-bg",
	"Not Threatened":      "not-threatened-bg",
	"Non-resident Native": "non-resident-native-bg",
	"Extinct":             "extinct-text-color",
	models.ValueUnknown:   "unknown-text-color",
}

// HerpDisplayRow is the display projection of one herp summary row.
// ObservationTypeSummary is an HTML fragment; every other field is plain
// text.
type HerpDisplayRow struct {
	TaxaGroup              string `json:"taxa_group"`
	Species                string `json:"species"`
	CommonName             string `json:"common_name"`
	ThreatStatus           string `json:"threat_status"`
	ThreatHighlightClass   string `json:"threat_highlight_class,omitempty"`
	ObservationTypeSummary string `json:"observation_type_summary"`
	MostRecentSighting     string `json:"most_recent_sighting"`
	NearestAllTime         string `json:"nearest_all_time"`
	Nearest2013To2023      string `json:"nearest_2013_to_2023"`
	Nearest2018To2023      string `json:"nearest_2018_to_2023"`
}

// HerpDisplayRows projects every summary row for display, preserving the
// summarizer's ordering.
func HerpDisplayRows(summary *services.HerpSummary) []HerpDisplayRow {
	rows := make([]HerpDisplayRow, 0, len(summary.Rows))
	for _, r := range summary.Rows {
		rows = append(rows, HerpDisplayRow{
			TaxaGroup:              r.TaxaGroup,
			Species:                r.ScientificName,
			CommonName:             r.CommonName,
			ThreatStatus:           r.ThreatStatusDisplay,
			ThreatHighlightClass:   ThreatHighlightClass(r.Category),
			ObservationTypeSummary: ObservationTypeHTML(r.ObservationTypes, r.TotalObservations),
			MostRecentSighting:     r.MostRecentSighting,
			NearestAllTime:         r.NearestAllTime,
			Nearest2013To2023:      r.Nearest2013To2023,
			Nearest2018To2023:      r.Nearest2018To2023,
		})
	}
	return rows
}

// ThreatHighlightClass returns the CSS class for a threat category, or an
// empty string when the category gets no highlight.
func ThreatHighlightClass(category string) string {
	return threatHighlightClasses[category]
}

// ObservationTypeHTML renders the observation-type tally as an HTML-safe
// fragment with the bold total appended, e.g.
// "Sighted (3), Heard (1)<br>&nbsp;<br><b>Total</b> (4)".
func ObservationTypeHTML(types []services.ObservationTypeCount, total int) string {
	if len(types) == 0 {
		return fmt.Sprintf("<b>Total</b> (%d)", total)
	}

	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s (%d)", html.EscapeString(t.Type), t.Count))
	}
	return strings.Join(parts, ", ") +
		fmt.Sprintf("<br>&nbsp;<br><b>Total</b> (%d)", total)
}

// ObservationTypeText renders the observation-type tally as plain text for
// CSV export, without the total.
func ObservationTypeText(types []services.ObservationTypeCount) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s (%d)", t.Type, t.Count))
	}
	return strings.Join(parts, ", ")
}
