package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/nzbiodata/bioweb/api/internal/errors"
	"github.com/nzbiodata/bioweb/api/internal/geo"
	"github.com/nzbiodata/bioweb/api/internal/middleware"
	"github.com/nzbiodata/bioweb/api/internal/report"
	"github.com/nzbiodata/bioweb/api/internal/services"
)

// QueryHandler handles radius-query and export HTTP requests.
type QueryHandler struct {
	bats      services.BatService
	herps     services.HerpService
	loadError string // non-empty when the dataset load failed at startup
}

// NewQueryHandler creates a new QueryHandler instance. The services may be
// nil when the dataset load failed; every request then returns 503 with the
// loader's message.
func NewQueryHandler(bats services.BatService, herps services.HerpService, loadError string) *QueryHandler {
	return &QueryHandler{
		bats:      bats,
		herps:     herps,
		loadError: loadError,
	}
}

// SummaryRequest represents the query parameters shared by the summary and
// export endpoints. Coordinates arrive as a single "lat, lon" text field,
// parsed here in the transport layer.
type SummaryRequest struct {
	Coords string `form:"coords" binding:"required"`
	Radius int    `form:"radius" binding:"required,min=1,max=50"`
}

// QueryEcho echoes the parsed query back to the caller for re-display.
type QueryEcho struct {
	Coords   string  `json:"coords"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm int     `json:"radius_km"`
}

// BatCountsData is the radius-scoped bat counts in the API response.
type BatCountsData struct {
	TotalEvents                    int `json:"total_events"`
	PositiveDetections             int `json:"positive_detections"`
	ChalinolobusTuberculatus       int `json:"chalinolobus_tuberculatus"`
	ChalinolobusTuberculatusRoosts int `json:"chalinolobus_tuberculatus_roosts"`
	MystacinaTuberculata           int `json:"mystacina_tuberculata"`
	MystacinaTuberculataRoosts     int `json:"mystacina_tuberculata_roosts"`
	UnknownBatSpecies              int `json:"unknown_bat_species"`
}

// BatSummaryRowData is one row of the bat nearest-record table in the API
// response.
type BatSummaryRowData struct {
	Species             string `json:"species"`
	AllTimeNearest      string `json:"all_time_nearest_record"`
	Nearest2013To2023   string `json:"nearest_record_2013_to_2023"`
	Nearest2018To2023   string `json:"nearest_record_2018_to_2023"`
	AllTimeNearestRoost string `json:"all_time_nearest_roost"`
	Roost2013To2023     string `json:"nearest_roost_2013_to_2023"`
	Roost2018To2023     string `json:"nearest_roost_2018_to_2023"`
}

// BatResult is the bat half of the summary response.
type BatResult struct {
	Counts       BatCountsData       `json:"counts"`
	SummaryTable []BatSummaryRowData `json:"summary_table"`
}

// HerpResult is the herp half of the summary response. Message is set
// instead of Results when no records fall within the radius.
type HerpResult struct {
	UniqueSpeciesCount int                     `json:"unique_species_count"`
	Message            string                  `json:"message,omitempty"`
	Results            []report.HerpDisplayRow `json:"results,omitempty"`
}

// SummaryResponse is the full response of the summary endpoint.
type SummaryResponse struct {
	Query QueryEcho  `json:"query"`
	Bat   BatResult  `json:"bat"`
	Herp  HerpResult `json:"herp"`
}

// Summary handles GET /api/v1/summary.
// It runs both summarizers against the record store for the given origin
// and radius and returns the display projections of their results.
func (h *QueryHandler) Summary(c *gin.Context) {
	req, origin, ok := h.bindQuery(c)
	if !ok {
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Processing summary request", map[string]interface{}{
			"lat":    origin.Lat,
			"lng":    origin.Lon,
			"radius": req.Radius,
		})
	}

	batSummary, err := h.bats.Summarize(c.Request.Context(), origin, req.Radius)
	if err != nil {
		h.serviceError(c, err, "Failed to summarize bat records")
		return
	}

	herpSummary, err := h.herps.Summarize(c.Request.Context(), origin, req.Radius)
	if err != nil {
		h.serviceError(c, err, "Failed to summarize herpetofauna records")
		return
	}

	response := SummaryResponse{
		Query: QueryEcho{
			Coords:   req.Coords,
			Lat:      origin.Lat,
			Lng:      origin.Lon,
			RadiusKm: req.Radius,
		},
		Bat:  mapBatSummary(batSummary),
		Herp: mapHerpSummary(herpSummary),
	}

	c.JSON(http.StatusOK, response)
}

// bindQuery validates the shared query parameters and parses the coordinate
// text. On failure it writes the error response and returns ok=false; the
// submitted values are preserved in the response details for re-display.
func (h *QueryHandler) bindQuery(c *gin.Context) (SummaryRequest, geo.Point, bool) {
	var req SummaryRequest

	if h.loadError != "" || h.bats == nil || h.herps == nil {
		apierrors.ServiceUnavailable(c, h.loadError)
		return req, geo.Point{}, false
	}

	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return req, geo.Point{}, false
		}
		apierrors.BadRequest(c, "Invalid query parameters", map[string]interface{}{
			"coords": c.Query("coords"),
			"radius": c.Query("radius"),
		})
		return req, geo.Point{}, false
	}

	origin, err := parseCoords(req.Coords)
	if err != nil {
		apierrors.BadRequest(c,
			"Invalid coordinates. Please use the format 'latitude, longitude' e.g., -40.298, 175.754",
			map[string]interface{}{
				"coords": req.Coords,
				"radius": req.Radius,
			})
		return req, geo.Point{}, false
	}

	return req, origin, true
}

// serviceError maps service-level errors to HTTP responses.
func (h *QueryHandler) serviceError(c *gin.Context, err error, message string) {
	if errors.Is(err, services.ErrInvalidCoordinates) || errors.Is(err, services.ErrInvalidRadius) {
		apierrors.BadRequest(c, err.Error(), nil)
		return
	}
	apierrors.InternalServerError(c, message, err)
}

// parseCoords parses a "lat, lon" text field into a point.
func parseCoords(coords string) (geo.Point, error) {
	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return geo.Point{}, fmt.Errorf("expected two comma-separated values, got %d", len(parts))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid longitude: %w", err)
	}

	return geo.Point{Lat: lat, Lon: lon}, nil
}

func mapBatSummary(summary *services.BatSummary) BatResult {
	rows := make([]BatSummaryRowData, 0, len(summary.Rows))
	for _, r := range summary.Rows {
		rows = append(rows, BatSummaryRowData{
			Species:             r.Species,
			AllTimeNearest:      r.AllTimeNearest,
			Nearest2013To2023:   r.Nearest2013To2023,
			Nearest2018To2023:   r.Nearest2018To2023,
			AllTimeNearestRoost: r.AllTimeNearestRoost,
			Roost2013To2023:     r.Roost2013To2023,
			Roost2018To2023:     r.Roost2018To2023,
		})
	}

	return BatResult{
		Counts: BatCountsData{
			TotalEvents:                    summary.Counts.TotalEvents,
			PositiveDetections:             summary.Counts.PositiveDetections,
			ChalinolobusTuberculatus:       summary.Counts.LongTailed,
			ChalinolobusTuberculatusRoosts: summary.Counts.LongTailedRoosts,
			MystacinaTuberculata:           summary.Counts.ShortTailed,
			MystacinaTuberculataRoosts:     summary.Counts.ShortTailedRoosts,
			UnknownBatSpecies:              summary.Counts.Unknown,
		},
		SummaryTable: rows,
	}
}

func mapHerpSummary(summary *services.HerpSummary) HerpResult {
	result := HerpResult{
		UniqueSpeciesCount: summary.UniqueSpeciesCount,
		Message:            summary.Message,
	}
	if len(summary.Rows) > 0 {
		result.Results = report.HerpDisplayRows(summary)
	}
	return result
}
