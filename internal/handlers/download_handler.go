package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/nzbiodata/bioweb/api/internal/errors"
	"github.com/nzbiodata/bioweb/api/internal/report"
)

const csvContentType = "text/csv"

// DownloadBatOccurrences handles GET /api/v1/export/bat/occurrences.
// It streams every bat record within the radius as a CSV attachment.
func (h *QueryHandler) DownloadBatOccurrences(c *gin.Context) {
	req, origin, ok := h.bindQuery(c)
	if !ok {
		return
	}

	occurrences, err := h.bats.Occurrences(c.Request.Context(), origin, req.Radius)
	if err != nil {
		h.serviceError(c, err, "Failed to collect bat occurrences")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteBatOccurrences(&buf, occurrences); err != nil {
		apierrors.InternalServerError(c, "Failed to encode bat occurrences CSV", err)
		return
	}

	sendCSV(c, fmt.Sprintf("bat_data_occurrences_within_%dkm.csv", req.Radius), buf.Bytes())
}

// DownloadBatSummary handles GET /api/v1/export/bat/summary.
// It streams the per-species nearest-record table as a CSV attachment.
func (h *QueryHandler) DownloadBatSummary(c *gin.Context) {
	req, origin, ok := h.bindQuery(c)
	if !ok {
		return
	}

	summary, err := h.bats.Summarize(c.Request.Context(), origin, req.Radius)
	if err != nil {
		h.serviceError(c, err, "Failed to summarize bat records")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteBatSummary(&buf, summary); err != nil {
		apierrors.InternalServerError(c, "Failed to encode bat summary CSV", err)
		return
	}

	sendCSV(c, fmt.Sprintf("bat_summary_data_within_%dkm.csv", req.Radius), buf.Bytes())
}

// DownloadHerpOccurrences handles GET /api/v1/export/herp/occurrences.
// It streams every herp record within the radius as a CSV attachment.
func (h *QueryHandler) DownloadHerpOccurrences(c *gin.Context) {
	req, origin, ok := h.bindQuery(c)
	if !ok {
		return
	}

	occurrences, err := h.herps.Occurrences(c.Request.Context(), origin, req.Radius)
	if err != nil {
		h.serviceError(c, err, "Failed to collect herpetofauna occurrences")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteHerpOccurrences(&buf, occurrences); err != nil {
		apierrors.InternalServerError(c, "Failed to encode herpetofauna occurrences CSV", err)
		return
	}

	sendCSV(c, fmt.Sprintf("herpetofauna_data_occurrences_within_%dkm.csv", req.Radius), buf.Bytes())
}

// DownloadHerpSummary handles GET /api/v1/export/herp/summary.
// It streams the sorted species summary as a CSV attachment.
func (h *QueryHandler) DownloadHerpSummary(c *gin.Context) {
	req, origin, ok := h.bindQuery(c)
	if !ok {
		return
	}

	summary, err := h.herps.Summarize(c.Request.Context(), origin, req.Radius)
	if err != nil {
		h.serviceError(c, err, "Failed to summarize herpetofauna records")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteHerpSummary(&buf, summary, req.Radius); err != nil {
		apierrors.InternalServerError(c, "Failed to encode herpetofauna summary CSV", err)
		return
	}

	sendCSV(c, fmt.Sprintf("herpetofauna_summary_data_within_%dkm.csv", req.Radius), buf.Bytes())
}

func sendCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, csvContentType, data)
}
