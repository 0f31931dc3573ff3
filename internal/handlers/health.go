package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nzbiodata/bioweb/api/internal/store"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "1.0.0"
)

// HealthHandler handles health check and readiness endpoints.
// Readiness reflects whether the survey datasets loaded at startup; a load
// failure is a process-level condition that blocks all queries.
type HealthHandler struct {
	store     *store.Store
	loadError string
	startTime time.Time
	env       string
}

// NewHealthHandler creates a new HealthHandler instance. store may be nil
// when the dataset load failed, in which case loadError carries the
// loader's message.
func NewHealthHandler(st *store.Store, loadError string, env string) *HealthHandler {
	return &HealthHandler{
		store:     st,
		loadError: loadError,
		startTime: time.Now(),
		env:       env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status   string `json:"status"`
	Datasets string `json:"datasets"`
	Error    string `json:"error,omitempty"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version      string `json:"version"`
	Environment  string `json:"environment"`
	Uptime       string `json:"uptime"`
	BatRecords   int    `json:"bat_records"`
	HerpRecords  int    `json:"herp_records"`
	ThreatStatus int    `json:"threat_status_entries"`
}

// Health handles GET /health endpoint.
// This is a basic liveness check that always returns 200 OK.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// Returns 200 OK when the datasets are loaded, 503 Service Unavailable with
// the loader's message otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status:   "not_ready",
			Datasets: "unavailable",
			Error:    h.loadError,
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:   "ready",
		Datasets: "loaded",
	})
}

// Info handles GET /api/v1/info endpoint.
// Returns API metadata including version, environment, uptime, and dataset
// sizes.
func (h *HealthHandler) Info(c *gin.Context) {
	info := InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(time.Since(h.startTime)),
	}
	if h.store != nil {
		info.BatRecords = h.store.BatCount()
		info.HerpRecords = h.store.HerpCount()
		info.ThreatStatus = h.store.ThreatCount()
	}

	c.JSON(http.StatusOK, info)
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
