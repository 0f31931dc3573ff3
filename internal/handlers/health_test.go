package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nzbiodata/bioweb/api/internal/models"
	"github.com/nzbiodata/bioweb/api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testStore builds a small store with a known number of records per dataset.
func testStore() *store.Store {
	bats := []models.BatRecord{
		{Species: models.SpeciesLongTailedBat, Latitude: -40.3, Longitude: 175.75},
		{Species: models.SpeciesShortTailedBat, Latitude: -40.4, Longitude: 175.8},
	}
	herps := []models.HerpRecord{
		{ScientificName: "Naultinus grayii", Latitude: -40.3, Longitude: 175.75},
	}
	threats := []models.ThreatStatusEntry{
		{SpeciesName: "Naultinus grayii", Taxa: "Lizards", Category: "At Risk", Status: "Declining"},
	}
	return store.New(bats, herps, threats)
}

func performHealthRequest(handler gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET(path, handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	handler := NewHealthHandler(testStore(), "", "development")

	w := performHealthRequest(handler.Health, "/health")

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
}

func TestHealth_AlwaysOKWithoutStore(t *testing.T) {
	// Liveness does not depend on the datasets.
	handler := NewHealthHandler(nil, "failed to read bat CSV", "development")

	w := performHealthRequest(handler.Health, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReady_DatasetsLoaded(t *testing.T) {
	handler := NewHealthHandler(testStore(), "", "development")

	w := performHealthRequest(handler.Ready, "/health/ready")

	assert.Equal(t, http.StatusOK, w.Code)

	var response ReadyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ready", response.Status)
	assert.Equal(t, "loaded", response.Datasets)
	assert.Empty(t, response.Error)
}

func TestReady_DatasetsUnavailable(t *testing.T) {
	loadError := "missing file(s): threat_status.csv. Please ensure all required CSVs are in ./data"
	handler := NewHealthHandler(nil, loadError, "development")

	w := performHealthRequest(handler.Ready, "/health/ready")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response ReadyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "not_ready", response.Status)
	assert.Equal(t, "unavailable", response.Datasets)
	assert.Equal(t, loadError, response.Error)
}

func TestInfo(t *testing.T) {
	handler := NewHealthHandler(testStore(), "", "production")
	handler.startTime = time.Now().Add(-90 * time.Minute)

	w := performHealthRequest(handler.Info, "/api/v1/info")

	assert.Equal(t, http.StatusOK, w.Code)

	var response InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, APIVersion, response.Version)
	assert.Equal(t, "production", response.Environment)
	assert.Equal(t, 2, response.BatRecords)
	assert.Equal(t, 1, response.HerpRecords)
	assert.Equal(t, 1, response.ThreatStatus)
	assert.Contains(t, response.Uptime, "1h 30m")
}

func TestInfo_WithoutStore(t *testing.T) {
	handler := NewHealthHandler(nil, "load failed", "development")

	w := performHealthRequest(handler.Info, "/api/v1/info")

	assert.Equal(t, http.StatusOK, w.Code)

	var response InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Zero(t, response.BatRecords)
	assert.Zero(t, response.HerpRecords)
	assert.Zero(t, response.ThreatStatus)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{
			name:     "seconds only",
			duration: 42 * time.Second,
			expected: "0h 0m 42s",
		},
		{
			name:     "hours and minutes",
			duration: 3*time.Hour + 25*time.Minute,
			expected: "3h 25m 0s",
		},
		{
			name:     "multiple days",
			duration: 49*time.Hour + 10*time.Minute + 5*time.Second,
			expected: "2d 1h 10m 5s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatUptime(tt.duration))
		})
	}
}
