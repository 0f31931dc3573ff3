package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nzbiodata/bioweb/api/internal/logger"
	"github.com/nzbiodata/bioweb/api/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Set Gin to test mode to suppress logs during tests
	gin.SetMode(gin.TestMode)
}

// setupTestContext creates a test Gin context with logger and request ID in context.
func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)

	log := logger.New("development")
	c.Set("logger", log)
	c.Set(middleware.RequestIDKey, "test-request-id")

	return c, w
}

// parseErrorResponse parses the JSON response into an ErrorResponse struct.
func parseErrorResponse(t *testing.T, body *bytes.Buffer) ErrorResponse {
	var response ErrorResponse
	err := json.Unmarshal(body.Bytes(), &response)
	require.NoError(t, err, "Failed to parse error response JSON")
	return response
}

func TestBadRequest(t *testing.T) {
	c, w := setupTestContext()

	BadRequest(c, "Invalid coordinates", map[string]interface{}{
		"coords": "not-a-coordinate",
		"radius": 25,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code, "Expected status 400 Bad Request")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrBadRequest, response.Error.Code)
	assert.Equal(t, "Invalid coordinates", response.Error.Message)
	assert.Equal(t, "not-a-coordinate", response.Error.Details["coords"],
		"submitted values should be echoed back for re-display")
}

func TestBadRequest_NoDetails(t *testing.T) {
	c, w := setupTestContext()

	BadRequest(c, "Invalid query parameters", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrBadRequest, response.Error.Code)
	assert.Nil(t, response.Error.Details)
}

func TestServiceUnavailable(t *testing.T) {
	c, w := setupTestContext()

	msg := "missing file(s): threat_status.csv. Please ensure all required CSVs are in ./data"
	ServiceUnavailable(c, msg)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "Expected status 503 Service Unavailable")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrServiceUnavailable, response.Error.Code)
	assert.Equal(t, msg, response.Error.Message)
}

func TestInternalServerError(t *testing.T) {
	c, w := setupTestContext()

	InternalServerError(c, "Failed to encode CSV", errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code, "Expected status 500 Internal Server Error")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrInternalServer, response.Error.Code)
	assert.Equal(t, "Failed to encode CSV", response.Error.Message)
	assert.NotContains(t, w.Body.String(), "boom",
		"underlying error must not leak to the client")
}

func TestValidationError(t *testing.T) {
	c, w := setupTestContext()

	// Produce real validator errors the way gin binding does.
	type query struct {
		Coords string `validate:"required"`
		Radius int    `validate:"required,min=1,max=50"`
	}
	err := validator.New().Struct(query{Radius: 99})
	require.Error(t, err)
	validationErrors, ok := err.(validator.ValidationErrors)
	require.True(t, ok, "Expected validator.ValidationErrors")

	ValidationError(c, validationErrors)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrValidation, response.Error.Code)
	assert.Contains(t, response.Error.Details, "Coords")
	assert.Contains(t, response.Error.Details, "Radius")
}

func TestFormatValidationError(t *testing.T) {
	type bounded struct {
		Radius int `validate:"min=1,max=50"`
	}

	err := validator.New().Struct(bounded{Radius: 0})
	validationErrors := err.(validator.ValidationErrors)
	msg := formatValidationError(validationErrors[0])
	assert.Contains(t, msg, "1")

	err = validator.New().Struct(bounded{Radius: 51})
	validationErrors = err.(validator.ValidationErrors)
	msg = formatValidationError(validationErrors[0])
	assert.Contains(t, msg, "50")
}

func TestErrorCodeConstants(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", ErrBadRequest)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", ErrInternalServer)
	assert.Equal(t, "VALIDATION_ERROR", ErrValidation)
	assert.Equal(t, "SERVICE_UNAVAILABLE", ErrServiceUnavailable)
}
