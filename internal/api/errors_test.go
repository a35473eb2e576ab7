package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"agcbo/internal/service"

	"github.com/gin-gonic/gin"
)

func TestErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		status         int
		code           string
		message        string
		expectedStatus int
	}{
		{"BadRequest", http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest},
		{"NotFound", http.StatusNotFound, ErrCodeNotFound, "project not found", http.StatusNotFound},
		{"InternalError", http.StatusInternalServerError, ErrCodeInternalError, "server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ErrorResponse(c, tt.status, tt.code, tt.message)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var response APIError
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, response.Code)
			}
			if response.Message != tt.message {
				t.Errorf("expected message %s, got %s", tt.message, response.Message)
			}
		})
	}
}

func TestShortcutFunctions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		call   func(c *gin.Context)
		status int
		code   string
	}{
		{"Unauthorized", func(c *gin.Context) { Unauthorized(c, "login required") }, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"Forbidden", func(c *gin.Context) { Forbidden(c, "staff only") }, http.StatusForbidden, ErrCodeForbidden},
		{"ServiceUnavailable", func(c *gin.Context) { ServiceUnavailable(c, "down") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"MissingField", func(c *gin.Context) { MissingField(c, "email") }, http.StatusBadRequest, ErrCodeMissingField},
		{"InvalidPayload", func(c *gin.Context) { InvalidPayload(c, nil) }, http.StatusBadRequest, ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.call(c)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			var response APIError
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, response.Code)
			}
		})
	}
}

func TestRespondErrorMapsServiceErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", service.FieldError("title", "this field is required"), http.StatusBadRequest, ErrCodeValidation},
		{"rule", service.NewRuleError(service.RuleEventFull, "event is full"), http.StatusBadRequest, service.RuleEventFull},
		{"wrapped not found", fmt.Errorf("load: %w", service.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials},
		{"pending", service.ErrAccountPending, http.StatusUnauthorized, ErrCodeAccountPending},
		{"disabled", service.ErrAccountDisabled, http.StatusUnauthorized, ErrCodeUserDisabled},
		{"token", service.ErrInvalidToken, http.StatusUnauthorized, ErrCodeSessionExpired},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/test", nil)

			respondError(c, tt.err, "failed")

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			var response APIError
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, response.Code)
			}
			if tt.name == "unknown" && response.Message != "failed" {
				t.Errorf("internal error text leaked: %q", response.Message)
			}
		})
	}
}

func TestValidationDetailsCarryFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/events/", nil)

	verr := service.NewValidationError()
	verr.Add("capacity", "must not be negative")
	verr.Add("title", "this field is required")
	respondError(c, verr, "failed")

	var response struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(response.Details) != 2 || response.Details["title"] == "" {
		t.Fatalf("unexpected details: %v", response.Details)
	}
}
