package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eulark/eulark-site/middleware"
	"github.com/eulark/eulark-site/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrVerificationNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", services.ErrEmailTaken), http.StatusConflict},
		{services.ErrPlayerNameTaken, http.StatusConflict},
		{services.ErrInvalidStatusTransition, http.StatusBadRequest},
		{services.ErrVerificationExpired, http.StatusBadRequest},
		{services.ErrInvalidCode, http.StatusBadRequest},
		{services.ErrInvalidOrExpiredToken, http.StatusBadRequest},
		{services.ErrAlreadyCheckedIn, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrInvalidToken, http.StatusUnauthorized},
		{services.ErrUnauthenticated, http.StatusForbidden},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrLogoStorageDisabled, http.StatusServiceUnavailable},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestServerErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestServerErrorLogsToRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/rules/3", nil)
	req = req.WithContext(middleware.WithLogger(req.Context(), logger))

	rec := httptest.NewRecorder()
	mapServiceErrorToHTTP(rec, req, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	out := buf.String()
	assert.Contains(t, out, `"msg":"Internal server error"`)
	assert.Contains(t, out, `"path":"/api/admin/rules/3"`)
	assert.Contains(t, out, "pq: connection refused")
}

func TestReadJSON(t *testing.T) {
	type body struct {
		Email string `json:"email"`
	}
	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"valid", `{"email":"a@x.com"}`, ""},
		{"empty", ``, "body must not be empty"},
		{"unknown field", `{"email":"a","admin":true}`, "unknown key"},
		{"wrong type", `{"email":5}`, "incorrect JSON type"},
		{"two values", `{"email":"a"}{"email":"b"}`, "single JSON value"},
		{"malformed", `{"email":`, "badly-formed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var dst body
			err := readJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, "a@x.com", dst.Email)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestReadJSONTooLarge(t *testing.T) {
	payload := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	var dst struct {
		Email string `json:"email"`
	}
	err := readJSON(httptest.NewRecorder(), req, &dst)
	assert.ErrorContains(t, err, "must not be larger than")
}
