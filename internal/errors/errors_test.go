package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-news-cms/internal/service"
)

func TestToHTTP_BaseMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"email_taken", service.ErrEmailTaken, http.StatusBadRequest, "email_taken"},
		{"invalid_credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"invalid_token", service.ErrInvalidToken, http.StatusUnauthorized, "unauthenticated"},
		{"token_expired", service.ErrTokenExpired, http.StatusUnauthorized, "unauthenticated"},
		{"token_revoked", service.ErrTokenRevoked, http.StatusUnauthorized, "unauthenticated"},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"permission_denied", service.ErrPermissionDenied, http.StatusForbidden, "permission_denied"},
		{"not_found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"internal", service.ErrInternal, http.StatusInternalServerError, "internal"},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Сервис всегда отдаёт обёрнутые ошибки — проверяем через errors.Is.
			gotStatus, resp := ToHTTP(fmt.Errorf("service.op: %w", tc.in))
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_ValidationError_CarriesFields(t *testing.T) {
	verr := &service.ValidationError{Fields: map[string]string{
		"email":    "Invalid email format",
		"password": "Password too short (min 6 characters)",
	}}

	gotStatus, resp := ToHTTP(fmt.Errorf("service.op: %w", verr))
	require.Equal(t, http.StatusBadRequest, gotStatus)
	require.Equal(t, "validation_failed", resp.Error.Code)
	require.Equal(t, verr.Fields, resp.Error.Fields)
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestWriteError_AddsRequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "rid-123")

	WriteError(rr, req, service.ErrNotFound)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Body.String(), `"request_id":"rid-123"`)
	require.Contains(t, rr.Body.String(), `"code":"not_found"`)
}
