// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSONErrorRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, UnauthorizedError("").WithRedirect("/"))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("X-Redirect-To"))

	resp := decode(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	assert.Equal(t, "/", resp.Error.RedirectTo)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("get: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", ErrDuplicateKey, http.StatusConflict, "DUPLICATE"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"validation", NewValidationError("name is required"), http.StatusBadRequest, "BAD_REQUEST"},
		{"app error", BadRequestError("Invalid date"), http.StatusBadRequest, "BAD_REQUEST"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteServiceError(rec, tt.err, "asset")

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode(t, rec).Error.Code)
		})
	}
}

func TestWriteServiceErrorMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, NewValidationError("task_name is required"), "task")
	assert.Equal(t, "task_name is required", decode(t, rec).Error.Message)

	rec = httptest.NewRecorder()
	WriteServiceError(rec, ErrNotFound, "task")
	assert.Equal(t, "task not found", decode(t, rec).Error.Message)

	rec = httptest.NewRecorder()
	InternalServerError(rec, errors.New("pq: password authentication failed"))
	assert.Equal(t, "an unexpected error occurred", decode(t, rec).Error.Message)
}
