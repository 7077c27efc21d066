// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func healthy(context.Context) error { return nil }

func TestLiveness(t *testing.T) {
	h := NewHandler("1.2.3")

	rec, body := serve(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])

	h.SetShutdown(true)
	rec, body = serve(t, h, "/livez")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting_down", body["status"])
}

func TestReadiness(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "database", Checker: CheckerFunc(healthy)},
		Dependency{Name: "redis", Checker: CheckerFunc(healthy)},
	)

	rec, body := serve(t, h, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	checks, ok := body["checks"].([]any)
	require.True(t, ok)
	require.Len(t, checks, 2)
	assert.Equal(t, "database", checks[0].(map[string]any)["name"])
	assert.Equal(t, "redis", checks[1].(map[string]any)["name"])
}

func TestReadinessDegraded(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "database", Checker: CheckerFunc(healthy)},
		Dependency{Name: "redis", Checker: CheckerFunc(func(context.Context) error {
			return errors.New("connection refused")
		})},
		Dependency{Name: "mail"},
	)

	rec, body := serve(t, h, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body["status"])

	checks := body["checks"].([]any)
	redis := checks[1].(map[string]any)
	assert.Equal(t, false, redis["healthy"])
	assert.Equal(t, "ping failed", redis["message"])

	mail := checks[2].(map[string]any)
	assert.Equal(t, "mail checker not configured", mail["message"])
}

func TestReadinessNotReady(t *testing.T) {
	h := NewHandler("1.0.0")
	h.SetReady(false)

	rec, body := serve(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])
}
