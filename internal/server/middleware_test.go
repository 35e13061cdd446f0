package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bi-al1/stock-dashboard/internal/common"
)

func TestCorrelationIDAssigned(t *testing.T) {
	handler := newTestServer(t, defaultServices())

	rec := doRequest(t, handler, http.MethodGet, "/api/health", "")
	assert.Len(t, rec.Header().Get("X-Correlation-ID"), 8)
}

func TestCorrelationIDPreserved(t *testing.T) {
	handler := newTestServer(t, defaultServices())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Correlation-ID", "fixed123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "fixed123", rec.Header().Get("X-Correlation-ID"))
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(t, defaultServices())

	rec := doRequest(t, handler, http.MethodOptions, "/api/watchlist", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestCORSHeadersOnNormalRequest(t *testing.T) {
	handler := newTestServer(t, defaultServices())

	rec := doRequest(t, handler, http.MethodGet, "/api/health", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := applyMiddleware(panicking, common.NewSilentLogger())

	rec := doRequest(t, handler, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRootServiceDescriptor(t *testing.T) {
	handler := newTestServer(t, defaultServices())

	rec := doRequest(t, handler, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kabu-server", decodeBody(t, rec)["service"])
}

func TestUnknownPathNotFound(t *testing.T) {
	handler := newTestServer(t, defaultServices())

	rec := doRequest(t, handler, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
