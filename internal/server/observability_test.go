package server

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainya/journeylens/internal/logger"
)

func TestObservabilityEndpoints(t *testing.T) {
	_, _, reg := newTestService(t)
	var ready atomic.Bool
	o := NewObservabilityServer(":0", reg, ready.Load, logger.Nop())

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		o.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := serve("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "journeyd")

	assert.Equal(t, http.StatusServiceUnavailable, serve("/ready").Code)
	ready.Store(true)
	assert.Equal(t, http.StatusOK, serve("/ready").Code)

	rec = serve("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "journeylens_dataset_records")

	assert.Equal(t, http.StatusOK, serve("/debug/pprof/").Code)
}
