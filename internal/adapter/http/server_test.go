package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/couchcryptid/upper-winds-etl/internal/adapter/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockTrigger struct {
	err   error
	calls int
}

func (m *mockTrigger) TriggerNow(_ context.Context) error {
	m.calls++
	return m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(readyErr error, trigger httpadapter.RunTrigger) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, trigger, discardLogger())
}

func serve(srv *httpadapter.Server, method, path string) (*httptest.ResponseRecorder, map[string]string) {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestHealthzReturns200(t *testing.T) {
	rec, body := serve(newTestServer(nil, nil), http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec, body := serve(newTestServer(nil, nil), http.MethodGet, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec, body := serve(newTestServer(errors.New("scheduler is not running"), nil), http.MethodGet, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "scheduler is not running", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec, _ := serve(newTestServer(nil, nil), http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRunTriggersJob(t *testing.T) {
	trigger := &mockTrigger{}
	rec, body := serve(newTestServer(nil, trigger), http.MethodPost, "/run")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "triggered", body["status"])
	assert.Equal(t, 1, trigger.calls)
}

func TestRunRejectedWhenTriggerFails(t *testing.T) {
	trigger := &mockTrigger{err: errors.New("scheduler is not running")}
	rec, body := serve(newTestServer(nil, trigger), http.MethodPost, "/run")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "rejected", body["status"])
	assert.Equal(t, "scheduler is not running", body["error"])
}

func TestRunRequiresPost(t *testing.T) {
	trigger := &mockTrigger{}
	rec, _ := serve(newTestServer(nil, trigger), http.MethodGet, "/run")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, trigger.calls)
}

func TestRunNotRegisteredWithoutTrigger(t *testing.T) {
	rec, _ := serve(newTestServer(nil, nil), http.MethodPost, "/run")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
