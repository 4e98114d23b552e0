package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/upper-winds-etl/internal/config"
	"github.com/couchcryptid/upper-winds-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "run"}, names)

	run, _, err := root.Find([]string{"run"})
	require.NoError(t, err)
	assert.NotNil(t, run.Flags().Lookup("codes"))
}

func TestRunCmd_EmptyCodesOverride(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"run", "--codes", " , "})
	root.SetOut(io.Discard)

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no airport codes")
}

func TestRunCmd_ReportsFailedCodes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(upstream.Close)

	t.Setenv("NAVCANADA_BASE_URL", upstream.URL)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs([]string{"run", "--codes", "cyyu,cyul"})
	root.SetOut(&out)

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 airport codes failed")
	assert.Contains(t, out.String(), "stored: none")
	assert.Contains(t, out.String(), "failed: CYYU, CYUL")
}

func TestBuildPipeline_KafkaOptional(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	cfg := &config.Config{NavCanadaBaseURL: "http://127.0.0.1:1/", MongoURI: "mongodb://127.0.0.1:1/"}
	p, closeSinks := buildPipeline(cfg, []string{"CYYU"}, logger, metrics)
	require.NotNil(t, p)
	closeSinks()

	cfg.KafkaBrokers = []string{"127.0.0.1:1"}
	cfg.KafkaTopic = "upper-winds"
	p, closeSinks = buildPipeline(cfg, []string{"CYYU"}, logger, metrics)
	require.NotNil(t, p)
	closeSinks()
}
