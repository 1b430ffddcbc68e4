package cli

import (
	"context"
	"testing"
	"time"

	"github.com/rileyhilliard/waylon/internal/config"
	"github.com/rileyhilliard/waylon/internal/logger"
	"github.com/rileyhilliard/waylon/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url, view string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.URL = url
	cfg.View = view
	return cfg
}

func TestRunHeadless_LogsSettledView(t *testing.T) {
	srv := statusAPI(t)
	cfg := testConfig(srv.URL, "main")

	src, err := source.NewClient(cfg.URL, source.Options{})
	require.NoError(t, err)

	log := logger.NewBufferLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- runHeadless(ctx, cfg, src, log) }()

	assert.Eventually(t, func() bool {
		return log.Contains("View main after rebuild: 1 failed, 1 building, 1 successful, 3 total, 0 alerts")
	}, 5*time.Second, 10*time.Millisecond)
	assert.True(t, log.Contains("Job api-tests on ci-east is failing: https://ci.example.com/job/api-tests/"))
	assert.False(t, log.Contains("Entering idle mode"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runHeadless did not stop after cancel")
	}
}

func TestRunHeadless_AllGreenEntersIdle(t *testing.T) {
	srv := statusAPI(t)
	cfg := testConfig(srv.URL, "green")

	src, err := source.NewClient(cfg.URL, source.Options{})
	require.NoError(t, err)

	log := logger.NewBufferLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- runHeadless(ctx, cfg, src, log) }()

	assert.Eventually(t, func() bool {
		return log.Contains("Entering idle mode: all clear")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRunHeadless_UnreachableSourceRaisesAlert(t *testing.T) {
	srv := statusAPI(t)
	cfg := testConfig(srv.URL, "missing")

	src, err := source.NewClient(cfg.URL, source.Options{})
	require.NoError(t, err)

	log := logger.NewBufferLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- runHeadless(ctx, cfg, src, log) }()

	assert.Eventually(t, func() bool {
		return log.Contains("Cannot list servers for view missing")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done, "discovery failures never stop the radiator")
}

func TestRunHeadless_MetricsListenerFailure(t *testing.T) {
	srv := statusAPI(t)
	cfg := testConfig(srv.URL, "main")
	cfg.MetricsAddr = "256.0.0.1:bad"

	src, err := source.NewClient(cfg.URL, source.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = runHeadless(ctx, cfg, src, logger.NewBufferLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Metrics listener failed")
}

func TestRadiatorCommand_ConfigError(t *testing.T) {
	isolateConfig(t)

	err := radiatorCommand(context.Background(), RadiatorOptions{Headless: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No view configured")
}
