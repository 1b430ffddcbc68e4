package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// statusAPI serves view "main" with one server and three jobs:
// api-tests failing, deploy building, lint passing.
func statusAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/view/main/servers.json":
			_ = json.NewEncoder(w).Encode([]string{"ci-east"})
		case "/api/view/main/server/ci-east/jobs.json":
			_ = json.NewEncoder(w).Encode([]string{"lint", "api-tests", "deploy"})
		case "/api/view/main/server/ci-east/job/api-tests.json":
			_, _ = w.Write([]byte(`{"status": "failure", "url": "https://ci.example.com/job/api-tests/",
				"weather": {"src": "/img/health-00to19.png", "alt": "[0%]", "title": "Build stability: 5 out of the last 5 builds failed."}}`))
		case "/api/view/main/server/ci-east/job/deploy.json":
			_, _ = w.Write([]byte(`{"status": "running", "url": "https://ci.example.com/job/deploy/"}`))
		case "/api/view/main/server/ci-east/job/lint.json":
			_, _ = w.Write([]byte(`{"status": "success", "url": "https://ci.example.com/job/lint/",
				"weather": {"src": "/img/health-80plus.png", "alt": "[100%]", "title": "Build stability: No recent builds failed."}}`))
		case "/api/view/green/servers.json":
			_ = json.NewEncoder(w).Encode([]string{"ci-east"})
		case "/api/view/green/server/ci-east/jobs.json":
			_ = json.NewEncoder(w).Encode([]string{"lint"})
		case "/api/view/green/server/ci-east/job/lint.json":
			_, _ = w.Write([]byte(`{"status": "success"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// isolateConfig runs the test in an empty directory with no global config,
// no WAYLON_* overrides and default global flags.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"WAYLON_URL", "WAYLON_VIEW", "WAYLON_LOG_LEVEL", "WAYLON_FETCH_TIMEOUT", "WAYLON_METRICS_ADDR", "NO_COLOR"} {
		t.Setenv(key, "")
	}

	oldCfg, oldVerbose, oldURL, oldView, oldMachine := cfgFile, verbose, urlFlag, viewFlg, machineMode
	t.Cleanup(func() {
		cfgFile, verbose, urlFlag, viewFlg, machineMode = oldCfg, oldVerbose, oldURL, oldView, oldMachine
	})
	cfgFile, verbose, urlFlag, viewFlg, machineMode = "", false, "", "", false
	return dir
}

func writeTestConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".waylon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
