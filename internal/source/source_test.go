package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/view/main/servers.json":
			_ = json.NewEncoder(w).Encode([]string{"jenkins-a", "jenkins-b"})
		case "/api/view/main/server/jenkins-a/jobs.json":
			_ = json.NewEncoder(w).Encode([]string{"build", "deploy"})
		case "/api/view/main/server/jenkins-a/job/build.json":
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			_, _ = w.Write([]byte(`{
				"status": "failure",
				"url": "https://ci.example.com/job/build/",
				"weather": {"src": "/img/health-20to39.png", "alt": "[20%]", "title": "Build stability: 4 out of the last 5 builds failed."}
			}`))
		case "/api/view/main/server/jenkins-a/job/garbage.json":
			_, _ = w.Write([]byte(`{"status": `))
		case "/api/view/main/server/jenkins-a/job/boom.json":
			http.Error(w, "internal", http.StatusInternalServerError)
		case "/api/view/main/server/jenkins-a/job/my job.json":
			assert.Equal(t, "/api/view/main/server/jenkins-a/job/my%20job.json", r.URL.EscapedPath())
			_, _ = w.Write([]byte(`{"status": "running"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:9292", "ftp://example.com", "http://", "::"} {
		t.Run(raw, func(t *testing.T) {
			_, err := NewClient(raw, Options{})
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c, err := NewClient("http://radiator.local:9292/", Options{})
	require.NoError(t, err)
	assert.Equal(t, "http://radiator.local:9292", c.base)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/api/view/main/servers.json", ServersPath("main"))
	assert.Equal(t, "/api/view/main/server/ci/jobs.json", JobsPath("main", "ci"))
	assert.Equal(t, "/api/view/main/server/ci/job/build.json", StatusPath("main", "ci", "build"))
	assert.Equal(t, "/api/view/main/server/ci/job/my%20job.json", StatusPath("main", "ci", "my job"))
	assert.Equal(t, "/api/view/a%2Fb/servers.json", ServersPath("a/b"))
}

func TestClient_Servers(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	servers, err := c.Servers(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"jenkins-a", "jenkins-b"}, servers)
}

func TestClient_Jobs(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	jobs, err := c.Jobs(context.Background(), "main", "jenkins-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "deploy"}, jobs)
}

func TestClient_Status(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	st, err := c.Status(context.Background(), "main", "jenkins-a", "build")
	require.NoError(t, err)
	assert.Equal(t, "failure", st.Status)
	assert.Equal(t, "https://ci.example.com/job/build/", st.URL)
	assert.Equal(t, "/img/health-20to39.png", st.Weather.Src)
	assert.Equal(t, "[20%]", st.Weather.Alt)
	assert.Contains(t, st.Weather.Title, "4 out of the last 5")
}

func TestClient_Status_EscapesJobName(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	st, err := c.Status(context.Background(), "main", "jenkins-a", "my job")
	require.NoError(t, err)
	assert.Equal(t, "running", st.Status)
	assert.Equal(t, Weather{}, st.Weather)
}

func TestClient_ErrorClassification(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	tests := []struct {
		name string
		job  string
		code string
	}{
		{"missing job", "gone", errors.ErrNotFound},
		{"malformed payload", "garbage", errors.ErrDecode},
		{"server error", "boom", errors.ErrFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Status(context.Background(), "main", "jenkins-a", tt.job)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, Options{})
	require.NoError(t, err)

	_, err = c.Servers(context.Background(), "main")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
}

func TestClient_Timeout(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(srv.URL, Options{Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Servers(context.Background(), "main")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Servers(ctx, "main")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
}
