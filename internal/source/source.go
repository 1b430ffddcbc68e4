// Package source talks to the remote status API that describes
// views, their servers, and each server's jobs.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/logger"
)

// Source is the read-only status API the scheduler polls.
type Source interface {
	Servers(ctx context.Context, view string) ([]string, error)
	Jobs(ctx context.Context, view, server string) ([]string, error)
	Status(ctx context.Context, view, server, job string) (JobStatus, error)
}

// JobStatus is the payload of a job status query.
type JobStatus struct {
	Status  string  `json:"status"`
	URL     string  `json:"url"`
	Weather Weather `json:"weather"`
}

// Weather is the build-stability report attached to a job.
type Weather struct {
	Src   string `json:"src"`
	Alt   string `json:"alt"`
	Title string `json:"title"`
}

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 4 << 20

// Options configures a Client.
type Options struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the pooled client built from go-cleanhttp.
	HTTPClient *http.Client

	Logger logger.Logger
}

// Client is the HTTP+JSON implementation of Source.
type Client struct {
	base string
	http *http.Client
	log  logger.Logger
}

// NewClient creates a client for the status API rooted at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid status source URL: %q", baseURL),
			"Use an absolute http(s) URL like http://localhost:9292")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = cleanhttp.DefaultPooledClient()
		hc.Timeout = opts.Timeout
	}

	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	return &Client{
		base: strings.TrimRight(u.String(), "/"),
		http: hc,
		log:  log,
	}, nil
}

// ServersPath returns the API path listing a view's servers.
func ServersPath(view string) string {
	return "/api/view/" + url.PathEscape(view) + "/servers.json"
}

// JobsPath returns the API path listing a server's jobs.
func JobsPath(view, server string) string {
	return "/api/view/" + url.PathEscape(view) + "/server/" + url.PathEscape(server) + "/jobs.json"
}

// StatusPath returns the API path for a single job's status.
func StatusPath(view, server, job string) string {
	return "/api/view/" + url.PathEscape(view) + "/server/" + url.PathEscape(server) +
		"/job/" + url.PathEscape(job) + ".json"
}

// Servers lists the server identifiers of a view, in source order.
func (c *Client) Servers(ctx context.Context, view string) ([]string, error) {
	var servers []string
	if err := c.get(ctx, ServersPath(view), &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

// Jobs lists the job identifiers of a server, in source order.
func (c *Client) Jobs(ctx context.Context, view, server string) ([]string, error) {
	var jobs []string
	if err := c.get(ctx, JobsPath(view, server), &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Status returns the current status of one job.
func (c *Client) Status(ctx context.Context, view, server, job string) (JobStatus, error) {
	var st JobStatus
	if err := c.get(ctx, StatusPath(view, server, job), &st); err != nil {
		return JobStatus{}, err
	}
	return st, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	target := c.base + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrFetch,
			"Failed to build request for "+path, "")
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("GET %s", target)
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrFetch,
			"Status source request failed: GET "+path,
			"Check that the status source is reachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return errors.New(errors.ErrNotFound,
			"Status source has no "+path,
			"The view, server or job may have been removed; the next rebuild will drop it")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return errors.New(errors.ErrFetch,
			fmt.Sprintf("Status source returned %s for GET %s", resp.Status, path),
			"")
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.ErrDecode,
			"Malformed response for GET "+path, "")
	}
	return nil
}
