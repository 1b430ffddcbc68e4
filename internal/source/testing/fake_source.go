// Package testing provides test doubles for the source package.
package testing

import (
	"context"
	"sync"

	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/source"
)

// FakeSource is an in-memory source.Source. Every query is keyed by the API
// path it would hit (source.ServersPath, source.JobsPath, source.StatusPath),
// so tests can fail or hold back individual requests.
type FakeSource struct {
	mu       sync.Mutex
	servers  map[string][]string
	jobs     map[string][]string
	statuses map[string]source.JobStatus
	failures map[string]error
	gates    map[string]chan struct{}

	// Calls records every path requested, in order.
	Calls []string
}

var _ source.Source = (*FakeSource)(nil)

// NewFakeSource creates an empty fake source.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		servers:  make(map[string][]string),
		jobs:     make(map[string][]string),
		statuses: make(map[string]source.JobStatus),
		failures: make(map[string]error),
		gates:    make(map[string]chan struct{}),
	}
}

// AddServer registers an (empty) server under view.
func (f *FakeSource) AddServer(view, server string) *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := source.ServersPath(view)
	for _, s := range f.servers[key] {
		if s == server {
			return f
		}
	}
	f.servers[key] = append(f.servers[key], server)
	return f
}

// AddView registers a view with no servers.
func (f *FakeSource) AddView(view string) *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := source.ServersPath(view)
	if _, ok := f.servers[key]; !ok {
		f.servers[key] = []string{}
	}
	return f
}

// AddJob registers a job (and its server) with the given raw status.
func (f *FakeSource) AddJob(view, server, job, rawStatus string) *FakeSource {
	f.AddServer(view, server)

	f.mu.Lock()
	defer f.mu.Unlock()
	key := source.JobsPath(view, server)
	f.jobs[key] = append(f.jobs[key], job)
	f.statuses[source.StatusPath(view, server, job)] = source.JobStatus{
		Status: rawStatus,
		URL:    "https://ci.example.com/job/" + job + "/",
	}
	return f
}

// SetStatus replaces the status a job reports.
func (f *FakeSource) SetStatus(view, server, job string, st source.JobStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[source.StatusPath(view, server, job)] = st
}

// RemoveServers drops every server from a view.
func (f *FakeSource) RemoveServers(view string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.servers[source.ServersPath(view)] = []string{}
}

// Fail makes every request for path return err until Recover is called.
func (f *FakeSource) Fail(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = err
}

// Recover clears a failure set by Fail.
func (f *FakeSource) Recover(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, path)
}

// Hold makes requests for path block until the returned release func is
// called (or the request context ends).
func (f *FakeSource) Hold(path string) (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[path] = gate
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.gates[path] == gate {
				delete(f.gates, path)
			}
			f.mu.Unlock()
			close(gate)
		})
	}
}

// CallCount returns how many times path was requested.
func (f *FakeSource) CallCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == path {
			n++
		}
	}
	return n
}

// enter records the call, waits on any gate and returns the injected failure.
// The gate and the failure are both sampled when the call starts.
func (f *FakeSource) enter(ctx context.Context, path string) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, path)
	gate := f.gates[path]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return errors.WrapWithCode(ctx.Err(), errors.ErrFetch, "request canceled: "+path, "")
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[path]
}

// Servers implements source.Source.
func (f *FakeSource) Servers(ctx context.Context, view string) ([]string, error) {
	path := source.ServersPath(view)
	if err := f.enter(ctx, path); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	servers, ok := f.servers[path]
	if !ok {
		return nil, errors.New(errors.ErrNotFound, "Status source has no "+path, "")
	}
	return append([]string(nil), servers...), nil
}

// Jobs implements source.Source.
func (f *FakeSource) Jobs(ctx context.Context, view, server string) ([]string, error) {
	path := source.JobsPath(view, server)
	if err := f.enter(ctx, path); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.jobs[path]...), nil
}

// Status implements source.Source.
func (f *FakeSource) Status(ctx context.Context, view, server, job string) (source.JobStatus, error) {
	path := source.StatusPath(view, server, job)
	if err := f.enter(ctx, path); err != nil {
		return source.JobStatus{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[path]
	if !ok {
		return source.JobStatus{}, errors.New(errors.ErrNotFound, "Status source has no "+path, "")
	}
	return st, nil
}
