// Package registry holds the radiator's in-memory record of known jobs.
//
// The registry is owned by the scheduler, which is its only writer: Clear at
// the start of every rebuild, Upsert for every discovered job and every
// status result. Readers (renderers, tests) may enumerate it concurrently.
package registry

import (
	"fmt"
	"iter"
	"sync"

	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/status"
)

// Weather is the build-stability summary the status source attaches to a job.
type Weather struct {
	Icon  string // image reference (the source's "src")
	Alt   string
	Title string
}

// Job is one build job on the radiator.
type Job struct {
	ID       string
	View     string
	Server   string
	Category status.Category
	URL      string   // detail link
	Weather  *Weather // nil until the first successful status fetch
}

// Registry stores one Job per ID in first-seen order.
type Registry struct {
	mu    sync.RWMutex
	order []string
	jobs  map[string]Job
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		jobs: make(map[string]Job),
	}
}

// Clear removes every job.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.jobs = make(map[string]Job)
}

// Upsert inserts job, or overwrites the existing record with the same ID in
// place. The last write wins.
func (r *Registry) Upsert(job Job) error {
	if err := validate(job); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; !exists {
		r.order = append(r.order, job.ID)
	}
	r.jobs[job.ID] = job
	return nil
}

func validate(job Job) error {
	switch {
	case job.ID == "":
		return errors.New(errors.ErrRegistry, "Job has no identifier", "")
	case job.View == "" || job.Server == "":
		return errors.New(errors.ErrRegistry,
			fmt.Sprintf("Job '%s' has no owning view/server", job.ID), "")
	case !job.Category.Valid():
		return errors.New(errors.ErrRegistry,
			fmt.Sprintf("Job '%s' has an invalid status category (%d)", job.ID, int(job.Category)), "")
	}
	return nil
}

// All returns a lazy sequence over the jobs in registry order. The sequence
// may be ranged over any number of times; each pass reflects the registry as
// it is while being walked, skipping jobs removed mid-iteration.
func (r *Registry) All() iter.Seq[Job] {
	return func(yield func(Job) bool) {
		r.mu.RLock()
		ids := make([]string, len(r.order))
		copy(ids, r.order)
		r.mu.RUnlock()

		for _, id := range ids {
			job, ok := r.Get(id)
			if !ok {
				continue
			}
			if !yield(job) {
				return
			}
		}
	}
}

// Get returns the job with the given ID.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	return job, ok
}

// Len returns the number of jobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// Sorted returns a copy of all jobs ordered by descending severity rank.
func (r *Registry) Sorted() []Job {
	jobs := make([]Job, 0, r.Len())
	for job := range r.All() {
		jobs = append(jobs, job)
	}
	status.SortByRank(jobs, func(j Job) status.Category { return j.Category })
	return jobs
}
