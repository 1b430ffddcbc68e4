// Package scheduler drives the radiator's two poll cycles.
//
// A rebuild clears the registry and rediscovers servers and jobs before
// fetching every job's status; a refresh re-fetches status for the jobs
// already known. Both run on one goroutine (Run): fetches execute in their own
// goroutines and report back through a single inbox channel, so the registry
// only ever has one writer. Every cycle counts its own outstanding fetches;
// when a cycle's last fetch has been applied the poller settles: it sorts,
// aggregates, evaluates idle mode and hands the renderer a Snapshot.
//
// A refresh sweep still waiting on a hung fetch is closed when the next sweep
// starts, and a job whose status fetch is still in flight is skipped by later
// sweeps, so one slow job never holds back the rest of the board.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/idle"
	"github.com/rileyhilliard/waylon/internal/logger"
	"github.com/rileyhilliard/waylon/internal/metrics"
	"github.com/rileyhilliard/waylon/internal/registry"
	"github.com/rileyhilliard/waylon/internal/rollup"
	"github.com/rileyhilliard/waylon/internal/source"
	"github.com/rileyhilliard/waylon/internal/status"
)

// Default cycle intervals.
const (
	DefaultRebuildInterval = time.Hour
	DefaultRefreshInterval = time.Minute
)

// AlertSourceUnreachable is the alert key raised when discovery fails. Job
// discovery failures are keyed per server as "source-unreachable:<server>".
const AlertSourceUnreachable = "source-unreachable"

const inboxSize = 64

// Config holds the poller's startup settings.
type Config struct {
	View            string
	RebuildInterval time.Duration
	RefreshInterval time.Duration
}

// Options are the poller's collaborators. Zero values get sensible defaults.
type Options struct {
	Registry *registry.Registry
	Alerts   *idle.Alerts
	Renderer Renderer
	Logger   logger.Logger
}

// completion is the result of one fetch, delivered through the inbox.
type completion struct {
	kind       string // metrics.KindServers, KindJobs or KindStatus
	generation uint64
	cycle      uint64
	cycleKind  CycleKind
	server     string
	job        string
	names      []string
	status     source.JobStatus
	err        error
}

// cycleState tracks one open rebuild or refresh cycle.
type cycleState struct {
	kind        CycleKind
	outstanding int
}

// Poller schedules rebuild and refresh cycles against a status source.
type Poller struct {
	cfg      Config
	src      source.Source
	reg      *registry.Registry
	alerts   *idle.Alerts
	detector *idle.Detector
	renderer Renderer
	log      logger.Logger
	now      func() time.Time

	inbox    chan completion
	requests chan CycleKind

	// Owned by the loop goroutine.
	generation      uint64
	nextCycle       uint64
	cycles          map[uint64]*cycleState
	inFlight        map[string]bool // status fetches by server/job
	discoveryAlerts map[string]bool
	last            Snapshot
}

// New creates a poller for cfg.View. Intervals that are zero or negative
// fall back to the defaults.
func New(cfg Config, src source.Source, opts Options) (*Poller, error) {
	if strings.TrimSpace(cfg.View) == "" {
		return nil, errors.New(errors.ErrConfig,
			"No view configured",
			"Set 'view' in .waylon.yaml or pass --view")
	}
	if src == nil {
		return nil, errors.New(errors.ErrConfig, "No status source configured", "")
	}
	if cfg.RebuildInterval <= 0 {
		cfg.RebuildInterval = DefaultRebuildInterval
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}

	if opts.Registry == nil {
		opts.Registry = registry.New()
	}
	if opts.Alerts == nil {
		opts.Alerts = idle.NewAlerts()
	}
	if opts.Renderer == nil {
		opts.Renderer = noopRenderer{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	return &Poller{
		cfg:             cfg,
		src:             src,
		reg:             opts.Registry,
		alerts:          opts.Alerts,
		detector:        idle.NewDetector(opts.Renderer),
		renderer:        opts.Renderer,
		log:             opts.Logger,
		now:             time.Now,
		inbox:           make(chan completion, inboxSize),
		requests:        make(chan CycleKind, 1),
		cycles:          make(map[uint64]*cycleState),
		inFlight:        make(map[string]bool),
		discoveryAlerts: make(map[string]bool),
	}, nil
}

// Registry returns the registry the poller writes to.
func (p *Poller) Registry() *registry.Registry {
	return p.reg
}

// Run performs a rebuild immediately, then rebuilds and refreshes on their
// intervals until ctx is done. Fetch failures never stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("Starting radiator for view %s (rebuild every %s, refresh every %s)",
		p.cfg.View, p.cfg.RebuildInterval, p.cfg.RefreshInterval)

	p.startRebuild(ctx)

	rebuild := time.NewTicker(p.cfg.RebuildInterval)
	defer rebuild.Stop()
	refresh := time.NewTicker(p.cfg.RefreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rebuild.C:
			p.startRebuild(ctx)
		case <-refresh.C:
			p.startRefresh(ctx)
		case kind := <-p.requests:
			if kind == CycleRebuild {
				p.startRebuild(ctx)
			} else {
				p.startRefresh(ctx)
			}
		case c := <-p.inbox:
			p.apply(ctx, c)
		}
	}
}

// RunOnce performs a single rebuild and returns the snapshot from its settle
// point. It must not be called while Run is active.
func (p *Poller) RunOnce(ctx context.Context) (Snapshot, error) {
	p.startRebuild(ctx)
	for {
		select {
		case <-ctx.Done():
			return Snapshot{}, errors.WrapWithCode(ctx.Err(), errors.ErrFetch,
				"Timed out waiting for the status source",
				"Check the 'url' setting or raise --timeout")
		case c := <-p.inbox:
			if p.apply(ctx, c) {
				return p.last, nil
			}
		}
	}
}

// RequestRebuild asks a running loop to start a rebuild now. Requests made
// while one is already queued are dropped.
func (p *Poller) RequestRebuild() {
	p.request(CycleRebuild)
}

// RequestRefresh asks a running loop to start a refresh now.
func (p *Poller) RequestRefresh() {
	p.request(CycleRefresh)
}

func (p *Poller) request(kind CycleKind) {
	select {
	case p.requests <- kind:
	default:
	}
}

// startRebuild clears the registry and issues server discovery. Outstanding
// fetches from earlier generations are left running; their completions are
// discarded when they arrive.
func (p *Poller) startRebuild(ctx context.Context) {
	p.generation++
	clear(p.cycles)
	clear(p.inFlight)
	metrics.CyclesTotal.WithLabelValues(string(CycleRebuild)).Inc()
	p.log.Info("Rebuilding view %s", p.cfg.View)

	for key := range p.discoveryAlerts {
		p.alerts.Resolve(key)
	}
	clear(p.discoveryAlerts)

	p.reg.Clear()
	p.notifyCycle(CycleRebuild)

	id := p.openCycle(CycleRebuild)
	view := p.cfg.View
	p.issue(ctx, id, completion{kind: metrics.KindServers}, func(ctx context.Context, c *completion) {
		c.names, c.err = p.src.Servers(ctx, view)
	})
}

// startRefresh issues a status fetch for every job in the registry that has
// none in flight. An earlier sweep that is still waiting is settled first.
func (p *Poller) startRefresh(ctx context.Context) {
	p.closeRefreshes()

	metrics.CyclesTotal.WithLabelValues(string(CycleRefresh)).Inc()
	p.log.Info("Refreshing view %s", p.cfg.View)
	p.notifyCycle(CycleRefresh)

	id := p.openCycle(CycleRefresh)
	skipped := 0
	for job := range p.reg.All() {
		if !p.issueStatus(ctx, id, job.Server, job.ID) {
			skipped++
		}
	}
	if skipped > 0 {
		p.log.Debug("Refresh skipped %d jobs with a status fetch still in flight", skipped)
	}
	if p.cycles[id].outstanding == 0 {
		delete(p.cycles, id)
		p.settle(CycleRefresh)
	}
}

func (p *Poller) openCycle(kind CycleKind) uint64 {
	p.nextCycle++
	p.cycles[p.nextCycle] = &cycleState{kind: kind}
	return p.nextCycle
}

// closeRefreshes settles any refresh sweep that still has fetches
// outstanding. Their completions keep updating the registry when they land.
func (p *Poller) closeRefreshes() {
	closed, outstanding := 0, 0
	for id, st := range p.cycles {
		if st.kind != CycleRefresh {
			continue
		}
		closed++
		outstanding += st.outstanding
		delete(p.cycles, id)
	}
	if closed == 0 {
		return
	}
	p.log.Warn("Previous refresh of view %s still waiting on %d fetches, settling without them",
		p.cfg.View, outstanding)
	p.settle(CycleRefresh)
}

func (p *Poller) notifyCycle(kind CycleKind) {
	if obs, ok := p.renderer.(CycleObserver); ok {
		obs.CycleStarted(kind)
	}
}

func statusKey(server, job string) string {
	return server + "/" + job
}

// issueStatus starts a status fetch for one job. It reports false, issuing
// nothing, when a fetch for that job is already in flight.
func (p *Poller) issueStatus(ctx context.Context, cycle uint64, server, job string) bool {
	key := statusKey(server, job)
	if p.inFlight[key] {
		return false
	}
	p.inFlight[key] = true

	view := p.cfg.View
	p.issue(ctx, cycle, completion{kind: metrics.KindStatus, server: server, job: job}, func(ctx context.Context, c *completion) {
		c.status, c.err = p.src.Status(ctx, view, server, job)
	})
	return true
}

// issue runs fetch on its own goroutine and posts the completion to the
// inbox. The completion is tagged with the current generation and with the
// cycle it counts against; a closed cycle no longer counts it.
func (p *Poller) issue(ctx context.Context, cycle uint64, c completion, fetch func(context.Context, *completion)) {
	c.generation = p.generation
	c.cycle = cycle
	if st := p.cycles[cycle]; st != nil {
		c.cycleKind = st.kind
		st.outstanding++
	} else {
		c.cycleKind = CycleRefresh
	}

	go func() {
		start := time.Now()
		fetch(ctx, &c)
		metrics.FetchDuration.WithLabelValues(c.kind).Observe(time.Since(start).Seconds())
		metrics.FetchesTotal.WithLabelValues(c.kind, metrics.FetchResult(c.err)).Inc()

		select {
		case p.inbox <- c:
		case <-ctx.Done():
		}
	}()
}

// apply folds one completion into the registry and reports whether it
// brought the poller to a settle point. A completion whose cycle was already
// closed settles on its own when no other cycle is open.
func (p *Poller) apply(ctx context.Context, c completion) bool {
	if c.generation != p.generation {
		metrics.StaleCompletionsTotal.Inc()
		p.log.Debug("Discarding %s result from superseded rebuild %d (now %d)", c.kind, c.generation, p.generation)
		return false
	}

	switch c.kind {
	case metrics.KindServers:
		p.applyServers(ctx, c)
	case metrics.KindJobs:
		p.applyJobs(ctx, c)
	case metrics.KindStatus:
		delete(p.inFlight, statusKey(c.server, c.job))
		p.applyStatus(c)
	}

	st := p.cycles[c.cycle]
	if st == nil {
		if len(p.cycles) > 0 {
			return false
		}
		p.settle(c.cycleKind)
		return true
	}
	st.outstanding--
	if st.outstanding > 0 {
		return false
	}
	delete(p.cycles, c.cycle)
	p.settle(st.kind)
	return true
}

func (p *Poller) applyServers(ctx context.Context, c completion) {
	if c.err != nil {
		p.log.Warn("Server discovery for view %s failed: %v", p.cfg.View, oneLine(c.err))
		p.raiseDiscoveryAlert(AlertSourceUnreachable,
			fmt.Sprintf("Cannot list servers for view %s", p.cfg.View))
		return
	}

	view := p.cfg.View
	for _, server := range c.names {
		server := server
		p.issue(ctx, c.cycle, completion{kind: metrics.KindJobs, server: server}, func(ctx context.Context, c *completion) {
			c.names, c.err = p.src.Jobs(ctx, view, server)
		})
	}
}

func (p *Poller) applyJobs(ctx context.Context, c completion) {
	if c.err != nil {
		p.log.Warn("Job discovery for server %s failed: %v", c.server, oneLine(c.err))
		p.raiseDiscoveryAlert(AlertSourceUnreachable+":"+c.server,
			fmt.Sprintf("Cannot list jobs on server %s", c.server))
		return
	}

	for _, name := range c.names {
		job := registry.Job{ID: name, View: p.cfg.View, Server: c.server, Category: status.Unknown}
		if err := p.reg.Upsert(job); err != nil {
			p.log.Warn("Skipping job %q on server %s: %v", name, c.server, oneLine(err))
			continue
		}
		p.issueStatus(ctx, c.cycle, c.server, name)
	}
}

// applyStatus records a job's new status. A failed fetch leaves the job as it was.
func (p *Poller) applyStatus(c completion) {
	if c.err != nil {
		p.log.Debug("Status fetch for %s/%s failed, keeping previous status: %v", c.server, c.job, oneLine(c.err))
		return
	}

	job := registry.Job{
		ID:       c.job,
		View:     p.cfg.View,
		Server:   c.server,
		Category: status.Parse(c.status.Status),
		URL:      c.status.URL,
	}
	if w := c.status.Weather; w != (source.Weather{}) {
		job.Weather = &registry.Weather{Icon: w.Src, Alt: w.Alt, Title: w.Title}
	}
	if err := p.reg.Upsert(job); err != nil {
		p.log.Warn("Dropping status for %s: %v", c.job, oneLine(err))
	}
}

func (p *Poller) raiseDiscoveryAlert(key, message string) {
	p.discoveryAlerts[key] = true
	p.alerts.Raise(key, idle.Danger, message)
}

// settle recomputes order, rollup and idle mode, then renders. kind names
// the cycle that reached the settle point.
func (p *Poller) settle(kind CycleKind) {
	counts := rollup.Aggregate(p.reg.All())
	alerts := p.alerts.List()
	mode := p.detector.Evaluate(counts, len(alerts))

	snap := Snapshot{
		View:       p.cfg.View,
		Jobs:       p.reg.Sorted(),
		Counts:     counts,
		Mode:       mode,
		Alerts:     alerts,
		Cycle:      kind,
		Generation: p.generation,
		UpdatedAt:  p.now(),
	}
	p.last = snap

	metrics.ObserveSettle(counts, p.reg.Len(), mode, len(alerts))
	p.log.Debug("Settled %s: %d failed, %d building, %d successful, %d total (%s)",
		snap.Cycle, counts.Failed, counts.Building, counts.Successful, counts.Total, mode)

	p.renderer.Render(snap)
}

// oneLine flattens a structured error for log output.
func oneLine(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}
