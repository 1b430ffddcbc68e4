package dashboard

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/waylon/internal/logger"
	"github.com/rileyhilliard/waylon/internal/scheduler"
	"github.com/rileyhilliard/waylon/internal/status"
)

// Sender delivers messages to a running Bubble Tea program. *tea.Program
// satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramRenderer forwards scheduler events to a Bubble Tea program.
// Events that arrive before Attach are dropped.
type ProgramRenderer struct {
	mu     sync.RWMutex
	sender Sender
}

var (
	_ scheduler.Renderer      = (*ProgramRenderer)(nil)
	_ scheduler.CycleObserver = (*ProgramRenderer)(nil)
)

// NewProgramRenderer creates a renderer with no program attached.
func NewProgramRenderer() *ProgramRenderer {
	return &ProgramRenderer{}
}

// Attach sets the program that receives events.
func (r *ProgramRenderer) Attach(s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sender = s
}

func (r *ProgramRenderer) send(msg tea.Msg) {
	r.mu.RLock()
	s := r.sender
	r.mu.RUnlock()
	if s != nil {
		s.Send(msg)
	}
}

// Render implements scheduler.Renderer.
func (r *ProgramRenderer) Render(s scheduler.Snapshot) { r.send(snapshotMsg(s)) }

// EnterIdle implements idle.Notifier.
func (r *ProgramRenderer) EnterIdle() { r.send(idleMsg(true)) }

// ExitIdle implements idle.Notifier.
func (r *ProgramRenderer) ExitIdle() { r.send(idleMsg(false)) }

// CycleStarted implements scheduler.CycleObserver.
func (r *ProgramRenderer) CycleStarted(kind scheduler.CycleKind) { r.send(cycleMsg(kind)) }

// LogRenderer is the headless renderer: it writes one summary line per
// settle point and a line per failing job.
type LogRenderer struct {
	log  logger.Logger
	idle bool
}

var _ scheduler.Renderer = (*LogRenderer)(nil)

// NewLogRenderer creates a renderer that writes to log.
func NewLogRenderer(log logger.Logger) *LogRenderer {
	if log == nil {
		log = logger.Noop()
	}
	return &LogRenderer{log: log}
}

// Render implements scheduler.Renderer.
func (r *LogRenderer) Render(s scheduler.Snapshot) {
	c := s.Counts
	r.log.Info("View %s after %s: %d failed, %d building, %d successful, %d total, %d alerts",
		s.View, s.Cycle, c.Failed, c.Building, c.Successful, c.Total, len(s.Alerts))

	for _, a := range s.Alerts {
		r.log.Warn("Alert %s: %s", a.Severity, a.Message)
	}
	for _, job := range s.Jobs {
		if job.Category != status.Failed {
			continue
		}
		if job.URL != "" {
			r.log.Warn("Job %s on %s is failing: %s", job.ID, job.Server, job.URL)
		} else {
			r.log.Warn("Job %s on %s is failing", job.ID, job.Server)
		}
	}
}

// EnterIdle implements idle.Notifier.
func (r *LogRenderer) EnterIdle() {
	if !r.idle {
		r.log.Info("Entering idle mode: all clear")
	}
	r.idle = true
}

// ExitIdle implements idle.Notifier.
func (r *LogRenderer) ExitIdle() {
	if r.idle {
		r.log.Info("Leaving idle mode")
	}
	r.idle = false
}
