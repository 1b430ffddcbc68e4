package scheduler

import (
	"time"

	"github.com/rileyhilliard/waylon/internal/idle"
	"github.com/rileyhilliard/waylon/internal/registry"
	"github.com/rileyhilliard/waylon/internal/rollup"
)

// CycleKind identifies the poll cycle that led to a settle point.
type CycleKind string

const (
	CycleRebuild CycleKind = "rebuild"
	CycleRefresh CycleKind = "refresh"
)

// Snapshot is what the scheduler hands the renderer at every settle point.
type Snapshot struct {
	View       string
	Jobs       []registry.Job // sorted by descending severity
	Counts     rollup.Counts
	Mode       idle.Mode
	Alerts     []idle.Alert
	Cycle      CycleKind
	Generation uint64
	UpdatedAt  time.Time
}

// Renderer is the display collaborator. Render is called at every settle
// point; EnterIdle/ExitIdle when the idle mode changes.
type Renderer interface {
	idle.Notifier
	Render(Snapshot)
}

// CycleObserver is optionally implemented by a Renderer that wants to show
// progress while a cycle's fetches are outstanding.
type CycleObserver interface {
	CycleStarted(kind CycleKind)
}

type noopRenderer struct{}

func (noopRenderer) Render(Snapshot) {}
func (noopRenderer) EnterIdle()      {}
func (noopRenderer) ExitIdle()       {}
