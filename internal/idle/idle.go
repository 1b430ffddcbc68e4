// Package idle decides when the radiator may switch to its ambient
// "all clear" display.
package idle

import "github.com/rileyhilliard/waylon/internal/rollup"

// Mode is the process-wide display mode.
type Mode int

const (
	Normal Mode = iota
	Idle
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// Notifier receives mode changes. Both calls must tolerate being repeated.
type Notifier interface {
	EnterIdle()
	ExitIdle()
}

// ShouldIdle reports whether the counts allow idle mode: nothing failed,
// nothing building, at least one success, and no active alerts.
func ShouldIdle(c rollup.Counts, alerts int) bool {
	return c.Failed == 0 && c.Building == 0 && c.Successful >= 1 && alerts == 0
}

// Detector is the two-state Normal/Idle machine. It starts in Normal.
// It is not safe for concurrent use; the scheduler goroutine owns it.
type Detector struct {
	notifier  Notifier
	mode      Mode
	evaluated bool
}

// NewDetector creates a detector that reports to n. n may be nil.
func NewDetector(n Notifier) *Detector {
	return &Detector{notifier: n, mode: Normal}
}

// Mode returns the current mode.
func (d *Detector) Mode() Mode {
	return d.mode
}

// Evaluate recomputes the mode from the latest counts and alert count.
// The first evaluation always notifies so the renderer starts in sync;
// after that only transitions notify.
func (d *Detector) Evaluate(c rollup.Counts, alerts int) Mode {
	next := Normal
	if ShouldIdle(c, alerts) {
		next = Idle
	}

	changed := !d.evaluated || next != d.mode
	d.mode = next
	d.evaluated = true

	if changed && d.notifier != nil {
		if next == Idle {
			d.notifier.EnterIdle()
		} else {
			d.notifier.ExitIdle()
		}
	}
	return next
}
