package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/util"
)

// Probe indicator frames, matching the dashboard's building glyph.
var probeFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const probeTick = 60 * time.Millisecond

// Probe animates a single line while `waylon init` checks that a view can be
// listed, then replaces it with the outcome: the servers found or the reason
// the listing failed.
type Probe struct {
	mu        sync.Mutex
	out       io.Writer
	label     string
	frame     int
	start     time.Time
	stop      chan struct{}
	done      chan struct{}
	running   bool
	lastWidth int
}

// NewProbe creates a probe indicator that writes to out.
func NewProbe(out io.Writer, label string) *Probe {
	return &Probe{out: out, label: label}
}

// Start draws the first frame and begins animating.
func (p *Probe) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.start = time.Now()
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.mu.Unlock()

	p.draw()
	go p.animate()
}

// Found finishes the probe with the servers the view lists.
func (p *Probe) Found(servers []string) {
	detail := fmt.Sprintf("%s (%s)", util.Count(len(servers), "server", "servers"), util.JoinOrNone(servers))
	p.finish(SuccessStyle().Render(SymbolOK), detail)
}

// Failed finishes the probe with a one-line reason taken from err.
func (p *Probe) Failed(err error) {
	p.finish(ErrorStyle().Render(SymbolError), FailureReason(err))
}

// FailureReason condenses err to one line. Structured errors contribute
// their message and the first line of their cause.
func FailureReason(err error) string {
	if err == nil {
		return "unknown error"
	}
	var wErr *errors.Error
	if stderrors.As(err, &wErr) {
		reason := wErr.Message
		if wErr.Cause != nil {
			reason += ": " + firstLine(wErr.Cause.Error())
		}
		return reason
	}
	return firstLine(err.Error())
}

func firstLine(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), SymbolError))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func (p *Probe) halt() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stop)
	p.mu.Unlock()
	<-p.done
}

func (p *Probe) animate() {
	ticker := time.NewTicker(probeTick)
	defer ticker.Stop()
	defer close(p.done)

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.frame = (p.frame + 1) % len(probeFrames)
			p.mu.Unlock()
			p.draw()
		}
	}
}

func (p *Probe) draw() {
	p.mu.Lock()
	defer p.mu.Unlock()

	style := lipgloss.NewStyle().Foreground(GradientColors[(p.frame/2)%len(GradientColors)])
	line := fmt.Sprintf("%s %s...", style.Render(probeFrames[p.frame]), p.label)
	p.clearLine()
	fmt.Fprint(p.out, line)
	p.lastWidth = lipgloss.Width(line)
}

func (p *Probe) finish(symbol, detail string) {
	p.halt()

	p.mu.Lock()
	defer p.mu.Unlock()

	var elapsed time.Duration
	if !p.start.IsZero() {
		elapsed = time.Since(p.start)
	}
	p.clearLine()
	fmt.Fprintf(p.out, "%s %s: %s %s\n", symbol, p.label, detail, MutedStyle().Render(formatElapsed(elapsed)))
	p.lastWidth = 0
}

func (p *Probe) clearLine() {
	if p.lastWidth > 0 {
		fmt.Fprint(p.out, "\r"+strings.Repeat(" ", p.lastWidth)+"\r")
	}
}

// formatElapsed formats a duration for display (e.g., "0.04s", "1.2s").
func formatElapsed(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
