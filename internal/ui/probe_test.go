package ui

import (
	"bytes"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/waylon/internal/errors"
)

// syncBuffer lets the animation goroutine and the test share a buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if i := strings.LastIndexAny(s, "\r\n"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func TestProbe_FoundListsServers(t *testing.T) {
	out := &syncBuffer{}
	p := NewProbe(out, "Listing view 'main' on http://ci")
	p.Start()
	time.Sleep(3 * probeTick)
	p.Found([]string{"ci-east", "ci-west"})

	got := out.String()
	assert.True(t, strings.HasSuffix(got, "\n"))
	final := lastLine(got)
	assert.Contains(t, final, SymbolOK)
	assert.Contains(t, final, "Listing view 'main' on http://ci: 2 servers (ci-east, ci-west)")
	assert.Contains(t, got, "Listing view 'main' on http://ci...")
}

func TestProbe_FoundEmptyView(t *testing.T) {
	out := &syncBuffer{}
	p := NewProbe(out, "Listing view 'main'")
	p.Start()
	p.Found(nil)

	assert.Contains(t, lastLine(out.String()), "0 servers (none)")
}

func TestProbe_FailedShowsReason(t *testing.T) {
	out := &syncBuffer{}
	p := NewProbe(out, "Listing view 'missing'")
	p.Start()
	p.Failed(errors.WrapWithCode(stderrors.New("404 Not Found"), errors.ErrNotFound,
		"View 'missing' not found", "Check the view name"))

	final := lastLine(out.String())
	assert.Contains(t, final, SymbolError)
	assert.Contains(t, final, "View 'missing' not found: 404 Not Found")
	assert.NotContains(t, final, "Check the view name")
}

func TestProbe_FinishWithoutStart(t *testing.T) {
	out := &syncBuffer{}
	p := NewProbe(out, "Listing view 'main'")

	assert.NotPanics(t, func() { p.Failed(stderrors.New("connection refused")) })
	assert.Contains(t, lastLine(out.String()), "Listing view 'main': connection refused")
}

func TestProbe_StartTwiceIsSafe(t *testing.T) {
	out := &syncBuffer{}
	p := NewProbe(out, "Listing")
	p.Start()
	p.Start()
	p.Found([]string{"ci-east"})
	assert.Contains(t, lastLine(out.String()), "1 server (ci-east)")
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "unknown error"},
		{"plain", stderrors.New("dial tcp: connection refused"), "dial tcp: connection refused"},
		{"multi-line plain", stderrors.New("first\nsecond"), "first"},
		{"structured without cause", errors.New(errors.ErrFetch, "Source unreachable", "retry"), "Source unreachable"},
		{
			"structured with structured cause",
			errors.WrapWithCode(errors.New(errors.ErrDecode, "Malformed servers payload", ""), errors.ErrFetch, "Couldn't list view 'main'", ""),
			"Couldn't list view 'main': Malformed servers payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureReason(tt.err))
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0.05s", formatElapsed(50*time.Millisecond))
	assert.Equal(t, "1.2s", formatElapsed(1200*time.Millisecond))
	assert.Equal(t, "0.00s", formatElapsed(0))
}
