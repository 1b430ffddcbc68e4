package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, code := range []string{ErrConfig, ErrFetch, ErrDecode, ErrNotFound, ErrRegistry, ErrExec} {
		require.NotEmpty(t, code)
		assert.False(t, seen[code], "error code %q is reused", code)
		seen[code] = true
	}
}

func TestError_Rendering(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		lines []string // expected non-empty lines, in order
	}{
		{
			name:  "message only",
			err:   New(ErrRegistry, "Job has no identifier", ""),
			lines: []string{"✗ Job has no identifier"},
		},
		{
			name: "source unreachable",
			err: WrapWithCode(
				errors.New("dial tcp 127.0.0.1:9292: connect: connection refused"),
				ErrFetch,
				"Cannot list servers for view main",
				"Check the 'url' setting in .waylon.yaml",
			),
			lines: []string{
				"✗ Cannot list servers for view main",
				"dial tcp 127.0.0.1:9292: connect: connection refused",
				"Check the 'url' setting in .waylon.yaml",
			},
		},
		{
			name:  "view missing with suggestion",
			err:   New(ErrNotFound, "View 'nightly' not found", "Run 'waylon init --update' to pick a view"),
			lines: []string{"✗ View 'nightly' not found", "Run 'waylon init --update' to pick a view"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, l := range strings.Split(tt.err.Error(), "\n") {
				if s := strings.TrimSpace(l); s != "" {
					got = append(got, s)
				}
			}
			assert.Equal(t, tt.lines, got)
		})
	}
}

func TestWrap_DefaultsToFetch(t *testing.T) {
	cause := errors.New("unexpected EOF")
	wrapped := Wrap(cause, "Status query for deploy failed")

	assert.Equal(t, ErrFetch, wrapped.Code)
	assert.Equal(t, "Status query for deploy failed", wrapped.Message)
	assert.Same(t, cause, wrapped.Cause)
	assert.Empty(t, wrapped.Suggestion)
}

func TestError_ChainHelpers(t *testing.T) {
	cause := errors.New("invalid character '<' looking for beginning of value")
	decode := WrapWithCode(cause, ErrDecode, "Malformed jobs payload from server ci-east", "")
	outer := fmt.Errorf("rebuild: %w", decode)

	assert.True(t, errors.Is(outer, cause))
	assert.Same(t, cause, decode.Unwrap())

	var wErr *Error
	require.True(t, errors.As(outer, &wErr))
	assert.Equal(t, ErrDecode, wErr.Code)

	assert.True(t, IsCode(outer, ErrDecode))
	assert.False(t, IsCode(outer, ErrFetch))
	assert.False(t, IsCode(cause, ErrDecode))
	assert.False(t, IsCode(nil, ErrDecode))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrNotFound, CodeOf(New(ErrNotFound, "Job 'deploy' is gone", "")))
	assert.Equal(t, ErrFetch, CodeOf(fmt.Errorf("refresh: %w", New(ErrFetch, "refused", ""))))
	// The outermost structured error wins.
	assert.Equal(t, ErrConfig, CodeOf(WrapWithCode(New(ErrFetch, "refused", ""), ErrConfig, "Metrics listener failed", "")))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestExitError(t *testing.T) {
	err := NewExitError(1)
	assert.Equal(t, "exit code 1", err.Error())

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOk   bool
	}{
		{"failed jobs", NewExitError(1), 1, true},
		{"wrapped", fmt.Errorf("status: %w", NewExitError(2)), 2, true},
		{"structured error", New(ErrFetch, "refused", ""), 0, false},
		{"plain error", errors.New("boom"), 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := GetExitCode(tt.err)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
