package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		input  string
		expect string
	}{
		{"", ""},
		{"~", home},
		{"~/logs/waylon.log", filepath.Join(home, "logs/waylon.log")},
		{"/var/log/waylon.log", "/var/log/waylon.log"},
		{"relative/path", "relative/path"},
		{"~other/path", "~other/path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expect, ExpandTilde(tt.input))
		})
	}
}
