package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
)

func newJSONLogger(buf *bytes.Buffer, level string) *Logger {
	return NewLogger(LoggerOptions{Level: level, Format: "json", Output: buf})
}

// lastEntry decodes the final JSON line written to buf
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		opts      LoggerOptions
		debugSeen bool
		infoSeen  bool
	}{
		{name: "info", opts: LoggerOptions{Level: "info", Format: "json"}, infoSeen: true},
		{name: "debug", opts: LoggerOptions{Level: "debug", Format: "json"}, debugSeen: true, infoSeen: true},
		{name: "error hides info", opts: LoggerOptions{Level: "error", Format: "json"}},
		{name: "unknown level falls back to info", opts: LoggerOptions{Level: "chatty", Format: "json"}, infoSeen: true},
		{name: "empty level falls back to info", opts: LoggerOptions{Format: "json"}, infoSeen: true},
		{name: "verbose forces debug", opts: LoggerOptions{Level: "error", Format: "json", Verbose: true}, debugSeen: true, infoSeen: true},
		{name: "pretty", opts: LoggerOptions{Level: "info", Format: "pretty"}, infoSeen: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.opts.Output = &buf
			logger := NewLogger(tt.opts)

			logger.Debug().Msg("scan detail")
			assert.Equal(t, tt.debugSeen, strings.Contains(buf.String(), "scan detail"))

			logger.Info().Msg("run summary")
			assert.Equal(t, tt.infoSeen, strings.Contains(buf.String(), "run summary"))
		})
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().WithComponent("walker").Error().Msg("dropped")
	})
}

func TestLogger_ExtractionError(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, "warn").WithComponent("walker")

	logger.ExtractionError(domain.ExtractionError{
		Message:  "Unclosed snippet 'foo'",
		Location: domain.Location{File: "src/A.cs", StartLine: 4, EndLine: 9},
	})

	entry := lastEntry(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "walker", entry["component"])
	assert.Equal(t, "src/A.cs", entry["file"])
	assert.Equal(t, float64(4), entry["line"])
	assert.Equal(t, float64(9), entry["end_line"])
	assert.Equal(t, "Unclosed snippet 'foo'", entry["message"])
}

func TestLogger_WithLocation_NoEnd(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf, "info").WithLocation(domain.Location{File: "b.js", StartLine: 2}).Info().Msg("x")

	entry := lastEntry(t, &buf)
	assert.Equal(t, float64(2), entry["line"])
	assert.NotContains(t, entry, "end_line")
}

func TestLogger_MissingSnippet(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf, "info").MissingSnippet("guide/intro.source.md", domain.MissingSnippet{Key: "setup", Line: 12})

	entry := lastEntry(t, &buf)
	assert.Equal(t, "guide/intro.source.md", entry["file"])
	assert.Equal(t, "setup", entry["key"])
	assert.Equal(t, float64(12), entry["line"])
	assert.Equal(t, "Snippet not found", entry["message"])
}

func TestLogger_MissingSnippetFilteredByLevel(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf, "error").MissingSnippet("a.source.md", domain.MissingSnippet{Key: "k", Line: 1})
	assert.Empty(t, buf.String())
}
