package observability

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			logger := NewLogger(LoggingConfig{Level: tc.level, Format: "json", Output: "stdout"})
			assert.Equal(t, tc.want, logger.GetLevel())
		})
	}
}

func TestDefaultLoggingConfig(t *testing.T) {
	cfg := DefaultLoggingConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestContextHelpers(t *testing.T) {
	logger := NewLogger(DefaultLoggingConfig())

	// The With helpers must return usable loggers; field propagation is
	// zerolog's concern, so just exercise them.
	l := WithProjectContext(logger, "req-1", "proj-1")
	l = WithSearchContext(l, "pubmed", "cancer[tiab]")
	l = WithArticleContext(l, "pubmed_123")
	assert.Equal(t, logger.GetLevel(), l.GetLevel())
}
