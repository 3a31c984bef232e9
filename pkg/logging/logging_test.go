package logging

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupVerbosityLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		want      zerolog.Level
	}{
		{"default is warn", 0, zerolog.WarnLevel},
		{"single v is info", 1, zerolog.InfoLevel},
		{"double v is debug", 2, zerolog.DebugLevel},
		{"triple v is trace", 3, zerolog.TraceLevel},
		{"beyond triple stays trace", 7, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Setup(tt.verbosity)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestGetLogger(t *testing.T) {
	logger := GetLogger("compact")
	// The component field is attached to every event from this logger;
	// just ensure constructing and using it does not panic.
	logger.Debug().Msg("probe")
}

func TestLogFilePath(t *testing.T) {
	path := LogFilePath()
	assert.True(t, strings.HasSuffix(path, LogFileName))
	assert.Contains(t, path, "depotc")
}
