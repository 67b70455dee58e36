package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLoggerVerbosityLevels(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{9, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		SetupLogger(tt.verbosity)
		assert.Equal(t, tt.want, zerolog.GlobalLevel(), "verbosity %d", tt.verbosity)
	}
}

func TestGetLoggerAttachesComponent(t *testing.T) {
	logger := GetLogger("pipeline")
	// Logger must be usable without further setup
	logger.Debug().Msg("component logger works")
}

func TestGetLogFilePathRespectsStateHome(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)

	path := getLogFilePath()
	assert.Equal(t, filepath.Join(stateDir, "appstage", "appstage.log"), path)
}

func TestSetupLogFileCreatesParents(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "appstage.log")
	f, err := setupLogFile(logPath)
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()

	info, err := os.Stat(logPath)
	assert.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.True(t, strings.HasSuffix(f.Name(), "appstage.log"))
}
