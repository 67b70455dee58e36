package platforms

import (
	"testing"

	"github.com/arthur-debert/appstage/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForTarget(t *testing.T) {
	tests := []struct {
		platform string
		original string
		renamed  string
	}{
		{"darwin", "Electron.app", "myapp.app"},
		{"linux", "electron", "myapp"},
		{"win32", "electron.exe", "myapp.exe"},
		{"windows", "electron.exe", "myapp.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			p, err := ForTarget(tt.platform, "myapp")
			require.NoError(t, err)
			assert.Equal(t, tt.original, p.OriginalBinaryName())
			assert.Equal(t, tt.renamed, p.NewBinaryName())
		})
	}
}

func TestForTargetUnknown(t *testing.T) {
	_, err := ForTarget("solaris", "myapp")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPlatformUnknown))
}
