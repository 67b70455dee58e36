package filter

import (
	"strings"
	"testing"

	"github.com/arthur-debert/appstage/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncludeAll(t *testing.T) {
	f := IncludeAll()
	for _, path := range []string{"index.js", "node_modules/dep/index.js", ".git"} {
		ok, err := f(path)
		require.NoError(t, err)
		assert.True(t, ok, path)
	}
}

func TestNewWithPatterns(t *testing.T) {
	f, err := New([]string{"*.log", "tmp", ".git"})
	require.NoError(t, err)

	tests := []struct {
		path    string
		include bool
	}{
		{"index.js", true},
		{"debug.log", false},
		{"tmp", false},
		{"tmp/scratch.txt", false},
		{".git", false},
		{".git/HEAD", false},
		{"src/main.js", true},
	}

	for _, tt := range tests {
		got, err := f(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.include, got, tt.path)
	}
}

func TestNewEmptyIncludesEverything(t *testing.T) {
	f, err := New(nil)
	require.NoError(t, err)
	ok, err := f("anything/at/all")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewInvalidPattern(t *testing.T) {
	_, err := New([]string{"[invalid"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestParsePatterns(t *testing.T) {
	input := strings.NewReader(`
# build outputs
dist
*.log

node_modules/.cache
`)
	patterns, err := ParsePatterns(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"dist", "*.log", "node_modules/.cache"}, patterns)
}
