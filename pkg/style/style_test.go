package style

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/appstage/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatAuto},
		{"auto", FormatAuto},
		{"term", FormatTerminal},
		{"terminal", FormatTerminal},
		{"text", FormatText},
		{"plain", FormatText},
		{"JSON", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestRenderReportText(t *testing.T) {
	out := RenderReport(Report{
		Name: "myapp", Platform: "linux", Arch: "x64",
		Path: "/out/myapp-linux-x64", Duration: time.Second,
	}, FormatText)

	assert.Equal(t, "staged myapp-linux-x64: /out/myapp-linux-x64", out)
}

func TestRenderReportJSON(t *testing.T) {
	out := RenderReport(Report{Name: "myapp", Path: "/out/myapp"}, FormatJSON)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "myapp", decoded["name"])
	assert.Equal(t, "/out/myapp", decoded["path"])
}

func TestRenderErrorCarriesState(t *testing.T) {
	err := errors.New(errors.ErrHook, "post-copy hook failed").
		WithDetail("state", "PreHooksDone")

	text := RenderError(err, FormatText)
	assert.Contains(t, text, "HOOK_FAILED")
	assert.Contains(t, text, "state PreHooksDone")

	out := RenderError(err, FormatJSON)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "HOOK_FAILED", decoded["code"])
	assert.Equal(t, "PreHooksDone", decoded["state"])
}

func TestRenderErrorPlain(t *testing.T) {
	out := RenderError(assertError("disk full"), FormatText)
	assert.Equal(t, "error: disk full", out)
}

type assertError string

func (e assertError) Error() string { return string(e) }
