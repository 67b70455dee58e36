package style

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/appstage/pkg/errors"
)

// Report summarizes one staging run for display.
type Report struct {
	Name     string        `json:"name"`
	Platform string        `json:"platform"`
	Arch     string        `json:"arch"`
	Path     string        `json:"path"`
	Duration time.Duration `json:"duration_ns"`
}

// RenderReport formats a successful staging run.
func RenderReport(r Report, f Format) string {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Sprintf(`{"path": %q}`, r.Path)
		}
		return string(data)
	case FormatTerminal:
		target := TargetStyle.Render(fmt.Sprintf("%s-%s-%s", r.Name, r.Platform, r.Arch))
		var b strings.Builder
		fmt.Fprintf(&b, "%s Staged %s in %s\n", SuccessIndicator, target, r.Duration.Round(time.Millisecond))
		fmt.Fprintf(&b, "  %s", PathStyle.Render(r.Path))
		return b.String()
	default:
		return fmt.Sprintf("staged %s-%s-%s: %s", r.Name, r.Platform, r.Arch, r.Path)
	}
}

// RenderError formats a failed staging run, surfacing the error code and
// the state it failed in when available.
func RenderError(err error, f Format) string {
	code := errors.GetErrorCode(err)
	state := ""
	var stageErr *errors.StageError
	if stderrors.As(err, &stageErr) {
		if s, ok := stageErr.Details["state"].(string); ok {
			state = s
		}
	}

	switch f {
	case FormatJSON:
		payload := map[string]string{"error": err.Error(), "code": string(code)}
		if state != "" {
			payload["state"] = state
		}
		data, marshalErr := json.MarshalIndent(payload, "", "  ")
		if marshalErr != nil {
			return fmt.Sprintf(`{"error": %q}`, err.Error())
		}
		return string(data)
	case FormatTerminal:
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s", ErrorIndicator, ErrorStyle.Render(err.Error()))
		if state != "" {
			fmt.Fprintf(&b, "\n  %s", MutedStyle.Render("failed in state "+state))
		}
		return b.String()
	default:
		if state != "" {
			return fmt.Sprintf("error: %s (state %s)", err.Error(), state)
		}
		return fmt.Sprintf("error: %s", err.Error())
	}
}
