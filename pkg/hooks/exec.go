package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/arthur-debert/appstage/pkg/logging"
	"github.com/arthur-debert/appstage/pkg/types"
)

// Environment variables exposed to command hooks.
const (
	EnvHookDir            = "APPSTAGE_DIR"
	EnvHookRuntimeVersion = "APPSTAGE_RUNTIME_VERSION"
	EnvHookPlatform       = "APPSTAGE_PLATFORM"
	EnvHookArch           = "APPSTAGE_ARCH"
)

// Command adapts an external command into a Hook. The invocation tuple is
// exposed through APPSTAGE_* environment variables; the command's stdout
// and stderr pass through to the tool's own streams.
func Command(name string, args ...string) types.Hook {
	return func(ctx context.Context, inv types.HookInvocation) error {
		logger := logging.GetLogger("hooks.exec")
		logger.Debug().Str("command", name).Strs("args", args).Msg("Running command hook")

		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Dir = inv.Dir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Env = append(os.Environ(),
			fmt.Sprintf("%s=%s", EnvHookDir, inv.Dir),
			fmt.Sprintf("%s=%s", EnvHookRuntimeVersion, inv.RuntimeVersion),
			fmt.Sprintf("%s=%s", EnvHookPlatform, inv.Platform),
			fmt.Sprintf("%s=%s", EnvHookArch, inv.Arch),
		)

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("hook command %q: %w", name, err)
		}
		return nil
	}
}
