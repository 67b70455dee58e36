// Package platforms provides the per-target runtime binary naming
// variants consumed by the staging pipeline.
package platforms

import (
	"github.com/arthur-debert/appstage/pkg/errors"
	"github.com/arthur-debert/appstage/pkg/types"
)

// Platform identifiers accepted by ForTarget.
const (
	Darwin  = "darwin"
	Linux   = "linux"
	Win32   = "win32"
	Windows = "windows"
)

// ForTarget returns the binary-naming variant for the given platform
// identifier and application name.
func ForTarget(platform, appName string) (types.Platform, error) {
	switch platform {
	case Darwin:
		return appBundle{name: appName}, nil
	case Linux:
		return executable{name: appName}, nil
	case Win32, Windows:
		return winExecutable{name: appName}, nil
	default:
		return nil, errors.Newf(errors.ErrPlatformUnknown, "unsupported platform %q", platform)
	}
}

// appBundle names the darwin application bundle.
type appBundle struct {
	name string
}

func (a appBundle) OriginalBinaryName() string { return "Electron.app" }
func (a appBundle) NewBinaryName() string      { return a.name + ".app" }

// executable names the plain runtime binary on linux.
type executable struct {
	name string
}

func (e executable) OriginalBinaryName() string { return "electron" }
func (e executable) NewBinaryName() string      { return e.name }

// winExecutable names the runtime binary on windows.
type winExecutable struct {
	name string
}

func (w winExecutable) OriginalBinaryName() string { return "electron.exe" }
func (w winExecutable) NewBinaryName() string      { return w.name + ".exe" }
