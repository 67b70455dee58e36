// Package paths provides centralized path handling for appstage.
// The Planner derives every well-known location of a packaging run —
// staging directory, final bundle directory, resources and app
// subdirectories — from the configuration alone. All functions are pure:
// no I/O happens here, and inputs are assumed validated by the caller.
package paths

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/appstage/pkg/types"
)

// Well-known names inside a staged bundle.
// IMPORTANT: These constants define the bundle layout consumed by the
// runtime and are NOT user-configurable.
const (
	// ResourcesDirName is the resources directory inside the bundle
	ResourcesDirName = "resources"

	// AppDirName is the application directory inside resources
	AppDirName = "app"

	// StaleAppDirName is the template's placeholder app directory,
	// removed during staging
	StaleAppDirName = "default_app"

	// StaleAppArchiveName is the template's placeholder app archive,
	// removed during staging
	StaleAppArchiveName = "default_app.asar"

	// TempRootDirName is the per-tool directory under the cache root
	TempRootDirName = "appstage"
)

// Planner computes the directory layout for one packaging run.
type Planner struct {
	cfg *types.Config
}

// NewPlanner creates a Planner for the given configuration.
func NewPlanner(cfg *types.Config) Planner {
	return Planner{cfg: cfg}
}

// FinalBasename is the name of the bundle directory: "<name>-<platform>-<arch>".
func (p Planner) FinalBasename() string {
	return fmt.Sprintf("%s-%s-%s", p.cfg.Name, p.cfg.Platform, p.cfg.Arch)
}

// FinalPath is the bundle's final location under the output root.
func (p Planner) FinalPath() string {
	return filepath.Join(p.cfg.OutputRoot, p.FinalBasename())
}

// StagingPath is where the bundle is assembled. With temp-dir staging
// disabled it equals FinalPath; otherwise it lives under the temp root,
// qualified by platform and arch so concurrent runs for different targets
// never collide.
func (p Planner) StagingPath() string {
	if !p.cfg.UseTempDir {
		return p.FinalPath()
	}
	target := fmt.Sprintf("%s-%s", p.cfg.Platform, p.cfg.Arch)
	return filepath.Join(p.cfg.TempRoot, target, p.FinalBasename())
}

// ResourcesDir is the resources directory inside the staging path.
func (p Planner) ResourcesDir() string {
	return filepath.Join(p.StagingPath(), ResourcesDirName)
}

// ResourcesAppDir is the staged application directory.
func (p Planner) ResourcesAppDir() string {
	return filepath.Join(p.ResourcesDir(), AppDirName)
}

// ArchivePath is the destination of the archive artifact inside the
// resources directory. The artifact name comes from the archiver.
func (p Planner) ArchivePath(artifact string) string {
	return filepath.Join(p.ResourcesDir(), artifact)
}

// StaleAppDir is the template's placeholder app directory.
func (p Planner) StaleAppDir() string {
	return filepath.Join(p.ResourcesDir(), StaleAppDirName)
}

// StaleAppArchive is the template's placeholder app archive.
func (p Planner) StaleAppArchive() string {
	return filepath.Join(p.ResourcesDir(), StaleAppArchiveName)
}

// DefaultTempRoot returns the XDG cache location used as the staging temp
// root when the configuration does not override it.
func DefaultTempRoot() string {
	return filepath.Join(xdg.CacheHome, TempRootDirName, "staging")
}
