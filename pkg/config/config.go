// Package config loads appstage configuration from layered sources:
// embedded defaults, a project config file in the source directory, and
// APPSTAGE_* environment variables, in increasing precedence.
package config

import (
	"runtime"
	"strings"

	"github.com/arthur-debert/appstage/pkg/errors"
	"github.com/arthur-debert/appstage/pkg/hooks"
	"github.com/arthur-debert/appstage/pkg/paths"
	"github.com/arthur-debert/appstage/pkg/types"
)

// Config is the on-disk configuration schema.
type Config struct {
	Name           string        `koanf:"name" toml:"name"`
	Platform       string        `koanf:"platform" toml:"platform"`
	Arch           string        `koanf:"arch" toml:"arch"`
	Source         string        `koanf:"source" toml:"source"`
	Template       string        `koanf:"template" toml:"template"`
	Out            string        `koanf:"out" toml:"out"`
	RuntimeVersion string        `koanf:"runtime-version" toml:"runtime-version"`
	TmpDir         bool          `koanf:"tmpdir" toml:"tmpdir"`
	TempRoot       string        `koanf:"temp-root" toml:"temp-root"`
	Prune          bool          `koanf:"prune" toml:"prune"`
	DerefSymlinks  bool          `koanf:"deref-symlinks" toml:"deref-symlinks"`
	Ignore         []string      `koanf:"ignore" toml:"ignore"`
	ExtraResources []string      `koanf:"extra-resources" toml:"extra-resources"`
	Archive        ArchiveConfig `koanf:"archive" toml:"archive"`
	Hooks          HooksConfig   `koanf:"hooks" toml:"hooks"`
}

// ArchiveConfig controls post-prune packing of the app directory.
type ArchiveConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Format  string `koanf:"format" toml:"format"`
	Unpack  string `koanf:"unpack" toml:"unpack"`
}

// HooksConfig names external commands run at fixed staging points.
type HooksConfig struct {
	PreCopy   []string `koanf:"pre-copy" toml:"pre-copy"`
	PostCopy  []string `koanf:"post-copy" toml:"post-copy"`
	PostPrune []string `koanf:"post-prune" toml:"post-prune"`
}

// Validate reports the first missing required field.
func (c *Config) Validate() error {
	switch {
	case c.Name == "":
		return errors.New(errors.ErrConfigValid, "application name is required")
	case c.Source == "":
		return errors.New(errors.ErrConfigValid, "source directory is required")
	case c.Template == "":
		return errors.New(errors.ErrConfigValid, "template directory is required")
	}
	return nil
}

// Staging resolves the on-disk schema into a runnable staging config.
// Host values fill in a missing platform or arch, the default temp root
// lands under the user cache, and hook commands become executable hooks.
func (c *Config) Staging() (*types.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	platform := c.Platform
	if platform == "" {
		platform = hostPlatform()
	}
	arch := c.Arch
	if arch == "" {
		arch = runtime.GOARCH
	}
	tempRoot := c.TempRoot
	if tempRoot == "" {
		tempRoot = paths.DefaultTempRoot()
	}

	cfg := &types.Config{
		Name:           c.Name,
		Platform:       platform,
		Arch:           arch,
		SourceDir:      c.Source,
		TemplateDir:    c.Template,
		OutputRoot:     c.Out,
		RuntimeVersion: c.RuntimeVersion,
		UseTempDir:     c.TmpDir,
		TempRoot:       tempRoot,
		Prune:          c.Prune,
		DerefSymlinks:  c.DerefSymlinks,
		ExtraResources: c.ExtraResources,
		PreCopyHooks:   commandHooks(c.Hooks.PreCopy),
		PostCopyHooks:  commandHooks(c.Hooks.PostCopy),
		PostPruneHooks: commandHooks(c.Hooks.PostPrune),
	}
	if c.Archive.Enabled {
		cfg.Archive = &types.ArchiveOptions{
			Format: c.Archive.Format,
			Unpack: c.Archive.Unpack,
		}
	}
	return cfg, nil
}

func commandHooks(commands []string) []types.Hook {
	if len(commands) == 0 {
		return nil
	}
	out := make([]types.Hook, 0, len(commands))
	for _, command := range commands {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			continue
		}
		out = append(out, hooks.Command(fields[0], fields[1:]...))
	}
	return out
}

// hostPlatform maps the Go runtime OS onto the target naming used by
// bundle directories.
func hostPlatform() string {
	if runtime.GOOS == "windows" {
		return "win32"
	}
	return runtime.GOOS
}
