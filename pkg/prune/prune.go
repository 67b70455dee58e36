// Package prune removes non-production dependencies from a staged
// application tree. The production set is the transitive closure of
// "dependencies" and "optionalDependencies" reachable from the app's
// package.json; every top-level node_modules entry outside that set is
// deleted in place.
package prune

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/appstage/pkg/logging"
	"github.com/arthur-debert/appstage/pkg/types"
)

const nodeModulesDir = "node_modules"

// ModulePruner prunes node_modules based on package.json manifests.
type ModulePruner struct {
	fs types.FS
}

// New creates a ModulePruner operating through the given filesystem.
func New(fsys types.FS) *ModulePruner {
	return &ModulePruner{fs: fsys}
}

// manifest is the subset of package.json the pruner reads.
type manifest struct {
	Dependencies         map[string]string `json:"dependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// Prune removes every top-level node_modules entry that is not part of
// the production dependency set. An app without a package.json or without
// node_modules is left untouched.
func (p *ModulePruner) Prune(ctx context.Context, appDir string) error {
	logger := logging.GetLogger("prune")

	root, err := p.readManifest(filepath.Join(appDir, "package.json"))
	if err != nil {
		if isNotExist(err) {
			logger.Debug().Str("dir", appDir).Msg("No package.json, nothing to prune")
			return nil
		}
		return err
	}

	modules := filepath.Join(appDir, nodeModulesDir)
	if _, err := p.fs.Stat(modules); err != nil {
		if isNotExist(err) {
			return nil
		}
		return err
	}

	keep, err := p.productionSet(ctx, modules, root)
	if err != nil {
		return err
	}

	removed, err := p.sweep(ctx, modules, keep)
	if err != nil {
		return err
	}
	logger.Info().Int("removed", removed).Int("kept", len(keep)).Msg("Pruned dependencies")
	return nil
}

// productionSet walks the dependency graph breadth-first, reading each
// installed module's own manifest for transitive dependencies.
func (p *ModulePruner) productionSet(ctx context.Context, modules string, root *manifest) (map[string]bool, error) {
	keep := make(map[string]bool)
	queue := depNames(root)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := queue[0]
		queue = queue[1:]
		if keep[name] {
			continue
		}
		keep[name] = true

		m, err := p.readManifest(filepath.Join(modules, filepath.FromSlash(name), "package.json"))
		if err != nil {
			if isNotExist(err) {
				// Declared but not installed; nothing below it to keep
				continue
			}
			return nil, err
		}
		queue = append(queue, depNames(m)...)
	}
	return keep, nil
}

// sweep deletes top-level modules outside the keep set. Scoped packages
// ("@scope/name") are handled per scope directory; dot entries such as
// ".bin" are preserved.
func (p *ModulePruner) sweep(ctx context.Context, modules string, keep map[string]bool) (int, error) {
	entries, err := p.fs.ReadDir(modules)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		name := entry.Name()
		switch {
		case strings.HasPrefix(name, "."):
			continue
		case strings.HasPrefix(name, "@"):
			n, err := p.sweepScope(modules, name, keep)
			if err != nil {
				return removed, err
			}
			removed += n
		case !keep[name]:
			if err := p.fs.RemoveAll(filepath.Join(modules, name)); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

func (p *ModulePruner) sweepScope(modules, scope string, keep map[string]bool) (int, error) {
	scopeDir := filepath.Join(modules, scope)
	entries, err := p.fs.ReadDir(scopeDir)
	if err != nil {
		return 0, err
	}

	removed := 0
	remaining := 0
	for _, entry := range entries {
		if keep[scope+"/"+entry.Name()] {
			remaining++
			continue
		}
		if err := p.fs.RemoveAll(filepath.Join(scopeDir, entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	if remaining == 0 {
		if err := p.fs.RemoveAll(scopeDir); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func (p *ModulePruner) readManifest(path string) (*manifest, error) {
	data, err := p.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func depNames(m *manifest) []string {
	names := make([]string, 0, len(m.Dependencies)+len(m.OptionalDependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	for name := range m.OptionalDependencies {
		names = append(names, name)
	}
	return names
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
