package pipeline

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/appstage/pkg/errors"
	"github.com/arthur-debert/appstage/pkg/filesystem"
	"github.com/arthur-debert/appstage/pkg/types"
)

// CopyExtraResources copies the given files or directories into the
// staged resources directory, each keyed by its own basename. Copies run
// concurrently; the first failure fails the operation after all copies
// settle. An empty list is a no-op. Must be called before relocation.
func (p *Pipeline) CopyExtraResources(ctx context.Context, resources ...string) error {
	if len(resources) == 0 {
		return nil
	}
	if p.state >= StateRelocated {
		return errors.New(errors.ErrInternal,
			"extra resources must be copied before relocation")
	}

	resourcesDir := p.plan.ResourcesDir()
	var g errgroup.Group
	for _, res := range resources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return filesystem.CopyResource(p.fs, res, resourcesDir)
		})
	}
	if err := g.Wait(); err != nil {
		return p.fail(err, errors.ErrExtraCopy, p.state, "copying extra resources")
	}
	return nil
}

// RenameRuntimeBinary renames the platform's runtime binary (or bundle)
// inside the staging directory, from the template's name to the
// app-specific one. Must be called before relocation.
func (p *Pipeline) RenameRuntimeBinary(plat types.Platform) error {
	if p.state >= StateRelocated {
		return errors.New(errors.ErrInternal,
			"runtime binary must be renamed before relocation")
	}

	staging := p.plan.StagingPath()
	oldPath := filepath.Join(staging, plat.OriginalBinaryName())
	newPath := filepath.Join(staging, plat.NewBinaryName())
	if err := p.fs.Rename(oldPath, newPath); err != nil {
		return p.fail(err, errors.ErrBinaryRename, p.state,
			"renaming runtime binary")
	}
	p.logger.Debug().Str("from", oldPath).Str("to", newPath).Msg("Renamed runtime binary")
	return nil
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}
