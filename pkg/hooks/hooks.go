// Package hooks runs caller-supplied extension functions at pipeline
// checkpoints. Hooks for one checkpoint run concurrently and are all
// allowed to settle; the first failure is reported after the slowest
// hook has finished.
package hooks

import (
	"context"

	"github.com/arthur-debert/appstage/pkg/logging"
	"github.com/arthur-debert/appstage/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Run invokes every hook concurrently with the same invocation tuple and
// waits for all of them. It returns the first error encountered. Sibling
// hooks are not cancelled when one fails; the zero-value errgroup carries
// no cancellation.
func Run(ctx context.Context, hks []types.Hook, inv types.HookInvocation) error {
	if len(hks) == 0 {
		return nil
	}

	logger := logging.GetLogger("hooks")
	logger.Debug().
		Int("count", len(hks)).
		Str("dir", inv.Dir).
		Msg("Running hooks")

	var g errgroup.Group
	for i, hook := range hks {
		g.Go(func() error {
			if err := hook(ctx, inv); err != nil {
				logger.Error().Err(err).Int("hook", i).Msg("Hook failed")
				return err
			}
			logger.Trace().Int("hook", i).Msg("Hook completed")
			return nil
		})
	}
	return g.Wait()
}
