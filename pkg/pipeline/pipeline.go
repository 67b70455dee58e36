// Package pipeline implements the staging pipeline: the ordered,
// non-reentrant sequence of filesystem transformations that assembles a
// runtime template, the user's application tree, pruned dependencies and
// an optional archive into the final bundle directory.
//
// Phases are strictly sequential; a failure at any phase aborts the run
// and surfaces the failing state on the error. No rollback is attempted:
// the staging directory is left in its partial state for inspection.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/appstage/pkg/archive"
	"github.com/arthur-debert/appstage/pkg/errors"
	"github.com/arthur-debert/appstage/pkg/filesystem"
	"github.com/arthur-debert/appstage/pkg/hooks"
	"github.com/arthur-debert/appstage/pkg/logging"
	"github.com/arthur-debert/appstage/pkg/paths"
	"github.com/arthur-debert/appstage/pkg/prune"
	"github.com/arthur-debert/appstage/pkg/types"
)

// State identifies how far a run has progressed. States are strictly
// ordered; a run never skips or revisits one.
type State int

const (
	StateStart State = iota
	StateTemplateMoved
	StateAppCopied
	StatePreHooksDone
	StateStaleRemoved
	StatePruned
	StatePostPruneHooksDone
	StateArchived
	StateRelocated
	StateDone
)

var stateNames = map[State]string{
	StateStart:              "Start",
	StateTemplateMoved:      "TemplateMoved",
	StateAppCopied:          "AppCopied",
	StatePreHooksDone:       "PreHooksDone",
	StateStaleRemoved:       "StaleDefaultAppRemoved",
	StatePruned:             "Pruned",
	StatePostPruneHooksDone: "PostPruneHooksDone",
	StateArchived:           "Archived",
	StateRelocated:          "Relocated",
	StateDone:               "Done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Pruner removes non-production dependencies from the staged app
// directory, in place. The pipeline does not inspect the result, only
// propagates success or failure.
type Pruner interface {
	Prune(ctx context.Context, appDir string) error
}

// Archiver compresses a directory into a single artifact file. On success
// the pipeline deletes the source directory; on failure it is left
// untouched.
type Archiver interface {
	Archive(ctx context.Context, srcDir, destPath string) error
	ArtifactName() string
}

// Options are the pipeline's injectable collaborators. Zero values get
// production defaults.
type Options struct {
	// FS defaults to the OS filesystem.
	FS types.FS

	// Filter decides which source files are copied; nil includes all.
	Filter filesystem.Filter

	// Pruner defaults to the node_modules pruner. Only consulted when
	// pruning is enabled.
	Pruner Pruner

	// Archiver defaults to the implementation selected by the config's
	// archive options. Only consulted when archive options are present.
	Archiver Archiver

	// Platform, when set, has the runtime binary renamed before
	// relocation.
	Platform types.Platform
}

// Pipeline drives one packaging run. It exclusively owns the staging
// directory between Run's first transition and its return; create one
// pipeline per target and do not share.
type Pipeline struct {
	cfg      *types.Config
	plan     paths.Planner
	fs       types.FS
	filter   filesystem.Filter
	pruner   Pruner
	archiver Archiver
	platform types.Platform
	state    State
	logger   zerolog.Logger
}

// New creates a Pipeline for the given configuration.
func New(cfg *types.Config, opts Options) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrInvalidInput, "config is required")
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	pruner := opts.Pruner
	if pruner == nil && cfg.Prune {
		pruner = prune.New(fsys)
	}

	archiver := opts.Archiver
	if archiver == nil && cfg.Archive != nil {
		var err error
		if archiver, err = archive.ForOptions(cfg.Archive); err != nil {
			return nil, err
		}
	}

	return &Pipeline{
		cfg:      cfg,
		plan:     paths.NewPlanner(cfg),
		fs:       fsys,
		filter:   opts.Filter,
		pruner:   pruner,
		archiver: archiver,
		platform: opts.Platform,
		logger:   logging.GetLogger("pipeline"),
	}, nil
}

// State reports the last state the pipeline reached.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes every phase in order and returns the final bundle path.
// A pipeline runs at most once; on failure the error carries the failing
// state and the staging directory keeps its partial contents.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	if p.state != StateStart {
		return "", errors.Newf(errors.ErrInternal,
			"pipeline already ran (state %s)", p.state)
	}

	p.logger.Info().
		Str("staging", p.plan.StagingPath()).
		Str("final", p.plan.FinalPath()).
		Msg("Staging run started")

	steps := []func(context.Context) error{
		p.moveTemplate,
		p.copyApp,
		p.runPostCopyHooks,
		p.removeStaleDefaultApp,
		p.pruneDependencies,
		p.runPostPruneHooks,
		p.archiveApp,
		p.relocate,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			p.logger.Error().Err(err).Stringer("state", p.state).Msg("Staging run failed")
			return "", err
		}
	}

	p.state = StateDone
	p.logger.Info().Str("path", p.plan.FinalPath()).Msg("Staging run completed")
	return p.plan.FinalPath(), nil
}

// moveTemplate relocates the runtime template to the staging path,
// replacing any pre-existing destination. The template source is consumed.
func (p *Pipeline) moveTemplate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return p.fail(err, errors.ErrStagingMove, StateTemplateMoved, "staging cancelled")
	}
	if err := filesystem.MoveDir(p.fs, p.cfg.TemplateDir, p.plan.StagingPath()); err != nil {
		return p.fail(err, errors.ErrStagingMove, StateTemplateMoved,
			"moving template into staging directory")
	}
	p.advance(StateTemplateMoved)
	return nil
}

// copyApp runs the pre-copy hooks against the source tree, then copies it
// into resources/app through the filter. Modes are preserved; symlinks
// follow the dereference flag.
func (p *Pipeline) copyApp(ctx context.Context) error {
	if err := hooks.Run(ctx, p.cfg.PreCopyHooks, p.invocation(p.cfg.SourceDir)); err != nil {
		return p.fail(err, errors.ErrHook, StateAppCopied, "pre-copy hook failed")
	}

	appDir := p.plan.ResourcesAppDir()
	if err := p.fs.MkdirAll(p.plan.ResourcesDir(), 0755); err != nil {
		return p.fail(err, errors.ErrCopy, StateAppCopied, "creating resources directory")
	}
	copyOpts := filesystem.CopyOptions{
		Filter:        p.filter,
		DerefSymlinks: p.cfg.DerefSymlinks,
	}
	if err := filesystem.CopyTree(p.fs, p.cfg.SourceDir, appDir, copyOpts); err != nil {
		return p.fail(err, errors.ErrCopy, StateAppCopied, "copying application tree")
	}

	// Extra resources land beside the app dir, keyed by basename
	if err := p.CopyExtraResources(ctx, p.cfg.ExtraResources...); err != nil {
		return err
	}

	p.advance(StateAppCopied)
	return nil
}

func (p *Pipeline) runPostCopyHooks(ctx context.Context) error {
	if err := hooks.Run(ctx, p.cfg.PostCopyHooks, p.invocation(p.plan.ResourcesAppDir())); err != nil {
		return p.fail(err, errors.ErrHook, StatePreHooksDone, "post-copy hook failed")
	}
	p.advance(StatePreHooksDone)
	return nil
}

// removeStaleDefaultApp deletes the template's placeholder app payloads.
// Absence of either path is expected; any other failure is fatal.
func (p *Pipeline) removeStaleDefaultApp(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return p.fail(err, errors.ErrStaleCleanup, StateStaleRemoved, "staging cancelled")
	}
	if err := p.fs.RemoveAll(p.plan.StaleAppDir()); err != nil {
		return p.fail(err, errors.ErrStaleCleanup, StateStaleRemoved,
			"removing stale default_app directory")
	}
	if err := p.fs.Remove(p.plan.StaleAppArchive()); err != nil && !isNotExist(err) {
		return p.fail(err, errors.ErrStaleCleanup, StateStaleRemoved,
			"removing stale default_app.asar")
	}
	p.advance(StateStaleRemoved)
	return nil
}

// pruneDependencies invokes the pruner when pruning is enabled; disabled
// pruning is a no-op that still advances.
func (p *Pipeline) pruneDependencies(ctx context.Context) error {
	if p.cfg.Prune && p.pruner != nil {
		if err := p.pruner.Prune(ctx, p.plan.ResourcesAppDir()); err != nil {
			return p.fail(err, errors.ErrPrune, StatePruned, "pruning dependencies")
		}
	}
	p.advance(StatePruned)
	return nil
}

func (p *Pipeline) runPostPruneHooks(ctx context.Context) error {
	if err := hooks.Run(ctx, p.cfg.PostPruneHooks, p.invocation(p.plan.ResourcesAppDir())); err != nil {
		return p.fail(err, errors.ErrHook, StatePostPruneHooksDone, "post-prune hook failed")
	}
	p.advance(StatePostPruneHooksDone)
	return nil
}

// archiveApp compresses resources/app into the archive artifact and
// removes the app directory; its contents then live solely inside the
// archive. Without archive options the app directory is left intact.
func (p *Pipeline) archiveApp(ctx context.Context) error {
	if p.cfg.Archive != nil && p.archiver != nil {
		appDir := p.plan.ResourcesAppDir()
		dest := p.plan.ArchivePath(p.archiver.ArtifactName())
		if err := p.archiver.Archive(ctx, appDir, dest); err != nil {
			return p.fail(err, errors.ErrArchive, StateArchived, "archiving application")
		}
		if err := p.fs.RemoveAll(appDir); err != nil {
			return p.fail(err, errors.ErrArchive, StateArchived,
				"removing archived application directory")
		}
	}
	p.advance(StateArchived)
	return nil
}

// relocate moves the staging directory to the final path. With temp-dir
// staging disabled the bundle is already in place.
func (p *Pipeline) relocate(ctx context.Context) error {
	if p.platform != nil {
		if err := p.RenameRuntimeBinary(p.platform); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return p.fail(err, errors.ErrRelocate, StateRelocated, "staging cancelled")
	}
	if p.cfg.UseTempDir {
		if err := filesystem.MoveDir(p.fs, p.plan.StagingPath(), p.plan.FinalPath()); err != nil {
			return p.fail(err, errors.ErrRelocate, StateRelocated,
				"relocating bundle to final path")
		}
	}
	p.advance(StateRelocated)
	return nil
}

func (p *Pipeline) invocation(dir string) types.HookInvocation {
	return types.HookInvocation{
		Dir:            dir,
		RuntimeVersion: p.cfg.RuntimeVersion,
		Platform:       p.cfg.Platform,
		Arch:           p.cfg.Arch,
	}
}

// fail wraps err with the failing phase's error code and state.
func (p *Pipeline) fail(err error, code errors.ErrorCode, state State, msg string) error {
	return errors.Wrap(err, code, msg).WithDetail("state", state.String())
}

func (p *Pipeline) advance(state State) {
	p.logger.Debug().Stringer("state", state).Msg("Phase completed")
	p.state = state
}
