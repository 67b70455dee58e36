// Package types defines the shared data model for appstage: the packaging
// configuration, hook signatures, and the platform capability interface that
// the staging pipeline depends on.
package types

import "context"

// Config describes a single packaging run. It is constructed once, by the
// CLI or an embedding caller, and is read-only from then on.
type Config struct {
	// Name is the application name, used to derive the output basename
	// and the renamed runtime binary.
	Name string

	// Platform and Arch identify the packaging target (e.g. "linux"/"amd64").
	Platform string
	Arch     string

	// SourceDir is the user's application source tree.
	SourceDir string

	// TemplateDir is the runtime template skeleton. It is consumed by the
	// pipeline: after staging begins it no longer exists at this location.
	TemplateDir string

	// OutputRoot is the directory under which the final bundle directory
	// is created.
	OutputRoot string

	// RuntimeVersion is the runtime version string passed to hooks.
	RuntimeVersion string

	// UseTempDir selects whether the bundle is assembled under TempRoot
	// and relocated at the end, or assembled directly at the final path.
	UseTempDir bool

	// TempRoot is the root for temporary staging directories. Must be set
	// when UseTempDir is true; config.Load defaults it to the XDG cache dir.
	TempRoot string

	// Prune removes non-production dependencies from the staged app tree.
	Prune bool

	// DerefSymlinks copies symlink targets instead of the links themselves.
	DerefSymlinks bool

	// Archive, when non-nil, compresses the staged app directory into a
	// single archive file.
	Archive *ArchiveOptions

	// ExtraResources are additional files or directories copied into the
	// resources directory, each keyed by its basename.
	ExtraResources []string

	// Hook lists, in declaration order. PreCopyHooks run before the app
	// tree is copied; PostCopyHooks after; PostPruneHooks after pruning.
	PreCopyHooks   []Hook
	PostCopyHooks  []Hook
	PostPruneHooks []Hook
}

// ArchiveOptions configures archive creation. Its interpretation belongs to
// the archiver implementation; the pipeline only checks for presence.
type ArchiveOptions struct {
	// Format selects the archiver implementation ("asar" or "tar.gz").
	Format string

	// Unpack is a glob of files the archiver should leave out of the
	// archive body (asar only); opaque to the pipeline.
	Unpack string
}

// HookInvocation is the fixed argument tuple passed to every hook,
// regardless of phase.
type HookInvocation struct {
	// Dir is the directory the hook may act upon.
	Dir string

	// RuntimeVersion, Platform and Arch mirror the run's configuration.
	RuntimeVersion string
	Platform       string
	Arch           string
}

// Hook is a caller-supplied extension function invoked at a pipeline
// checkpoint. Hooks for one checkpoint run concurrently; a hook that never
// returns blocks the pipeline.
type Hook func(ctx context.Context, inv HookInvocation) error

// Platform supplies the platform-specific runtime binary names. One variant
// exists per packaging target; the pipeline depends only on this interface.
type Platform interface {
	// OriginalBinaryName is the binary (or bundle) name shipped inside
	// the runtime template.
	OriginalBinaryName() string

	// NewBinaryName is the name the binary is renamed to for this app.
	NewBinaryName() string
}
