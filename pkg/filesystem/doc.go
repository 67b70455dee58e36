// Package filesystem provides filesystem implementations for appstage.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed filesystem
// for tests, plus the filtered recursive copy used by the staging
// pipeline.
package filesystem
