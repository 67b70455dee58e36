// Package archive compresses a staged application directory into a single
// artifact file. Two implementations exist: the electron-style asar
// container (the default bundle layout) and a plain tar.gz. Decoding
// archives is out of scope; both types only encode.
//
// Contract: on success exactly one artifact exists at the destination; on
// failure any partially written destination is removed. Removing the
// source directory afterward is the pipeline's responsibility, never the
// archiver's.
package archive

import (
	"context"

	"github.com/arthur-debert/appstage/pkg/errors"
	"github.com/arthur-debert/appstage/pkg/types"
)

// Archiver produces a single archive file from a directory tree.
type Archiver interface {
	// Archive compresses srcDir into the file at destPath. destPath must
	// not exist; avoiding collisions is the caller's responsibility.
	Archive(ctx context.Context, srcDir, destPath string) error

	// ArtifactName is the file name of the artifact this archiver
	// produces inside the resources directory.
	ArtifactName() string
}

// Format names accepted in ArchiveOptions.
const (
	FormatAsar  = "asar"
	FormatTarGz = "tar.gz"
)

// ForOptions selects an archiver implementation for the given options.
// An empty format means asar.
func ForOptions(opts *types.ArchiveOptions) (Archiver, error) {
	if opts == nil {
		return nil, errors.New(errors.ErrInvalidInput, "archive options missing")
	}
	switch opts.Format {
	case "", FormatAsar:
		return &AsarArchiver{Unpack: opts.Unpack}, nil
	case FormatTarGz, "tgz":
		return &TarGzArchiver{}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown archive format %q", opts.Format)
	}
}
