package archive

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/arthur-debert/appstage/pkg/logging"
)

// TarGzArchiver writes a gzip-compressed tarball of the source directory.
// Modes are preserved and symlinks are stored as symlinks.
type TarGzArchiver struct{}

// ArtifactName implements Archiver.
func (t *TarGzArchiver) ArtifactName() string {
	return "app.tar.gz"
}

// Archive implements Archiver.
func (t *TarGzArchiver) Archive(ctx context.Context, srcDir, destPath string) error {
	logger := logging.GetLogger("archive.targz")

	if err := t.write(ctx, srcDir, destPath); err != nil {
		// Contract: no destination file on failure. A pre-existing
		// destination was not written by us and stays put.
		if !errors.Is(err, fs.ErrExist) {
			_ = os.Remove(destPath)
		}
		return err
	}

	logger.Debug().Str("dest", destPath).Msg("Wrote tar.gz archive")
	return nil
}

func (t *TarGzArchiver) write(ctx context.Context, srcDir, destPath string) error {
	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		link := ""
		if info.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = in.Close() }()
		_, err = io.Copy(tw, in)
		return err
	})
	if err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return out.Close()
}
