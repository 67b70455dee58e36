package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/appstage/pkg/types"
)

// Filter decides whether the entry at rel (relative to the copy root) is
// copied. Returning false for a directory skips its entire subtree. A nil
// Filter includes everything.
type Filter func(rel string) (bool, error)

// CopyOptions control the behavior of CopyTree.
type CopyOptions struct {
	// Filter is consulted for every entry below the copy root.
	Filter Filter

	// DerefSymlinks copies the link target's content instead of
	// recreating the link.
	DerefSymlinks bool
}

// CopyTree recursively copies the directory src to dst, preserving file
// modes. dst and missing parents are created.
func CopyTree(fsys types.FS, src, dst string, opts CopyOptions) error {
	return copyEntry(fsys, src, dst, ".", opts)
}

// CopyResource copies the file or directory src into dstDir, keyed by its
// own basename.
func CopyResource(fsys types.FS, src, dstDir string) error {
	dst := filepath.Join(dstDir, filepath.Base(src))
	return copyEntry(fsys, src, dst, ".", CopyOptions{})
}

func copyEntry(fsys types.FS, src, dst, rel string, opts CopyOptions) error {
	info, err := entryInfo(fsys, src, opts.DerefSymlinks)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		// Only reachable when DerefSymlinks is off
		target, err := fsys.Readlink(src)
		if err != nil {
			return err
		}
		return fsys.Symlink(target, dst)

	case info.IsDir():
		if err := fsys.MkdirAll(dst, 0755); err != nil {
			return err
		}
		if err := fsys.Chmod(dst, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := fsys.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			childRel := filepath.Join(rel, entry.Name())
			if opts.Filter != nil {
				include, err := opts.Filter(childRel)
				if err != nil {
					return err
				}
				if !include {
					continue
				}
			}
			childSrc := filepath.Join(src, entry.Name())
			childDst := filepath.Join(dst, entry.Name())
			if err := copyEntry(fsys, childSrc, childDst, childRel, opts); err != nil {
				return err
			}
		}
		return nil

	default:
		data, err := fsys.ReadFile(src)
		if err != nil {
			return err
		}
		if err := fsys.WriteFile(dst, data, info.Mode().Perm()); err != nil {
			return err
		}
		// WriteFile's perm is subject to the umask on creation
		return fsys.Chmod(dst, info.Mode().Perm())
	}
}

// entryInfo returns Stat when symlinks are dereferenced, Lstat otherwise.
func entryInfo(fsys types.FS, path string, deref bool) (fs.FileInfo, error) {
	if deref {
		return fsys.Stat(path)
	}
	return fsys.Lstat(path)
}

// MoveDir relocates src to dst, replacing any pre-existing destination.
// A plain rename is attempted first; if the rename fails (typically a
// cross-device staging root), the tree is copied and the source removed,
// which preserves the contract that src no longer exists afterward.
func MoveDir(fsys types.FS, src, dst string) error {
	if err := fsys.RemoveAll(dst); err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := fsys.Rename(src, dst); err == nil {
		return nil
	} else if _, statErr := fsys.Lstat(src); statErr != nil {
		// Source missing: surface the rename error as-is
		return err
	}
	if err := CopyTree(fsys, src, dst, CopyOptions{}); err != nil {
		return err
	}
	return fsys.RemoveAll(src)
}
