package archive

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/appstage/pkg/logging"
)

// AsarArchiver writes the electron asar container: a length-prefixed JSON
// index followed by the concatenated file bodies. Symlinked files are
// stored dereferenced.
type AsarArchiver struct {
	// Unpack is a glob matched against file basenames; matching files are
	// left outside the archive body, in "<dest>.unpacked/<relpath>".
	Unpack string
}

// ArtifactName implements Archiver.
func (a *AsarArchiver) ArtifactName() string {
	return "app.asar"
}

// asarEntry is one node of the JSON index. Exactly one of Files or Size
// is meaningful: directories carry Files, regular files carry Size and
// either Offset or Unpacked.
type asarEntry struct {
	Files      map[string]*asarEntry `json:"files,omitempty"`
	Size       int64                 `json:"size,omitempty"`
	Offset     string                `json:"offset,omitempty"`
	Executable bool                  `json:"executable,omitempty"`
	Unpacked   bool                  `json:"unpacked,omitempty"`
}

// Archive implements Archiver.
func (a *AsarArchiver) Archive(ctx context.Context, srcDir, destPath string) error {
	logger := logging.GetLogger("archive.asar")

	index, order, err := a.buildIndex(ctx, srcDir)
	if err != nil {
		return err
	}

	if err := a.write(ctx, srcDir, destPath, index, order); err != nil {
		// Contract: no destination file on failure. A pre-existing
		// destination was not written by us and stays put.
		if !errors.Is(err, fs.ErrExist) {
			_ = os.Remove(destPath)
			_ = os.RemoveAll(destPath + ".unpacked")
		}
		return err
	}

	logger.Debug().Str("dest", destPath).Int("files", len(order)).Msg("Wrote asar archive")
	return nil
}

// buildIndex walks srcDir and assigns body offsets. order lists the
// relative paths of packed files in the order their bodies are written.
func (a *AsarArchiver) buildIndex(ctx context.Context, srcDir string) (*asarEntry, []string, error) {
	root := &asarEntry{Files: map[string]*asarEntry{}}
	var order []string
	var offset int64

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
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

		if d.IsDir() {
			a.insert(root, rel, &asarEntry{Files: map[string]*asarEntry{}})
			return nil
		}

		// Stat, not the DirEntry info: symlinks are stored dereferenced
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Symlink to a directory: treat like a directory walk root
			a.insert(root, rel, &asarEntry{Files: map[string]*asarEntry{}})
			return nil
		}

		entry := &asarEntry{
			Size:       info.Size(),
			Executable: info.Mode().Perm()&0111 != 0,
		}
		if a.unpacked(rel) {
			entry.Unpacked = true
		} else {
			entry.Offset = strconv.FormatInt(offset, 10)
			offset += info.Size()
			order = append(order, rel)
		}
		a.insert(root, rel, entry)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return root, order, nil
}

func (a *AsarArchiver) unpacked(rel string) bool {
	if a.Unpack == "" {
		return false
	}
	matched, err := filepath.Match(a.Unpack, filepath.Base(rel))
	return err == nil && matched
}

// insert places an entry at its position in the tree. WalkDir visits
// parents before children, so intermediate directories always exist.
func (a *AsarArchiver) insert(root *asarEntry, rel string, entry *asarEntry) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	node := root
	for _, part := range parts[:len(parts)-1] {
		node = node.Files[part]
	}
	node.Files[parts[len(parts)-1]] = entry
}

// write emits the pickle-framed header and the file bodies.
func (a *AsarArchiver) write(ctx context.Context, srcDir, destPath string, index *asarEntry, order []string) error {
	headerJSON, err := json.Marshal(index)
	if err != nil {
		return err
	}

	// Chromium pickle framing: the JSON payload is padded to 4-byte
	// alignment and wrapped in three length words, preceded by the size
	// of the size field itself.
	jsonLen := uint32(len(headerJSON))
	aligned := (jsonLen + 3) &^ 3
	padding := aligned - jsonLen

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	words := []uint32{4, aligned + 8, aligned + 4, jsonLen}
	for _, w := range words {
		if err := binary.Write(out, binary.LittleEndian, w); err != nil {
			return err
		}
	}
	if _, err := out.Write(headerJSON); err != nil {
		return err
	}
	if padding > 0 {
		if _, err := out.Write(make([]byte, padding)); err != nil {
			return err
		}
	}

	for _, rel := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := appendFile(out, filepath.Join(srcDir, rel)); err != nil {
			return err
		}
	}

	return a.copyUnpacked(srcDir, destPath, index)
}

// copyUnpacked mirrors unpacked files into "<dest>.unpacked".
func (a *AsarArchiver) copyUnpacked(srcDir, destPath string, index *asarEntry) error {
	var rels []string
	collectUnpacked(index, "", &rels)
	if len(rels) == 0 {
		return nil
	}
	sort.Strings(rels)

	unpackedRoot := destPath + ".unpacked"
	for _, rel := range rels {
		src := filepath.Join(srcDir, filepath.FromSlash(rel))
		dst := filepath.Join(unpackedRoot, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		info, err := os.Stat(src)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
			return err
		}
	}
	return nil
}

func collectUnpacked(entry *asarEntry, prefix string, out *[]string) {
	for name, child := range entry.Files {
		rel := name
		if prefix != "" {
			rel = prefix + "/" + name
		}
		if child.Files != nil {
			collectUnpacked(child, rel, out)
		} else if child.Unpacked {
			*out = append(*out, rel)
		}
	}
}

func appendFile(out io.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	_, err = io.Copy(out, in)
	return err
}
