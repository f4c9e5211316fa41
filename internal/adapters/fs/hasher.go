package fs

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputMetadataProvider = (*Digester)(nil)

// Digester computes content digests of action inputs with XXHash.
// A file digest covers its content and executable bit. A directory digest covers the
// relative path and digest of every file below it, so renames change it too.
type Digester struct {
	walker *Walker
}

// NewDigester creates a Digester.
func NewDigester(walker *Walker) *Digester {
	return &Digester{walker: walker}
}

// Digest returns the 8-byte big-endian digest of the file or directory at path.
func (d *Digester) Digest(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to stat input"), "path", path)
	}

	var sum uint64
	if info.IsDir() {
		sum, err = d.digestDir(path)
	} else {
		sum, err = ComputeFileHash(path, info.Mode())
	}
	if err != nil {
		return nil, err
	}

	return binary.BigEndian.AppendUint64(nil, sum), nil
}

func (d *Digester) digestDir(root string) (uint64, error) {
	hasher := xxhash.New()
	_, _ = hasher.WriteString("dir")
	_, _ = hasher.Write([]byte{0})

	for path, err := range d.walker.WalkFiles(root) {
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "failed to walk input directory"), "path", root)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "failed to stat input"), "path", path)
		}

		hash, err := ComputeFileHash(path, info.Mode())
		if err != nil {
			return 0, err
		}

		_, _ = hasher.WriteString(filepath.ToSlash(rel))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.Write(binary.LittleEndian.AppendUint64(nil, hash))
	}

	return hasher.Sum64(), nil
}

// ComputeFileHash computes the XXHash of a file's content and executable bit.
func ComputeFileHash(path string, mode os.FileMode) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if mode&0o111 != 0 {
		_, _ = hasher.Write([]byte{'x'})
	} else {
		_, _ = hasher.Write([]byte{'-'})
	}
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}
