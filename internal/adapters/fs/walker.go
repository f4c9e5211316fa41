// Package fs provides file system adapters for walking, digesting and resolving paths.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker yields the files below a directory in lexical order.
type Walker struct {
	ignores []string
}

// NewWalker creates a Walker that skips entries whose base name matches one of ignores.
// VCS metadata directories are always skipped.
func NewWalker(ignores ...string) *Walker {
	return &Walker{ignores: ignores}
}

// WalkFiles yields the path of every regular file or symlink below root. Paths include root.
// A walk error stops the iteration and is yielded with an empty path.
func (w *Walker) WalkFiles(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				yield("", err)
				return filepath.SkipAll
			}

			if path != root && w.skip(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) skip(name string) bool {
	if name == ".git" || name == ".jj" {
		return true
	}
	for _, ignore := range w.ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
