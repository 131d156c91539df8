// Package inventory collects candidate image paths for a run. It is the
// thin collaborator that feeds the duplicate engine; the engine itself
// never walks the file system.
package inventory

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// Walk returns resolved absolute paths of files under root whose
// extension matches exts (case-insensitive, with leading dot). Paths in
// known are skipped so an incremental scan only sees new files. The walk
// stops early when the context is cancelled, returning what was
// collected so far along with the context error.
func Walk(ctx context.Context, root string, exts []string, known map[string]bool) ([]string, error) {
	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = true
	}

	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			return nil
		}
		if !extSet[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		abs, aerr := filepath.Abs(p)
		if aerr != nil {
			return nil
		}
		if known[abs] {
			return nil
		}
		paths = append(paths, abs)
		return nil
	})
	if err != nil {
		return paths, err
	}
	return paths, nil
}
