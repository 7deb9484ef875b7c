// Package fs provides file system adapters for locating, resolving and reading stylesheets.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// StylesheetExt is the extension of files the walker yields.
const StylesheetExt = ".css"

// skippedDirs are never descended into.
var skippedDirs = map[string]struct{}{
	".git":         {},
	".jj":          {},
	"node_modules": {},
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkStylesheets yields every .css file below root in lexical order,
// skipping version control metadata, node_modules and ignored names.
func (w *Walker) WalkStylesheets(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if skipAction := w.shouldSkip(path != root, d, ignores); skipAction != nil {
				return skipAction
			}

			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), StylesheetExt) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

// shouldSkip returns filepath.SkipDir for directories that must not be walked.
// The walk root itself is never skipped.
func (w *Walker) shouldSkip(belowRoot bool, d fs.DirEntry, ignores []string) error {
	if !d.IsDir() || !belowRoot {
		return nil
	}

	name := d.Name()
	if _, ok := skippedDirs[name]; ok {
		return filepath.SkipDir
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return filepath.SkipDir
		}
	}

	return nil
}
