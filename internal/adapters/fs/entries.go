package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.EntryResolver = (*EntryResolver)(nil)

// EntryResolver expands entry arguments using filepath.Glob and the Walker.
type EntryResolver struct {
	walker *Walker
}

// NewEntryResolver creates a new EntryResolver.
func NewEntryResolver(walker *Walker) *EntryResolver {
	return &EntryResolver{walker: walker}
}

// ResolveEntries expands each pattern in turn. A directory contributes every
// stylesheet below it, a glob its matches in lexical order. Duplicates keep
// their first position.
func (r *EntryResolver) ResolveEntries(patterns []string, root string) ([]string, error) {
	seen := make(map[string]struct{})
	var result []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		result = append(result, path)
	}

	for _, pattern := range patterns {
		path := pattern
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}

		if info, err := os.Stat(path); err == nil {
			if !info.IsDir() {
				add(path)
				continue
			}
			for file := range r.walker.WalkStylesheets(path, nil) {
				add(file)
			}
			continue
		}

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
		}
		if len(matches) == 0 {
			return nil, zerr.With(zerr.New("entry not found"), "path", path)
		}
		for _, match := range matches {
			add(match)
		}
	}

	return result, nil
}
