package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"unicode"

	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PathResolver = (*Resolver)(nil)

const (
	nodeModulesDir  = "node_modules"
	packageManifest = "package.json"
	packageIndex    = "index.css"
)

// Resolver resolves import specifiers the way Node resolves stylesheet packages.
// Specifiers that start with a word character or @ are looked up in node_modules
// directories above the importing file; everything else is relative to it.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve implements ports.PathResolver.
// A bare specifier that no package provides falls back to a sibling of the importer.
func (r *Resolver) Resolve(spec string, from domain.FileID) (domain.FileID, error) {
	spec = domain.Unquote(spec)
	if spec == "" {
		return domain.FileID{}, zerr.With(zerr.New("empty specifier"), "from", from.String())
	}

	dir := "."
	if !from.IsZero() {
		dir = from.Dir()
	}

	switch {
	case filepath.IsAbs(spec):
		return domain.NewFileID(spec), nil
	case isBare(spec):
		if path, ok := r.lookupPackage(spec, dir); ok {
			return domain.NewFileID(path), nil
		}
		if sibling := filepath.Join(dir, spec); isFile(sibling) {
			return domain.NewFileID(sibling), nil
		}
		return domain.FileID{}, zerr.With(zerr.With(zerr.New("module not found"), "spec", spec), "from", from.String())
	default:
		return domain.NewFileID(filepath.Join(dir, spec)), nil
	}
}

// lookupPackage walks up from dir trying node_modules/<spec> in each ancestor.
func (r *Resolver) lookupPackage(spec, dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, nodeModulesDir, spec)
		if path, ok := resolveCandidate(candidate); ok {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// resolveCandidate accepts an exact file, the file with .css appended or a
// package directory whose package.json names a style or main file.
func resolveCandidate(candidate string) (string, bool) {
	if isFile(candidate) {
		return candidate, true
	}
	if isFile(candidate + StylesheetExt) {
		return candidate + StylesheetExt, true
	}

	info, err := os.Stat(candidate)
	if err != nil || !info.IsDir() {
		return "", false
	}

	if main := packageEntry(candidate); main != "" {
		if path := filepath.Join(candidate, main); isFile(path) {
			return path, true
		}
	}
	if index := filepath.Join(candidate, packageIndex); isFile(index) {
		return index, true
	}
	return "", false
}

type packageJSON struct {
	Style string `json:"style"`
	Main  string `json:"main"`
}

func packageEntry(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, packageManifest)) //nolint:gosec // Path is built from the import graph
	if err != nil {
		return ""
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	if pkg.Style != "" {
		return pkg.Style
	}
	return pkg.Main
}

func isBare(spec string) bool {
	r := []rune(spec)[0]
	return r == '_' || r == '@' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
