package domain

import (
	"path/filepath"
	"strings"
	"unique"
)

// FileID is the canonical identity of a stylesheet: an absolute, cleaned path.
// It wraps a unique.Handle[string] so equality checks and map keys stay cheap
// for paths that are repeated across the cache, the graph and every reference list.
type FileID struct {
	h unique.Handle[string]
}

// NewFileID canonicalizes path and interns it.
// Surrounding quotes are stripped, relative paths are made absolute against the
// working directory and the result is cleaned, so "./a/../a.css" and "a.css" are
// the same file.
func NewFileID(path string) FileID {
	path = Unquote(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return FileID{h: unique.Make(filepath.Clean(path))}
}

// NewFileIDs interns a slice of paths.
func NewFileIDs(paths []string) []FileID {
	res := make([]FileID, len(paths))
	for i, p := range paths {
		res[i] = NewFileID(p)
	}
	return res
}

// String returns the canonical path.
func (f FileID) String() string {
	if f.IsZero() {
		return ""
	}
	return f.h.Value()
}

// IsZero reports whether f was never assigned.
func (f FileID) IsZero() bool {
	return f == FileID{}
}

// Dir returns the directory containing the file.
func (f FileID) Dir() string {
	return filepath.Dir(f.String())
}

// Compare orders FileIDs by path.
func (f FileID) Compare(other FileID) int {
	return strings.Compare(f.String(), other.String())
}

// Rel returns the path of f relative to root using forward slashes.
// Trailing separators on root are ignored. If f is not below root the
// absolute path is returned.
func (f FileID) Rel(root string) string {
	rel, err := filepath.Rel(filepath.Clean(root), f.String())
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(f.String())
	}
	return filepath.ToSlash(rel)
}

// MarshalText implements encoding.TextMarshaler.
func (f FileID) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FileID) UnmarshalText(text []byte) error {
	*f = NewFileID(string(text))
	return nil
}

// Unquote strips one level of matching single or double quotes.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
