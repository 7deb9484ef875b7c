// Package artifacts writes build outputs to disk.
package artifacts

import (
	"os"
	"path/filepath"

	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactWriter = (*Store)(nil)

// Store implements ports.ArtifactWriter by writing to a temporary file in
// the target directory and renaming it into place.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// WriteFile implements ports.ArtifactWriter.
func (s *Store) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return s.fail(err, path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return s.fail(err, path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return s.fail(err, path)
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return s.fail(err, path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return s.fail(err, path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return s.fail(err, path)
	}
	return nil
}

func (s *Store) fail(err error, path string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrArtifactWrite.Error()), "path", path)
}
