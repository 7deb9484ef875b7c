package fs

import (
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceReader = (*Reader)(nil)

// Reader loads stylesheets from disk and digests them with XXHash.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read implements ports.SourceReader.
func (r *Reader) Read(id domain.FileID) (*domain.Source, error) {
	data, err := os.ReadFile(id.String())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open file"), "path", id.String())
	}

	return &domain.Source{
		ID:     id,
		Text:   string(data),
		Digest: xxhash.Sum64(data),
	}, nil
}
