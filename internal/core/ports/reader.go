package ports

import "go.trai.ch/modcss/internal/core/domain"

// SourceReader loads stylesheet sources.
//
//go:generate mockgen -destination=mocks/reader_mock.go -package=mocks -source=reader.go
type SourceReader interface {
	// Read returns the contents of id together with its digest.
	Read(id domain.FileID) (*domain.Source, error)
}
