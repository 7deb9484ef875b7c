package ports

import "go.trai.ch/modcss/internal/core/domain"

// NameGenerator produces the scoped name for a local class.
//
//go:generate mockgen -source=name_generator.go -destination=mocks/mock_name_generator.go -package=mocks
type NameGenerator interface {
	// Generate returns the scoped name of local in file whose source is css.
	Generate(local string, file domain.FileID, css string) string
}
