package ports

import "go.trai.ch/modcss/internal/core/domain"

// PathResolver maps an import specifier to a stylesheet.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks -source=resolver.go
type PathResolver interface {
	// Resolve resolves spec as written in the file from.
	// Quoted specifiers are unquoted first.
	Resolve(spec string, from domain.FileID) (domain.FileID, error)
}

// EntryResolver expands entry arguments into stylesheet paths.
type EntryResolver interface {
	// ResolveEntries expands files, directories and glob patterns relative to root.
	// The order of patterns is kept since it decides the cascade order of the bundle.
	ResolveEntries(patterns []string, root string) ([]string, error)
}
