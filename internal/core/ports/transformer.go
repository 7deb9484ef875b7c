package ports

import (
	"context"

	"go.trai.ch/modcss/internal/core/domain"
)

//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks

// FetchFunc compiles the stylesheet named by spec, relative to the file being
// transformed, and returns its identity and exported tokens.
type FetchFunc func(ctx context.Context, spec string) (domain.FileID, domain.TokenMap, error)

// TransformResult is what a pipeline produces for one stylesheet.
type TransformResult struct {
	// CSS is the compiled fragment.
	CSS string
	// Tokens maps local names to exported values.
	Tokens domain.TokenMap
	// References lists every file the stylesheet imported, in source order.
	References []domain.FileID
}

// Transformer compiles one stylesheet.
// Nested imports are compiled through fetch, one at a time in source order.
type Transformer interface {
	Transform(ctx context.Context, src *domain.Source, fetch FetchFunc) (*TransformResult, error)
}

// PipelineFactory builds the transformer a project is configured for.
type PipelineFactory interface {
	// New returns the pipeline named by cfg.Pipeline, wired to the name
	// generator cfg selects.
	New(cfg *domain.Config) (Transformer, error)
}
