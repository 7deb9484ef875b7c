package transform

import (
	"context"

	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
)

var _ ports.Transformer = (*Passthrough)(nil)

// Passthrough emits stylesheets unchanged and exports nothing.
type Passthrough struct{}

// Transform implements ports.Transformer.
func (Passthrough) Transform(_ context.Context, src *domain.Source, _ ports.FetchFunc) (*ports.TransformResult, error) {
	return &ports.TransformResult{CSS: src.Text, Tokens: domain.TokenMap{}}, nil
}
