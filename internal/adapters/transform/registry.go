// Package transform provides the stylesheet transform pipelines and the
// registry they are selected from.
package transform

import (
	"maps"
	"slices"

	"go.trai.ch/modcss/internal/adapters/namegen"
	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// ModulesPipeline is the name of the CSS Modules pipeline.
	ModulesPipeline = domain.DefaultPipeline
	// PassthroughPipeline is the name of the pipeline that changes nothing.
	PassthroughPipeline = "passthrough"
)

// Constructor builds a pipeline around a name generator and default scope.
type Constructor func(names ports.NameGenerator, scope domain.ScopeMode) ports.Transformer

var _ ports.PipelineFactory = (*Registry)(nil)

// Registry maps pipeline names to constructors.
// It is filled at startup and read afterwards.
type Registry struct {
	pipelines map[string]Constructor
}

// NewRegistry returns a registry holding the built-in pipelines.
func NewRegistry() *Registry {
	r := &Registry{pipelines: make(map[string]Constructor)}
	r.Register(ModulesPipeline, func(names ports.NameGenerator, scope domain.ScopeMode) ports.Transformer {
		return NewModules(names, scope)
	})
	r.Register(PassthroughPipeline, func(ports.NameGenerator, domain.ScopeMode) ports.Transformer {
		return Passthrough{}
	})
	return r
}

// Register adds or replaces a pipeline.
func (r *Registry) Register(name string, c Constructor) {
	r.pipelines[name] = c
}

// Names returns the registered pipeline names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.pipelines))
}

// New implements ports.PipelineFactory.
func (r *Registry) New(cfg *domain.Config) (ports.Transformer, error) {
	name := cfg.Pipeline
	if name == "" {
		name = domain.DefaultPipeline
	}

	construct, ok := r.pipelines[name]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownPipeline, "pipeline", name)
	}

	names, err := namegen.New(cfg)
	if err != nil {
		return nil, err
	}
	return construct(names, cfg.Scope), nil
}
