package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modcss/internal/adapters/logger"
	"go.trai.ch/modcss/internal/core/ports"
)

const (
	// TracerNodeID is the unique identifier for the tracer Graft node.
	TracerNodeID graft.ID = "adapter.telemetry"
	// ProviderNodeID is the unique identifier for the trace provider Graft node.
	ProviderNodeID graft.ID = "adapter.telemetry.provider"
)

// Provider owns the registered trace provider so the app can flush it on exit.
type Provider interface {
	Shutdown(ctx context.Context) error
}

func init() {
	graft.Register(graft.Node[Provider]{
		ID:        ProviderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (Provider, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return Setup(NewBridge(log)), nil
		},
	})

	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ProviderNodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			if _, err := graft.Dep[Provider](ctx); err != nil {
				return nil, err
			}
			return NewOTelTracer(InstrumentationName), nil
		},
	})
}
