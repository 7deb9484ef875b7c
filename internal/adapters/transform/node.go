package transform

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modcss/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline registry Graft node.
const NodeID graft.ID = "adapter.transform"

func init() {
	graft.Register(graft.Node[ports.PipelineFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PipelineFactory, error) {
			return NewRegistry(), nil
		},
	})
}
