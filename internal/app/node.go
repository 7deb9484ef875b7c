package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modcss/internal/adapters/artifacts" //nolint:depguard // Wired in app layer
	"go.trai.ch/modcss/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/modcss/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/modcss/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/modcss/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/modcss/internal/adapters/transform" //nolint:depguard // Wired in app layer
	"go.trai.ch/modcss/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/modcss/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.EntryResolverNodeID,
			fs.ResolverNodeID,
			fs.ReaderNodeID,
			transform.NodeID,
			artifacts.NodeID,
			watcher.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			logger.ConcreteNodeID,
			telemetry.ProviderNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	entries, err := graft.Dep[ports.EntryResolver](ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := graft.Dep[ports.PathResolver](ctx)
	if err != nil {
		return nil, err
	}
	reader, err := graft.Dep[ports.SourceReader](ctx)
	if err != nil {
		return nil, err
	}
	pipelines, err := graft.Dep[ports.PipelineFactory](ctx)
	if err != nil {
		return nil, err
	}
	writer, err := graft.Dep[ports.ArtifactWriter](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, entries, resolver, reader, pipelines, writer, w, tracer, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	control, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	provider, err := graft.Dep[telemetry.Provider](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:        app,
		Logger:     log,
		LogControl: control,
		Telemetry:  provider,
	}, nil
}
