// Package app implements the application layer for modcss.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/modcss/internal/engine/compiler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
// It owns one compiler session for the lifetime of the process, so repeated
// builds in watch mode only recompile what changed.
type App struct {
	configLoader ports.ConfigLoader
	entries      ports.EntryResolver
	resolver     ports.PathResolver
	reader       ports.SourceReader
	pipelines    ports.PipelineFactory
	writer       ports.ArtifactWriter
	watcher      ports.Watcher
	tracer       ports.Tracer
	logger       ports.Logger

	mu      sync.Mutex
	session *compiler.Session
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	entries ports.EntryResolver,
	resolver ports.PathResolver,
	reader ports.SourceReader,
	pipelines ports.PipelineFactory,
	writer ports.ArtifactWriter,
	watcher ports.Watcher,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		entries:      entries,
		resolver:     resolver,
		reader:       reader,
		pipelines:    pipelines,
		writer:       writer,
		watcher:      watcher,
		tracer:       tracer,
		logger:       log,
	}
}

// BuildResult is the outcome of a successful build.
type BuildResult struct {
	Bundle      *domain.Bundle
	Diagnostics []domain.Diagnostic
}

// Build compiles the entries, assembles the bundle, reports unresolved
// compositions and writes the artifacts. Nothing is written when any entry fails.
func (a *App) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return a.build(ctx, cfg, opts)
}

// Close tears down the compiler session.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		a.session.Teardown()
		a.session = nil
	}
}

func (a *App) build(ctx context.Context, cfg *domain.Config, opts BuildOptions) (*BuildResult, error) {
	ids, err := a.resolveEntries(cfg, opts)
	if err != nil {
		return nil, err
	}

	session, err := a.sessionFor(cfg)
	if err != nil {
		return nil, err
	}

	if err := session.Build(ctx, ids, cfg.Jobs); err != nil {
		return nil, err
	}

	bundle, err := session.Assemble(cfg.Root, ids)
	if err != nil {
		return nil, errors.Join(domain.ErrAssembleFailed, err)
	}

	diags := compiler.Validate(bundle.Manifest)
	for _, d := range diags {
		a.logger.Warn(d.Message())
	}

	if err := a.writeArtifacts(cfg, bundle); err != nil {
		return nil, err
	}

	a.logger.Info(fmt.Sprintf("built %d stylesheets into %s", len(bundle.Order), relTo(cfg.Root, cfg.CSSPath)))
	return &BuildResult{Bundle: bundle, Diagnostics: diags}, nil
}

// Module compiles one file and renders its CommonJS module.
// With Degrade set a failing file renders a module that logs the error at
// runtime instead of failing the command.
func (a *App) Module(ctx context.Context, opts ModuleOptions) (string, error) {
	cfg, err := a.loadConfig(opts.BuildOptions)
	if err != nil {
		return "", err
	}
	session, err := a.sessionFor(cfg)
	if err != nil {
		return "", err
	}

	id := domain.NewFileID(absFrom(opts.Cwd, opts.File))
	tokens, err := session.Load(ctx, id)
	if err != nil {
		if !opts.Degrade {
			return "", err
		}
		a.logger.Error(err)
		return compiler.ErrorModuleSource(err), nil
	}
	return compiler.ModuleSource(tokens)
}

// GraphReport describes the direct dependencies and transitive dependants of a file.
type GraphReport struct {
	File         string
	Dependencies []string
	Dependants   []string
}

// Graph builds the entries and reports where file sits in the dependency graph.
// Artifacts are not written.
func (a *App) Graph(ctx context.Context, opts GraphOptions) (*GraphReport, error) {
	cfg, err := a.loadConfig(opts.BuildOptions)
	if err != nil {
		return nil, err
	}
	ids, err := a.resolveEntries(cfg, opts.BuildOptions)
	if err != nil {
		return nil, err
	}
	session, err := a.sessionFor(cfg)
	if err != nil {
		return nil, err
	}
	if err := session.Build(ctx, ids, cfg.Jobs); err != nil {
		return nil, err
	}

	id := domain.NewFileID(absFrom(opts.Cwd, opts.File))
	if !session.Graph().Has(id) {
		return nil, zerr.With(domain.ErrNotInGraph, "file", id.Rel(cfg.Root))
	}
	return &GraphReport{
		File:         id.Rel(cfg.Root),
		Dependencies: rels(cfg.Root, session.Graph().Dependencies(id)),
		Dependants:   rels(cfg.Root, session.Graph().TransitiveDependants(id)),
	}, nil
}

// sessionFor returns the process session, creating it for cfg on first use.
// Later calls reuse it whatever cfg they pass.
func (a *App) sessionFor(cfg *domain.Config) (*compiler.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		return a.session, nil
	}
	transformer, err := a.pipelines.New(cfg)
	if err != nil {
		return nil, err
	}
	a.session = compiler.NewSession(transformer, a.resolver, a.reader, a.tracer, a.logger)
	return a.session, nil
}

func (a *App) resolveEntries(cfg *domain.Config, opts BuildOptions) ([]domain.FileID, error) {
	patterns := cfg.Entries
	if len(opts.Entries) > 0 {
		patterns = make([]string, len(opts.Entries))
		for i, e := range opts.Entries {
			patterns[i] = absFrom(opts.Cwd, e)
		}
	}
	if len(patterns) == 0 {
		return nil, domain.ErrNoEntries
	}

	paths, err := a.entries.ResolveEntries(patterns, cfg.Root)
	if err != nil {
		return nil, errors.Join(domain.ErrResolution, err)
	}
	if len(paths) == 0 {
		return nil, domain.ErrNoEntries
	}
	return domain.NewFileIDs(paths), nil
}

func (a *App) writeArtifacts(cfg *domain.Config, bundle *domain.Bundle) error {
	manifest, err := compiler.MarshalManifest(bundle.Manifest)
	if err != nil {
		return zerr.Wrap(err, domain.ErrArtifactMarshal.Error())
	}
	if err := a.writer.WriteFile(cfg.CSSPath, []byte(bundle.CSS)); err != nil {
		return err
	}
	if err := a.writer.WriteFile(cfg.ManifestPath, manifest); err != nil {
		return err
	}
	if cfg.ModulesDir == "" {
		return nil
	}

	for _, file := range bundle.Manifest.Files() {
		if filepath.IsAbs(filepath.FromSlash(file)) {
			a.logger.Debug("no module record for " + file + ": outside the project root")
			continue
		}
		data, err := compiler.MarshalTokens(bundle.Manifest[file])
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrArtifactMarshal.Error()), "file", file)
		}
		path := filepath.Join(cfg.ModulesDir, filepath.FromSlash(file)+domain.ModuleRecordExt)
		if err := a.writer.WriteFile(path, data); err != nil {
			return err
		}
	}
	return nil
}

func absFrom(cwd, path string) string {
	if filepath.IsAbs(path) || cwd == "" {
		return path
	}
	return filepath.Join(cwd, path)
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func rels(root string, ids []domain.FileID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Rel(root)
	}
	return out
}
