package app

import (
	"context"
	"path/filepath"
	"strings"

	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
)

// Watch builds once, then rebuilds after every debounced batch of changes
// below the project root until ctx is done. Failed builds are logged and the
// loop keeps running.
func (a *App) Watch(ctx context.Context, opts BuildOptions) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	if _, err := a.build(ctx, cfg, opts); err != nil {
		a.logger.Error(err)
	}

	if err := a.watcher.Start(ctx, cfg.Root, ports.WatchOptions{
		Debounce: cfg.Debounce,
		Ignore:   outputDirs(cfg),
	}); err != nil {
		return err
	}
	stopWatching := context.AfterFunc(ctx, func() { _ = a.watcher.Stop() })
	defer func() {
		if stopWatching() {
			_ = a.watcher.Stop()
		}
	}()

	a.logger.Info("watching " + cfg.Root)
	for batch := range a.watcher.Events() {
		if ctx.Err() != nil {
			break
		}
		if !a.applyChanges(cfg, batch) {
			continue
		}
		if _, err := a.build(ctx, cfg, opts); err != nil {
			a.logger.Error(err)
		}
	}
	return nil
}

// applyChanges invalidates the changed files and reports whether a rebuild is needed.
// New, removed or renamed paths always rebuild since they can change entry
// globs and make failed imports resolvable. Artifacts and hidden files,
// which include the temp files of atomic writes, are ignored.
func (a *App) applyChanges(cfg *domain.Config, batch []ports.WatchEvent) bool {
	paths := make([]string, 0, len(batch))
	structural := false
	for _, ev := range batch {
		if ev.Path == cfg.CSSPath || ev.Path == cfg.ManifestPath || strings.HasPrefix(filepath.Base(ev.Path), ".") {
			continue
		}
		paths = append(paths, ev.Path)
		if ev.Operation != ports.OpWrite {
			structural = true
		}
	}
	if len(paths) == 0 {
		return false
	}

	a.mu.Lock()
	session := a.session
	a.mu.Unlock()
	if session == nil {
		return true
	}

	affected := session.InvalidatePaths(paths)
	for _, id := range affected {
		a.logger.Debug("stale " + id.String())
	}
	return structural || len(affected) > 0
}

// outputDirs lists the artifact directories the watcher must ignore so
// writing artifacts does not trigger another build. The root itself is never ignored.
func outputDirs(cfg *domain.Config) []string {
	var dirs []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if dir == filepath.Clean(cfg.Root) {
			return
		}
		for _, d := range dirs {
			if d == dir {
				return
			}
		}
		dirs = append(dirs, dir)
	}
	add(filepath.Dir(cfg.CSSPath))
	add(filepath.Dir(cfg.ManifestPath))
	if cfg.ModulesDir != "" {
		add(cfg.ModulesDir)
	}
	return dirs
}
