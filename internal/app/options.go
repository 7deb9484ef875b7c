package app

import (
	"os"

	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/zerr"
)

// BuildOptions carries the command line overrides of a build.
// Empty fields keep the value from modcss.yaml.
type BuildOptions struct {
	// Cwd is the directory relative paths are resolved against. Defaults to the process working directory.
	Cwd          string
	Entries      []string
	Jobs         int
	CSSPath      string
	ManifestPath string
	ModulesDir   string
	NameMode     string
}

// ModuleOptions configures the module command.
type ModuleOptions struct {
	BuildOptions
	File    string
	Degrade bool
}

// GraphOptions configures the graph command.
type GraphOptions struct {
	BuildOptions
	File string
}

// loadConfig loads modcss.yaml for opts.Cwd and applies the overrides.
func (a *App) loadConfig(opts BuildOptions) (*domain.Config, error) {
	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
		}
		cwd = wd
	}

	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, err
	}

	if opts.Jobs < 0 {
		return nil, zerr.With(domain.ErrInvalidConfig, "jobs", opts.Jobs)
	}
	if opts.Jobs > 0 {
		cfg.Jobs = opts.Jobs
	}
	if opts.CSSPath != "" {
		cfg.CSSPath = absFrom(cwd, opts.CSSPath)
	}
	if opts.ManifestPath != "" {
		cfg.ManifestPath = absFrom(cwd, opts.ManifestPath)
	}
	if opts.ModulesDir != "" {
		cfg.ModulesDir = absFrom(cwd, opts.ModulesDir)
	}
	if opts.NameMode != "" {
		cfg.NameMode = domain.NameMode(opts.NameMode)
	}
	if cfg.CSSPath == cfg.ManifestPath {
		return nil, zerr.With(domain.ErrInvalidConfig, "path", cfg.CSSPath)
	}
	return cfg, nil
}
