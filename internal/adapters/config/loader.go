// Package config provides the configuration loader for modcss.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only accepted value of the version key.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load implements ports.ConfigLoader.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	configPath, found := findConfiguration(absCwd)
	if !found {
		return domain.DefaultConfig(absCwd), nil
	}

	var file File
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	cfg, err := l.resolve(configPath, &file)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return cfg, nil
}

// DiscoverRoot implements ports.ConfigLoader.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}
	if configPath, found := findConfiguration(absCwd); found {
		return filepath.Dir(configPath), nil
	}
	return absCwd, nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) resolve(configPath string, file *File) (*domain.Config, error) {
	if file.Version != "" && file.Version != SupportedVersion {
		return nil, zerr.With(domain.ErrInvalidConfig, "version", file.Version)
	}

	root := resolveRoot(configPath, file.Root)
	cfg := domain.DefaultConfig(root)
	cfg.Entries = slices.Clone(file.Entries)

	if file.Output.CSS != "" {
		cfg.CSSPath = resolvePath(root, file.Output.CSS)
	}
	if file.Output.Manifest != "" {
		cfg.ManifestPath = resolvePath(root, file.Output.Manifest)
	}
	if file.Output.Modules != "" {
		cfg.ModulesDir = resolvePath(root, file.Output.Modules)
	}
	if cfg.CSSPath == cfg.ManifestPath {
		return nil, zerr.With(zerr.With(domain.ErrInvalidConfig, "output.css", cfg.CSSPath), "output.manifest", cfg.ManifestPath)
	}

	switch mode := domain.NameMode(file.Names.Mode); mode {
	case "", domain.NameModeDev, domain.NameModeProd:
		cfg.NameMode = mode
		if file.Names.Pattern != "" {
			l.Logger.Warn(fmt.Sprintf("'names.pattern' in %s has no effect unless names.mode is %q", domain.ConfigFileName, domain.NameModePattern))
		}
	case domain.NameModePattern:
		if file.Names.Pattern == "" {
			return nil, zerr.With(domain.ErrInvalidConfig, "names.pattern", "")
		}
		cfg.NameMode = mode
		cfg.NamePattern = file.Names.Pattern
	default:
		return nil, zerr.With(domain.ErrUnknownNameMode, "names.mode", file.Names.Mode)
	}

	if file.Transform.Pipeline != "" {
		cfg.Pipeline = file.Transform.Pipeline
	}

	switch scope := domain.ScopeMode(file.Transform.Scope); scope {
	case "":
	case domain.ScopeLocal, domain.ScopeGlobal:
		cfg.Scope = scope
	default:
		return nil, zerr.With(domain.ErrInvalidConfig, "transform.scope", file.Transform.Scope)
	}

	switch {
	case file.Jobs < 0:
		return nil, zerr.With(domain.ErrInvalidConfig, "jobs", file.Jobs)
	case file.Jobs == 0:
		cfg.Jobs = runtime.NumCPU()
	default:
		cfg.Jobs = file.Jobs
	}

	switch {
	case file.Watch.Debounce < 0:
		return nil, zerr.With(domain.ErrInvalidConfig, "watch.debounce", file.Watch.Debounce.String())
	case file.Watch.Debounce > 0:
		cfg.Debounce = file.Watch.Debounce
	}

	return cfg, nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	return resolvePath(configDir, configuredRoot)
}

func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from the working directory
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
