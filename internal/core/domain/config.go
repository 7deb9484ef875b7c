package domain

import (
	"path/filepath"
	"runtime"
	"time"
)

// NameMode selects the scoped name generator.
type NameMode string

const (
	// NameModeDev produces readable names derived from the file path.
	NameModeDev NameMode = "dev"
	// NameModeProd produces short hashed names.
	NameModeProd NameMode = "prod"
	// NameModePattern expands a user supplied template.
	NameModePattern NameMode = "pattern"
)

// ScopeMode is the default scoping of class names in a stylesheet.
type ScopeMode string

const (
	// ScopeLocal scopes every class unless wrapped in :global.
	ScopeLocal ScopeMode = "local"
	// ScopeGlobal leaves classes untouched unless wrapped in :local.
	ScopeGlobal ScopeMode = "global"
)

// DefaultPipeline is the transform pipeline used when none is configured.
const DefaultPipeline = "modules"

// DefaultDebounce is the default quiet period before a watch rebuild.
const DefaultDebounce = 50 * time.Millisecond

// Config is the resolved project configuration.
// All paths are absolute.
type Config struct {
	Root         string
	Entries      []string
	CSSPath      string
	ManifestPath string
	ModulesDir   string
	// NameMode is empty when unset; the environment then decides.
	NameMode     NameMode
	NamePattern  string
	Pipeline     string
	Scope        ScopeMode
	Jobs         int
	Debounce     time.Duration
}

// DefaultConfig returns the configuration used when no modcss.yaml exists.
func DefaultConfig(root string) *Config {
	return &Config{
		Root:         root,
		CSSPath:      filepath.Join(root, DefaultCSSPath()),
		ManifestPath: filepath.Join(root, DefaultManifestPath()),
		Pipeline:     DefaultPipeline,
		Scope:        ScopeLocal,
		Jobs:         runtime.NumCPU(),
		Debounce:     DefaultDebounce,
	}
}
