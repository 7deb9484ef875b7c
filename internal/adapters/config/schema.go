package config

import "time"

// File represents the structure of the modcss.yaml configuration file.
type File struct {
	Version   string       `yaml:"version"`
	Root      string       `yaml:"root"`
	Entries   []string     `yaml:"entries"`
	Output    OutputDTO    `yaml:"output"`
	Names     NamesDTO     `yaml:"names"`
	Transform TransformDTO `yaml:"transform"`
	Jobs      int          `yaml:"jobs"`
	Watch     WatchDTO     `yaml:"watch"`
}

// OutputDTO configures where artifacts are written.
type OutputDTO struct {
	CSS      string `yaml:"css"`
	Manifest string `yaml:"manifest"`
	Modules  string `yaml:"modules"`
}

// NamesDTO configures the scoped name generator.
type NamesDTO struct {
	Mode    string `yaml:"mode"`
	Pattern string `yaml:"pattern"`
}

// TransformDTO selects the transform pipeline.
type TransformDTO struct {
	Pipeline string `yaml:"pipeline"`
	Scope    string `yaml:"scope"`
}

// WatchDTO configures watch mode.
type WatchDTO struct {
	Debounce time.Duration `yaml:"debounce"`
}
