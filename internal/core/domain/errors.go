package domain

import "go.trai.ch/zerr"

var (
	// ErrResolution is returned when a specifier cannot be resolved to a file.
	ErrResolution = zerr.New("failed to resolve stylesheet")

	// ErrRead is returned when a resolved stylesheet cannot be read.
	ErrRead = zerr.New("failed to read stylesheet")

	// ErrTransform is returned when the transform pipeline rejects a stylesheet.
	ErrTransform = zerr.New("failed to transform stylesheet")

	// ErrCircularReference is returned when a compile would wait on itself through a cycle of in-flight compiles.
	ErrCircularReference = zerr.New("circular stylesheet reference")

	// ErrUnresolvedComposition marks a token whose composed value contains an unresolved class.
	ErrUnresolvedComposition = zerr.New("unresolved composition")

	// ErrSessionClosed is returned when a torn down session is used.
	ErrSessionClosed = zerr.New("session is closed")

	// ErrNoEntries is returned when a build is requested without entry files.
	ErrNoEntries = zerr.New("no entry stylesheets specified")

	// ErrBuildFailed is returned when at least one entry failed to compile.
	ErrBuildFailed = zerr.New("build failed")

	// ErrAssembleFailed is returned when the bundle cannot be assembled.
	ErrAssembleFailed = zerr.New("failed to assemble bundle")

	// ErrArtifactWrite is returned when an output artifact cannot be written.
	ErrArtifactWrite = zerr.New("failed to write artifact")

	// ErrArtifactMarshal is returned when the manifest cannot be encoded.
	ErrArtifactMarshal = zerr.New("failed to encode manifest")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnknownPipeline is returned when no transformer is registered under the requested name.
	ErrUnknownPipeline = zerr.New("unknown transform pipeline")

	// ErrUnknownNameMode is returned when the name generator mode is not recognized.
	ErrUnknownNameMode = zerr.New("unknown name generator mode, expected 'dev', 'prod' or 'pattern'")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrGraphUpdateFailed is returned when the dependency graph rejects an edge update.
	ErrGraphUpdateFailed = zerr.New("failed to update dependency graph")

	// ErrNotInGraph is returned when a file is not reachable from any entry.
	ErrNotInGraph = zerr.New("stylesheet is not part of the build")

	// ErrWatcherFailed is returned when the file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")
)
