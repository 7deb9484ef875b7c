package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "modcss.yaml"

	// DefaultOutDir is the directory artifacts are written to when not configured.
	DefaultOutDir = "dist"

	// DefaultCSSFile is the file name of the combined stylesheet.
	DefaultCSSFile = "bundle.css"

	// DefaultManifestFile is the file name of the token manifest.
	DefaultManifestFile = "manifest.json"

	// ModuleRecordExt is appended to the relative path of per-file token records.
	ModuleRecordExt = ".json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCSSPath returns the default path of the combined stylesheet.
// It joins dist and bundle.css.
func DefaultCSSPath() string {
	return filepath.Join(DefaultOutDir, DefaultCSSFile)
}

// DefaultManifestPath returns the default path of the token manifest.
// It joins dist and manifest.json.
func DefaultManifestPath() string {
	return filepath.Join(DefaultOutDir, DefaultManifestFile)
}
