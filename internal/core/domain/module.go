package domain

import (
	"maps"
	"slices"
)

// TokenMap maps a local class or value name to its exported string.
// Composed classes export a space separated list of scoped names.
type TokenMap map[string]string

// Clone returns a shallow copy that callers may mutate.
func (t TokenMap) Clone() TokenMap {
	if t == nil {
		return TokenMap{}
	}
	return maps.Clone(t)
}

// Keys returns the local names in sorted order.
func (t TokenMap) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// Source is the raw text of a stylesheet.
type Source struct {
	ID     FileID
	Text   string
	Digest uint64
}

// CacheEntry is the compiled form of one stylesheet.
type CacheEntry struct {
	// Tokens is the exported mapping.
	Tokens TokenMap
	// CSS is the compiled fragment with local names replaced.
	CSS string
	// Digest is the xxhash of the source the entry was compiled from.
	Digest uint64
	// References lists the files this one imports, in source order.
	References []FileID
}

// Manifest maps a root relative slash path to the tokens of that file.
type Manifest map[string]TokenMap

// Files returns the manifest keys in sorted order.
func (m Manifest) Files() []string {
	return slices.Sorted(maps.Keys(m))
}

// Bundle is the assembled output of a build.
type Bundle struct {
	// CSS is every fragment joined in cascade order.
	CSS string
	// Manifest holds the tokens of every file in the bundle.
	Manifest Manifest
	// Order is the file order the fragments were emitted in.
	Order []FileID
}

// DiagnosticCode classifies a non-fatal finding.
type DiagnosticCode string

// CodeUnresolvedComposition is reported for token values that reference an undefined class.
const CodeUnresolvedComposition DiagnosticCode = "unresolved-composition"

// Diagnostic is a non-fatal problem found after a build.
type Diagnostic struct {
	Code  DiagnosticCode
	File  string
	Token string
	Value string
}

// Message renders the diagnostic for humans.
func (d Diagnostic) Message() string {
	return "Could not resolve the composed classes in " + d.File + " (token " + d.Token + ": " + d.Value + ")"
}
