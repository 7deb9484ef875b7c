package compiler

import (
	"regexp"

	"go.trai.ch/modcss/internal/core/domain"
)

// unresolvedMarker is what a composition yields when its target class does not exist.
var unresolvedMarker = regexp.MustCompile(`\bundefined\b`)

// Validate scans every token value in manifest for unresolved compositions.
// Findings are non-fatal and ordered by file, then token.
func Validate(manifest domain.Manifest) []domain.Diagnostic {
	var diags []domain.Diagnostic
	for _, file := range manifest.Files() {
		tokens := manifest[file]
		for _, name := range tokens.Keys() {
			value := tokens[name]
			if !unresolvedMarker.MatchString(value) {
				continue
			}
			diags = append(diags, domain.Diagnostic{
				Code:  domain.CodeUnresolvedComposition,
				File:  file,
				Token: name,
				Value: value,
			})
		}
	}
	return diags
}
