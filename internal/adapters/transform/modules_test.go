package transform_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modcss/internal/adapters/namegen"
	"go.trai.ch/modcss/internal/adapters/transform"
	"go.trai.ch/modcss/internal/core/domain"
)

const root = "/proj"

var errMissing = errors.New("no such stylesheet")

// stubFetch serves token maps keyed by unquoted specifier.
type stubFetch struct {
	files map[string]domain.TokenMap
	calls []string
}

func (s *stubFetch) fetch(_ context.Context, spec string) (domain.FileID, domain.TokenMap, error) {
	spec = domain.Unquote(spec)
	s.calls = append(s.calls, spec)
	tokens, ok := s.files[spec]
	if !ok {
		return domain.FileID{}, nil, errMissing
	}
	return at(spec), tokens, nil
}

func at(rel string) domain.FileID {
	return domain.NewFileID(filepath.Join(root, rel))
}

func transformCSS(t *testing.T, scope domain.ScopeMode, css string, files map[string]domain.TokenMap) (string, domain.TokenMap, []domain.FileID) {
	t.Helper()
	m := transform.NewModules(namegen.NewDev(root), scope)
	stub := &stubFetch{files: files}
	res, err := m.Transform(context.Background(), &domain.Source{ID: at("a.css"), Text: css}, stub.fetch)
	require.NoError(t, err)
	return res.CSS, res.Tokens, res.References
}

func TestModules_ComposesFromFile(t *testing.T) {
	css, tokens, refs := transformCSS(t, domain.ScopeLocal,
		".foo { composes: bar from 'b.css' }",
		map[string]domain.TokenMap{"b.css": {"bar": "_b__bar"}},
	)

	assert.Equal(t, "._a__foo {}", css)
	assert.Equal(t, domain.TokenMap{"foo": "_a__foo _b__bar"}, tokens)
	assert.Equal(t, []domain.FileID{at("b.css")}, refs)
}

func TestModules_Selectors(t *testing.T) {
	tests := []struct {
		name   string
		scope  domain.ScopeMode
		css    string
		want   string
		tokens domain.TokenMap
	}{
		{
			name:   "local by default",
			scope:  domain.ScopeLocal,
			css:    ".a, .b:hover > .c {}",
			want:   "._a__a, ._a__b:hover > ._a__c {}",
			tokens: domain.TokenMap{"a": "_a__a", "b": "_a__b", "c": "_a__c"},
		},
		{
			name:   "global function",
			scope:  domain.ScopeLocal,
			css:    ":global(.x) .y {}",
			want:   ".x ._a__y {}",
			tokens: domain.TokenMap{"y": "_a__y"},
		},
		{
			name:   "global switch resets at comma",
			scope:  domain.ScopeLocal,
			css:    ":global .x .y, .z {}",
			want:   ".x .y, ._a__z {}",
			tokens: domain.TokenMap{"z": "_a__z"},
		},
		{
			name:   "ids",
			scope:  domain.ScopeLocal,
			css:    "#main {}",
			want:   "#_a__main {}",
			tokens: domain.TokenMap{"main": "_a__main"},
		},
		{
			name:   "global scope with local function",
			scope:  domain.ScopeGlobal,
			css:    ".a :local(.b) #c {}",
			want:   ".a ._a__b #c {}",
			tokens: domain.TokenMap{"b": "_a__b"},
		},
		{
			name:   "attribute selectors untouched",
			scope:  domain.ScopeLocal,
			css:    "[data-x] .y {}",
			want:   "[data-x] ._a__y {}",
			tokens: domain.TokenMap{"y": "_a__y"},
		},
		{
			name:   "plain css round trips",
			scope:  domain.ScopeLocal,
			css:    "body { margin: 0 }\n/* c */\n",
			want:   "body { margin: 0 }\n/* c */\n",
			tokens: domain.TokenMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			css, tokens, refs := transformCSS(t, tt.scope, tt.css, nil)
			assert.Equal(t, tt.want, css)
			assert.Equal(t, tt.tokens, tokens)
			assert.Empty(t, refs)
		})
	}
}

func TestModules_Values(t *testing.T) {
	css, tokens, _ := transformCSS(t, domain.ScopeLocal,
		"@value primary: #f00;\n@value size 2px;\n.a { color: primary; border: size solid primary; }",
		nil,
	)

	assert.Equal(t, "._a__a { color: #f00; border: 2px solid #f00; }", css)
	assert.Equal(t, domain.TokenMap{"a": "_a__a", "primary": "#f00", "size": "2px"}, tokens)
}

func TestModules_ValueImports(t *testing.T) {
	colors := map[string]domain.TokenMap{"./colors.css": {"primary": "red", "secondary": "blue"}}

	t.Run("names and aliases", func(t *testing.T) {
		css, tokens, refs := transformCSS(t, domain.ScopeLocal,
			"@value primary, secondary as accent from \"./colors.css\";\n.a { color: accent; }",
			colors,
		)
		assert.Equal(t, "._a__a { color: blue; }", css)
		assert.Equal(t, domain.TokenMap{"a": "_a__a", "primary": "red", "accent": "blue"}, tokens)
		assert.Equal(t, []domain.FileID{at("colors.css")}, refs)
	})

	t.Run("source held in a value", func(t *testing.T) {
		_, tokens, refs := transformCSS(t, domain.ScopeLocal,
			"@value colors: \"./colors.css\";\n@value primary from colors;",
			colors,
		)
		assert.Equal(t, "red", tokens["primary"])
		assert.Equal(t, []domain.FileID{at("colors.css")}, refs)
	})

	t.Run("missing name", func(t *testing.T) {
		_, tokens, _ := transformCSS(t, domain.ScopeLocal, "@value nope from \"./colors.css\";", colors)
		assert.Equal(t, transform.Undefined, tokens["nope"])
	})

	t.Run("media query", func(t *testing.T) {
		css, _, _ := transformCSS(t, domain.ScopeLocal,
			"@value small: (max-width: 600px);\n@media small { .a { color: red; } }",
			nil,
		)
		assert.Equal(t, "@media (max-width: 600px) { ._a__a { color: red; } }", css)
	})
}

func TestModules_Composes(t *testing.T) {
	tests := []struct {
		name   string
		css    string
		tokens domain.TokenMap
	}{
		{
			name:   "local",
			css:    ".a { color: red; }\n.b { composes: a; }",
			tokens: domain.TokenMap{"a": "_a__a", "b": "_a__b _a__a"},
		},
		{
			name:   "chain and global",
			css:    ".a {}\n.b { composes: a; }\n.c { composes: b; composes: x y from global; }",
			tokens: domain.TokenMap{"a": "_a__a", "b": "_a__b _a__a", "c": "_a__c _a__b _a__a x y"},
		},
		{
			name:   "defined later",
			css:    ".b { composes: a; }\n.a {}",
			tokens: domain.TokenMap{"a": "_a__a", "b": "_a__b _a__a"},
		},
		{
			name:   "cycle",
			css:    ".a { composes: b; }\n.b { composes: a; }",
			tokens: domain.TokenMap{"a": "_a__a _a__b", "b": "_a__b _a__a"},
		},
		{
			name:   "missing import",
			css:    ".a { composes: nope from \"./b.css\"; }",
			tokens: domain.TokenMap{"a": "_a__a undefined"},
		},
		{
			name:   "local wrapper",
			css:    ":local(.a) { composes: bar from \"./b.css\"; }",
			tokens: domain.TokenMap{"a": "_a__a _b__bar _b__base"},
		},
	}

	files := map[string]domain.TokenMap{"./b.css": {"bar": "_b__bar _b__base"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, tokens, _ := transformCSS(t, domain.ScopeLocal, tt.css, files)
			assert.Equal(t, tt.tokens, tokens)
		})
	}
}

func TestModules_ComposesRemovesDeclaration(t *testing.T) {
	css, _, _ := transformCSS(t, domain.ScopeLocal, ".a { color: red; }\n.b {\n  composes: a;\n  color: blue;\n}", nil)
	assert.Equal(t, "._a__a { color: red; }\n._a__b {\n  color: blue;\n}", css)
}

func TestModules_ReferencesInSourceOrder(t *testing.T) {
	_, _, refs := transformCSS(t, domain.ScopeLocal,
		".a { composes: p from \"./b.css\"; }\n@value x from \"./v.css\";\n.c { composes: q from \"./v.css\"; }",
		map[string]domain.TokenMap{"./b.css": {"p": "_b__p"}, "./v.css": {"x": "1", "q": "_v__q"}},
	)
	// @value imports resolve before any rule.
	assert.Equal(t, []domain.FileID{at("v.css"), at("b.css")}, refs)
}

func TestModules_ExportAndImport(t *testing.T) {
	css, tokens, refs := transformCSS(t, domain.ScopeLocal,
		"@value primary: red;\n:import(\"./b.css\") { imported: bar; }\n:export { brand: primary; }\n.a { color: imported; }",
		map[string]domain.TokenMap{"./b.css": {"bar": "_b__bar"}},
	)

	assert.Equal(t, "._a__a { color: _b__bar; }", css)
	assert.Equal(t, domain.TokenMap{"a": "_a__a", "primary": "red", "brand": "red"}, tokens)
	assert.Equal(t, []domain.FileID{at("b.css")}, refs)
}

func TestModules_Keyframes(t *testing.T) {
	css, tokens, _ := transformCSS(t, domain.ScopeLocal,
		"@keyframes fade { from { opacity: 0; } to { opacity: 1; } }\n.a { animation: fade 1s; }",
		nil,
	)

	assert.Equal(t, "@keyframes _a__fade { from { opacity: 0; } to { opacity: 1; } }\n._a__a { animation: _a__fade 1s; }", css)
	assert.Equal(t, domain.TokenMap{"a": "_a__a", "fade": "_a__fade"}, tokens)
}

func TestModules_Errors(t *testing.T) {
	tests := []struct {
		name  string
		scope domain.ScopeMode
		css   string
		want  string
	}{
		{name: "unclosed block", scope: domain.ScopeLocal, css: ".a {", want: "unclosed block"},
		{name: "stray brace", scope: domain.ScopeLocal, css: "}", want: "unexpected }"},
		{name: "descendant selector", scope: domain.ScopeLocal, css: ".a .b { composes: c; }", want: "single local class"},
		{name: "selector list", scope: domain.ScopeLocal, css: ".a, .b { composes: c; }", want: "single local class"},
		{name: "global class", scope: domain.ScopeGlobal, css: ".a { composes: c; }", want: "single local class"},
		{name: "empty composes", scope: domain.ScopeLocal, css: ".a { composes: from global; }", want: "without class names"},
		{name: "unknown value source", scope: domain.ScopeLocal, css: "@value x from nowhere;", want: "unknown @value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := transform.NewModules(namegen.NewDev(root), tt.scope)
			stub := &stubFetch{}
			_, err := m.Transform(context.Background(), &domain.Source{ID: at("a.css"), Text: tt.css}, stub.fetch)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestModules_FetchErrorsPropagate(t *testing.T) {
	m := transform.NewModules(namegen.NewDev(root), domain.ScopeLocal)
	stub := &stubFetch{}

	_, err := m.Transform(context.Background(), &domain.Source{ID: at("a.css"), Text: ".a { composes: b from \"./gone.css\"; }"}, stub.fetch)
	require.ErrorIs(t, err, errMissing)
	assert.Equal(t, []string{"./gone.css"}, stub.calls)
}
