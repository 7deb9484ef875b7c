package transform

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/gorilla/css/scanner"
	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/zerr"
)

// Undefined is exported in place of a composed or imported name the target
// file does not export.
const Undefined = "undefined"

var (
	valueImport     = regexp.MustCompile(`^(.+?|\([\s\S]+?\))\s+from\s+("[^"]*"|'[^']*'|[\w-]+)$`)
	valueImportName = regexp.MustCompile(`^([\w-]+)(?:\s+as\s+([\w-]+))?$`)
	valueDefinition = regexp.MustCompile(`^([\w-]+)(?:\s*:\s*|\s+)([\s\S]*)$`)
)

var _ ports.Transformer = (*Modules)(nil)

// Modules is the CSS Modules pipeline: local-by-default scoping, composes,
// @value, :import and :export.
type Modules struct {
	names ports.NameGenerator
	scope domain.ScopeMode
}

// NewModules creates the pipeline. An empty scope means local.
func NewModules(names ports.NameGenerator, scope domain.ScopeMode) *Modules {
	if scope == "" {
		scope = domain.ScopeLocal
	}
	return &Modules{names: names, scope: scope}
}

// part is one element of a composition: a local class to expand or an
// already scoped literal.
type part struct {
	local   string
	literal string
}

// compilation holds the state of transforming one stylesheet.
type compilation struct {
	*Modules
	src   *domain.Source
	fetch ports.FetchFunc

	classes    map[string]string
	classOrder []string
	ids        map[string]string
	keyframes  map[string]string
	composes   map[string][]part
	values     map[string]string
	valueOrder []string
	aliases    map[string]string
	exports    map[string]string
	refs       []domain.FileID
}

// Transform implements ports.Transformer.
func (m *Modules) Transform(ctx context.Context, src *domain.Source, fetch ports.FetchFunc) (*ports.TransformResult, error) {
	nodes, tail, err := parse(src.Text)
	if err != nil {
		return nil, err
	}

	c := &compilation{
		Modules:   m,
		src:       src,
		fetch:     fetch,
		classes:   make(map[string]string),
		ids:       make(map[string]string),
		keyframes: make(map[string]string),
		composes:  make(map[string][]part),
		values:    make(map[string]string),
		aliases:   make(map[string]string),
		exports:   make(map[string]string),
	}

	c.collectKeyframes(nodes)
	if err := c.processImports(ctx, nodes); err != nil {
		return nil, err
	}
	if err := c.processNodes(ctx, nodes, false); err != nil {
		return nil, err
	}

	var b strings.Builder
	render(&b, nodes)
	b.WriteString(join(tail))

	return &ports.TransformResult{
		CSS:        strings.TrimLeft(b.String(), " \t\r\n"),
		Tokens:     c.tokens(),
		References: c.refs,
	}, nil
}

func (c *compilation) class(local string) string {
	if scoped, ok := c.classes[local]; ok {
		return scoped
	}
	scoped := c.names.Generate(local, c.src.ID, c.src.Text)
	c.classes[local] = scoped
	c.classOrder = append(c.classOrder, local)
	return scoped
}

func (c *compilation) id(local string) string {
	if scoped, ok := c.ids[local]; ok {
		return scoped
	}
	scoped := c.names.Generate(local, c.src.ID, c.src.Text)
	c.ids[local] = scoped
	return scoped
}

// collectKeyframes scopes local @keyframes names so animations declared
// anywhere in the file can refer to them.
func (c *compilation) collectKeyframes(nodes []*node) {
	for _, n := range nodes {
		if !n.hasBlock {
			continue
		}
		if !strings.HasSuffix(n.atKeyword(), "keyframes") {
			c.collectKeyframes(n.block)
			continue
		}

		ws := words(n.prelude())
		switch {
		case len(ws) == 1 && ws[0].Type == scanner.TokenIdent && c.scope == domain.ScopeLocal:
			scoped := c.names.Generate(ws[0].Value, c.src.ID, c.src.Text)
			c.keyframes[ws[0].Value] = scoped
			n.rewrite(n.head[0].Value + " " + scoped + " ")
		case len(ws) == 4 && isChar(ws[0], ":") && ws[1].Type == scanner.TokenFunction && ws[2].Type == scanner.TokenIdent:
			if strings.EqualFold(ws[1].Value, "local(") {
				scoped := c.names.Generate(ws[2].Value, c.src.ID, c.src.Text)
				c.keyframes[ws[2].Value] = scoped
				n.rewrite(n.head[0].Value + " " + scoped + " ")
			} else {
				n.rewrite(n.head[0].Value + " " + ws[2].Value + " ")
			}
		}
	}
}

// processImports handles the top level @value statements and :import blocks
// in source order, before any rule is scoped.
func (c *compilation) processImports(ctx context.Context, nodes []*node) error {
	for _, n := range nodes {
		switch {
		case n.atKeyword() == "value" && !n.hasBlock:
			if err := c.value(ctx, n); err != nil {
				return err
			}
			n.removed = true
		case n.kind == kindRule && importSpec(n.head) != "":
			if err := c.icssImport(ctx, importSpec(n.head), n.block); err != nil {
				return err
			}
			n.removed = true
		}
	}
	return nil
}

func (c *compilation) value(ctx context.Context, n *node) error {
	params := strings.TrimSpace(join(n.prelude()))

	if m := valueImport.FindStringSubmatch(params); m != nil {
		spec, err := c.source(m[2])
		if err != nil {
			return zerr.With(err, "line", n.head[0].Line)
		}
		tokens, err := c.fetchSpec(ctx, spec)
		if err != nil {
			return err
		}

		list := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(m[1]), "("), ")")
		for item := range strings.SplitSeq(list, ",") {
			im := valueImportName.FindStringSubmatch(strings.TrimSpace(item))
			if im == nil {
				return zerr.With(zerr.New("invalid @value import"), "line", n.head[0].Line)
			}
			alias := im[1]
			if im[2] != "" {
				alias = im[2]
			}
			c.define(alias, lookup(tokens, im[1]))
		}
		return nil
	}

	if m := valueDefinition.FindStringSubmatch(params); m != nil {
		c.define(m[1], c.substitute(strings.TrimSpace(m[2])))
		return nil
	}
	return zerr.With(zerr.New("invalid @value"), "line", n.head[0].Line)
}

func (c *compilation) define(name, value string) {
	if _, ok := c.values[name]; !ok {
		c.valueOrder = append(c.valueOrder, name)
	}
	c.values[name] = value
}

// source turns the target of "from" into an import specifier. A bare name
// refers to a @value holding the path.
func (c *compilation) source(target string) (string, error) {
	if target[0] == '"' || target[0] == '\'' {
		return target, nil
	}
	if v, ok := c.values[target]; ok {
		return v, nil
	}
	return "", zerr.With(zerr.New("unknown @value"), "value", target)
}

func (c *compilation) icssImport(ctx context.Context, spec string, block []*node) error {
	tokens, err := c.fetchSpec(ctx, spec)
	if err != nil {
		return err
	}
	for _, d := range block {
		prop, value, ok := d.declaration()
		if !ok {
			continue
		}
		c.aliases[prop] = lookup(tokens, strings.TrimSpace(join(value)))
	}
	return nil
}

func (c *compilation) fetchSpec(ctx context.Context, spec string) (domain.TokenMap, error) {
	id, tokens, err := c.fetch(ctx, spec)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(c.refs, id) {
		c.refs = append(c.refs, id)
	}
	return tokens, nil
}

// processNodes scopes selectors, resolves composes and substitutes values.
// Inside @keyframes the selectors are offsets and stay untouched.
func (c *compilation) processNodes(ctx context.Context, nodes []*node, inKeyframes bool) error {
	for _, n := range nodes {
		if n.removed {
			continue
		}

		switch n.kind {
		case kindAtRule:
			if n.text == nil {
				n.rewrite(n.head[0].Value + c.substituteTokens(n.prelude(), false))
			}
			if n.hasBlock {
				keyframes := strings.HasSuffix(n.atKeyword(), "keyframes")
				if err := c.processNodes(ctx, n.block, keyframes); err != nil {
					return err
				}
			}

		case kindRule:
			if err := c.rule(ctx, n, inKeyframes); err != nil {
				return err
			}

		case kindDecl:
			if prop, value, ok := n.declaration(); ok {
				c.rewriteDecl(n, prop, value)
			}
		}
	}
	return nil
}

func (c *compilation) rule(ctx context.Context, n *node, inKeyframes bool) error {
	if isExport(n.head) {
		for _, d := range n.block {
			if prop, value, ok := d.declaration(); ok {
				c.exports[prop] = strings.TrimSpace(c.substituteTokens(value, false))
			}
		}
		n.removed = true
		return nil
	}

	var info selectorInfo
	if !inKeyframes {
		selector, si, err := c.localizeSelector(n.head)
		if err != nil {
			return err
		}
		n.rewrite(selector)
		info = si
	}

	for _, d := range n.block {
		if d.kind != kindDecl {
			continue
		}
		prop, value, ok := d.declaration()
		if !ok {
			continue
		}
		if prop != "composes" && prop != "compose-with" {
			c.rewriteDecl(d, prop, value)
			continue
		}

		if len(info.locals) != 1 || info.globals != 0 || !isSingleClass(n.head) {
			return zerr.With(
				zerr.New("composition is only allowed when the selector is a single local class"),
				"line", d.head[0].Line,
			)
		}
		if err := c.compose(ctx, info.locals[0], value, d.head[0].Line); err != nil {
			return err
		}
		d.removed = true
	}

	return c.processNodes(ctx, nestedRules(n.block), inKeyframes)
}

func nestedRules(block []*node) []*node {
	var out []*node
	for _, n := range block {
		if n.kind != kindDecl {
			out = append(out, n)
		}
	}
	return out
}

// compose records "composes: a b [from source]" for class.
// Fetch errors are returned unchanged.
func (c *compilation) compose(ctx context.Context, class string, value []*scanner.Token, line int) error {
	var (
		names []string
		from  []*scanner.Token
	)
	ws := words(value)
	for i, w := range ws {
		if isIdent(w, "from") {
			from = ws[i+1:]
			if len(from) != 1 {
				return zerr.With(zerr.New("invalid composes source"), "line", line)
			}
			break
		}
		if w.Type != scanner.TokenIdent {
			return zerr.With(zerr.With(zerr.New("invalid composes"), "token", w.Value), "line", line)
		}
		names = append(names, w.Value)
	}
	if len(names) == 0 {
		return zerr.With(zerr.New("composes without class names"), "line", line)
	}

	switch {
	case from == nil:
		for _, name := range names {
			c.composes[class] = append(c.composes[class], part{local: name})
		}
	case isIdent(from[0], "global"):
		for _, name := range names {
			c.composes[class] = append(c.composes[class], part{literal: name})
		}
	default:
		spec := from[0].Value
		if from[0].Type != scanner.TokenString {
			var err error
			if spec, err = c.source(spec); err != nil {
				return zerr.With(err, "line", line)
			}
		}
		tokens, err := c.fetchSpec(ctx, spec)
		if err != nil {
			return err
		}
		for _, name := range names {
			c.composes[class] = append(c.composes[class], part{literal: lookup(tokens, name)})
		}
	}
	return nil
}

func (c *compilation) rewriteDecl(n *node, prop string, value []*scanner.Token) {
	animation := prop == "animation" || prop == "animation-name"
	if len(c.values) == 0 && len(c.aliases) == 0 && !(animation && len(c.keyframes) > 0) {
		return
	}
	if len(value) == 0 {
		return
	}
	start := slices.Index(n.head, value[0])
	end := start + len(value)
	n.rewrite(join(n.head[:start]) + c.substituteTokens(value, animation) + join(n.head[end:]))
}

// substituteTokens renders toks with @value names, :import aliases and, when
// animation is set, local keyframe names replaced.
func (c *compilation) substituteTokens(toks []*scanner.Token, animation bool) string {
	var b strings.Builder
	for _, t := range toks {
		if t.Type == scanner.TokenIdent {
			if v, ok := c.values[t.Value]; ok {
				b.WriteString(v)
				continue
			}
			if v, ok := c.aliases[t.Value]; ok {
				b.WriteString(v)
				continue
			}
			if v, ok := c.keyframes[t.Value]; ok && animation {
				b.WriteString(v)
				continue
			}
		}
		b.WriteString(t.Value)
	}
	return b.String()
}

func (c *compilation) substitute(text string) string {
	toks, err := tokenize(text)
	if err != nil {
		return text
	}
	return c.substituteTokens(toks, false)
}

// tokens builds the exported mapping: scoped classes with their
// compositions, ids, keyframes, values and :export entries.
func (c *compilation) tokens() domain.TokenMap {
	out := make(domain.TokenMap, len(c.classes)+len(c.values)+len(c.exports))
	for local, scoped := range c.ids {
		out[local] = scoped
	}
	for local, scoped := range c.keyframes {
		out[local] = scoped
	}
	for _, local := range c.classOrder {
		out[local] = strings.Join(c.expand(local, map[string]struct{}{}), " ")
	}
	for _, name := range c.valueOrder {
		out[name] = c.values[name]
	}
	for key, value := range c.exports {
		out[key] = value
	}
	return out
}

// expand returns the scoped name of class followed by everything it composes,
// without duplicates. Local composition cycles are cut at the first repeat.
func (c *compilation) expand(class string, visiting map[string]struct{}) []string {
	visiting[class] = struct{}{}
	out := []string{c.class(class)}
	add := func(names ...string) {
		for _, name := range names {
			if name != "" && !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}

	for _, p := range c.composes[class] {
		if p.local == "" {
			add(strings.Fields(p.literal)...)
			continue
		}
		if _, seen := visiting[p.local]; seen {
			add(c.class(p.local))
			continue
		}
		add(c.expand(p.local, visiting)...)
	}
	return out
}

func lookup(tokens domain.TokenMap, name string) string {
	if v, ok := tokens[name]; ok {
		return v
	}
	return Undefined
}

// importSpec returns the specifier of an ':import("spec")' selector, or "".
func importSpec(head []*scanner.Token) string {
	ws := words(head)
	if len(ws) != 4 || !isChar(ws[0], ":") || !strings.EqualFold(ws[1].Value, "import(") || !isChar(ws[3], ")") {
		return ""
	}
	return ws[2].Value
}

func isExport(head []*scanner.Token) bool {
	ws := words(head)
	return len(ws) == 2 && isChar(ws[0], ":") && isIdent(ws[1], "export")
}
