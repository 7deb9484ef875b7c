package transform

import (
	"strings"

	"github.com/gorilla/css/scanner"
	"go.trai.ch/zerr"
)

type nodeKind int

const (
	// kindRule is a qualified rule: a selector followed by a block.
	kindRule nodeKind = iota
	// kindAtRule starts with an at-keyword and ends in a block or ";".
	kindAtRule
	// kindDecl is anything else terminated by ";" or the end of its block.
	kindDecl
)

// node is one item of a stylesheet. Every byte of the input belongs to exactly
// one of lead, head, tail or a terminator, so rendering an untouched tree
// reproduces the input.
type node struct {
	kind nodeKind
	lead []*scanner.Token
	head []*scanner.Token
	// text replaces head when the node was rewritten.
	text     *string
	semi     bool
	hasBlock bool
	block    []*node
	tail     []*scanner.Token
	removed  bool
}

func (n *node) headText() string {
	if n.text != nil {
		return *n.text
	}
	return join(n.head)
}

func (n *node) rewrite(s string) {
	n.text = &s
}

// atKeyword returns the lower-cased at-keyword without "@", or "".
func (n *node) atKeyword() string {
	if n.kind != kindAtRule {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(n.head[0].Value, "@"))
}

// prelude returns the head tokens after the at-keyword.
func (n *node) prelude() []*scanner.Token {
	if n.kind == kindAtRule {
		return n.head[1:]
	}
	return n.head
}

// declaration splits a decl into its property and value tokens.
// ok is false for statements that are not "property: value".
func (n *node) declaration() (prop string, value []*scanner.Token, ok bool) {
	toks := trimSpace(n.head)
	if len(toks) < 2 || toks[0].Type != scanner.TokenIdent {
		return "", nil, false
	}
	rest := trimSpace(toks[1:])
	if len(rest) == 0 || !isChar(rest[0], ":") {
		return "", nil, false
	}
	return strings.ToLower(toks[0].Value), rest[1:], true
}

func tokenize(css string) ([]*scanner.Token, error) {
	s := scanner.New(css)
	var toks []*scanner.Token
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return toks, nil
		case scanner.TokenError:
			return nil, zerr.With(zerr.With(zerr.New("invalid css"), "line", tok.Line), "column", tok.Column)
		}
		toks = append(toks, tok)
	}
}

type parser struct {
	toks []*scanner.Token
	pos  int
}

func parse(css string) ([]*node, []*scanner.Token, error) {
	toks, err := tokenize(css)
	if err != nil {
		return nil, nil, err
	}
	p := &parser{toks: toks}
	return p.parseBlock(false)
}

// parseBlock reads items until the closing brace of a nested block or the end
// of input at the top level. The returned tail holds trailing whitespace.
func (p *parser) parseBlock(nested bool) ([]*node, []*scanner.Token, error) {
	var nodes []*node
	for {
		lead := p.skipSpace()
		if p.pos >= len(p.toks) {
			if nested {
				return nil, nil, zerr.New("unclosed block")
			}
			return nodes, lead, nil
		}

		tok := p.toks[p.pos]
		if isChar(tok, "}") {
			if !nested {
				return nil, nil, zerr.With(zerr.New("unexpected }"), "line", tok.Line)
			}
			return nodes, lead, nil
		}

		n, err := p.parseItem()
		if err != nil {
			return nil, nil, err
		}
		n.lead = lead
		nodes = append(nodes, n)
	}
}

func (p *parser) parseItem() (*node, error) {
	n := &node{kind: kindDecl}
	if p.toks[p.pos].Type == scanner.TokenAtKeyword {
		n.kind = kindAtRule
	}

	depth := 0
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		switch {
		case tok.Type == scanner.TokenFunction, isChar(tok, "("), isChar(tok, "["):
			depth++
		case isChar(tok, ")"), isChar(tok, "]"):
			depth--
		case depth <= 0 && isChar(tok, ";"):
			p.pos++
			n.semi = true
			return n, nil
		case depth <= 0 && isChar(tok, "}"):
			return n, nil
		case depth <= 0 && isChar(tok, "{"):
			p.pos++
			if n.kind == kindDecl {
				n.kind = kindRule
			}
			block, tail, err := p.parseBlock(true)
			if err != nil {
				return nil, err
			}
			p.pos++
			n.hasBlock, n.block, n.tail = true, block, tail
			return n, nil
		}
		n.head = append(n.head, tok)
		p.pos++
	}
	return n, nil
}

func (p *parser) skipSpace() []*scanner.Token {
	var lead []*scanner.Token
	for p.pos < len(p.toks) && isSpace(p.toks[p.pos]) {
		lead = append(lead, p.toks[p.pos])
		p.pos++
	}
	return lead
}

func render(b *strings.Builder, nodes []*node) {
	for _, n := range nodes {
		if n.removed {
			continue
		}
		b.WriteString(join(n.lead))
		b.WriteString(n.headText())
		switch {
		case n.hasBlock:
			b.WriteString("{")
			render(b, n.block)
			b.WriteString(join(n.tail))
			b.WriteString("}")
		case n.semi:
			b.WriteString(";")
		}
	}
}

func join(toks []*scanner.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Value)
	}
	return b.String()
}

func isSpace(t *scanner.Token) bool {
	switch t.Type {
	case scanner.TokenS, scanner.TokenComment, scanner.TokenCDO, scanner.TokenCDC, scanner.TokenBOM:
		return true
	}
	return false
}

func isChar(t *scanner.Token, c string) bool {
	return t.Type == scanner.TokenChar && t.Value == c
}

func isIdent(t *scanner.Token, name string) bool {
	return t.Type == scanner.TokenIdent && strings.EqualFold(t.Value, name)
}

func trimSpace(toks []*scanner.Token) []*scanner.Token {
	for len(toks) > 0 && isSpace(toks[0]) {
		toks = toks[1:]
	}
	for len(toks) > 0 && isSpace(toks[len(toks)-1]) {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// words drops whitespace and comments.
func words(toks []*scanner.Token) []*scanner.Token {
	out := make([]*scanner.Token, 0, len(toks))
	for _, t := range toks {
		if !isSpace(t) {
			out = append(out, t)
		}
	}
	return out
}
