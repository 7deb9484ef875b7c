package transform

import (
	"strings"

	"github.com/gorilla/css/scanner"
	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/zerr"
)

// selectorInfo describes the classes found while localizing a selector.
type selectorInfo struct {
	locals  []string
	globals int
}

// localizeSelector rewrites the classes and ids of a selector list.
// In local mode ".a" becomes ".<scoped a>"; ":global(.a)" and ":global .a"
// switch to global mode, ":local" switches back. Modes reset at every comma.
func (c *compilation) localizeSelector(toks []*scanner.Token) (string, selectorInfo, error) {
	var (
		b    strings.Builder
		info selectorInfo
	)
	err := c.localize(toks, c.scope, &b, &info)
	return b.String(), info, err
}

func (c *compilation) localize(toks []*scanner.Token, base domain.ScopeMode, b *strings.Builder, info *selectorInfo) error {
	mode := base
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		next := peek(toks, i+1)

		switch {
		case isChar(tok, ","):
			mode = base
			b.WriteString(tok.Value)

		case isChar(tok, ":") && next != nil && next.Type == scanner.TokenFunction && isScopeFunction(next.Value):
			end := closingParen(toks, i+1)
			if end < 0 {
				return zerr.With(zerr.New("unclosed "+next.Value), "line", next.Line)
			}
			if err := c.localize(toks[i+2:end], scopeOf(next.Value), b, info); err != nil {
				return err
			}
			i = end

		case isChar(tok, ":") && next != nil && (isIdent(next, "global") || isIdent(next, "local")):
			mode = domain.ScopeMode(strings.ToLower(next.Value))
			i++
			// ":global .a" renders as ".a", not " .a".
			if out := b.String(); out == "" || strings.HasSuffix(out, " ") {
				for i+1 < len(toks) && toks[i+1].Type == scanner.TokenS {
					i++
				}
			}

		case isChar(tok, ".") && next != nil && next.Type == scanner.TokenIdent:
			b.WriteString(".")
			if mode == domain.ScopeLocal {
				b.WriteString(c.class(next.Value))
				info.locals = append(info.locals, next.Value)
			} else {
				b.WriteString(next.Value)
				info.globals++
			}
			i++

		case tok.Type == scanner.TokenHash && mode == domain.ScopeLocal:
			b.WriteString("#" + c.id(strings.TrimPrefix(tok.Value, "#")))

		case isChar(tok, "["):
			for ; i < len(toks); i++ {
				b.WriteString(toks[i].Value)
				if isChar(toks[i], "]") {
					break
				}
			}

		default:
			b.WriteString(tok.Value)
		}
	}
	return nil
}

// isSingleClass reports whether a selector is exactly ".name" or ":local(.name)".
func isSingleClass(toks []*scanner.Token) bool {
	ws := words(toks)
	switch len(ws) {
	case 2:
		return isChar(ws[0], ".") && ws[1].Type == scanner.TokenIdent
	case 5:
		return isChar(ws[0], ":") && ws[1].Type == scanner.TokenFunction && strings.EqualFold(ws[1].Value, "local(") &&
			isChar(ws[2], ".") && ws[3].Type == scanner.TokenIdent && isChar(ws[4], ")")
	}
	return false
}

func isScopeFunction(fn string) bool {
	fn = strings.ToLower(fn)
	return fn == "global(" || fn == "local("
}

func scopeOf(fn string) domain.ScopeMode {
	return domain.ScopeMode(strings.TrimSuffix(strings.ToLower(fn), "("))
}

// closingParen returns the index of the ")" matching the function token at open.
func closingParen(toks []*scanner.Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch {
		case toks[i].Type == scanner.TokenFunction, isChar(toks[i], "("):
			depth++
		case isChar(toks[i], ")"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func peek(toks []*scanner.Token, i int) *scanner.Token {
	if i < len(toks) {
		return toks[i]
	}
	return nil
}
