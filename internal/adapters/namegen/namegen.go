// Package namegen provides the scoped class name generators.
package namegen

import (
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// ProdHashLength is the number of base36 digits in production names.
	ProdHashLength = 5
	// EnvVar selects the production generator when set to "production".
	EnvVar = "MODCSS_ENV"
	// NodeEnvVar is honoured as a fallback to EnvVar.
	NodeEnvVar = "NODE_ENV"

	productionEnv = "production"
)

var (
	extPattern     = regexp.MustCompile(`\.[^./\\]+$`)
	nonWordPattern = regexp.MustCompile(`[\W_]+`)
)

var (
	_ ports.NameGenerator = (*Dev)(nil)
	_ ports.NameGenerator = (*Prod)(nil)
	_ ports.NameGenerator = (*Pattern)(nil)
)

// New returns the generator selected by cfg.
// An unset mode picks Prod when the environment says production and Dev otherwise.
func New(cfg *domain.Config) (ports.NameGenerator, error) {
	mode := cfg.NameMode
	if mode == "" {
		mode = ModeFromEnv()
	}

	switch mode {
	case domain.NameModeDev:
		return NewDev(cfg.Root), nil
	case domain.NameModeProd:
		return NewProd(), nil
	case domain.NameModePattern:
		return NewPattern(cfg.Root, cfg.NamePattern)
	default:
		return nil, zerr.With(domain.ErrUnknownNameMode, "mode", string(mode))
	}
}

// ModeFromEnv reports the name mode implied by MODCSS_ENV or NODE_ENV.
func ModeFromEnv() domain.NameMode {
	env := os.Getenv(EnvVar)
	if env == "" {
		env = os.Getenv(NodeEnvVar)
	}
	if env == productionEnv {
		return domain.NameModeProd
	}
	return domain.NameModeDev
}

// Dev builds readable names from the file path relative to the root,
// for example "_src_components_button__primary".
type Dev struct {
	root string
}

// NewDev creates a Dev generator for paths below root.
func NewDev(root string) *Dev {
	return &Dev{root: root}
}

// Generate implements ports.NameGenerator.
func (g *Dev) Generate(local string, file domain.FileID, _ string) string {
	return "_" + sanitizePath(file.Rel(g.root)) + "__" + local
}

func sanitizePath(rel string) string {
	rel = extPattern.ReplaceAllString(rel, "")
	rel = nonWordPattern.ReplaceAllString(rel, "_")
	rel = strings.TrimPrefix(rel, "_")
	return strings.TrimSuffix(rel, "_")
}

// Prod builds short names from a hash of the source and the line the class
// first appears on, for example "_primary_1x9ab_3".
type Prod struct{}

// NewProd creates a Prod generator.
func NewProd() *Prod {
	return &Prod{}
}

// Generate implements ports.NameGenerator.
func (g *Prod) Generate(local string, _ domain.FileID, css string) string {
	return "_" + local + "_" + hash(css, ProdHashLength) + "_" + strconv.Itoa(firstLine(css, local))
}

// firstLine returns the 1-based line of the first ".local" in css.
// Every CR and LF counts as a line break. A class that never appears is on line 1.
func firstLine(css, local string) int {
	i := strings.Index(css, "."+local)
	if i < 0 {
		return 1
	}
	return 1 + strings.Count(css[:i], "\n") + strings.Count(css[:i], "\r")
}

// hash returns the first n base36 digits of the xxhash of s.
// n <= 0 returns every digit.
func hash(s string, n int) string {
	digits := strconv.FormatUint(xxhash.Sum64String(s), 36)
	if n > 0 && n < len(digits) {
		return digits[:n]
	}
	return digits
}

var (
	placeholderPattern = regexp.MustCompile(`\[(name|local|path|hash)(?::[a-z][a-z0-9]*)?(?::(\d+))?\]`)
	invalidCharPattern = regexp.MustCompile(`[^a-zA-Z0-9\-_\x{00A0}-\x{FFFF}]`)
	leadingPattern     = regexp.MustCompile(`^(-?[0-9]|--)`)
)

// Pattern expands a template such as "[name]__[local]___[hash:5]".
//
// [name] is the file name without extension, [path] the directory relative to
// the root, [local] the class and [hash] a base36 hash of the relative path and
// class. A digest name like [hash:base64:5] is accepted and ignored.
// Characters not valid in a class name become "-".
type Pattern struct {
	root    string
	pattern string
}

// NewPattern validates pattern and creates a Pattern generator.
func NewPattern(root, pattern string) (*Pattern, error) {
	if !strings.Contains(pattern, "[local]") && !strings.Contains(pattern, "[hash") {
		return nil, zerr.With(zerr.New("name pattern must contain [local] or [hash]"), "pattern", pattern)
	}
	return &Pattern{root: root, pattern: pattern}, nil
}

// Generate implements ports.NameGenerator.
func (g *Pattern) Generate(local string, file domain.FileID, _ string) string {
	rel := file.Rel(g.root)
	dir, base := path.Split(rel)
	name := strings.TrimSuffix(base, path.Ext(base))

	out := placeholderPattern.ReplaceAllStringFunc(g.pattern, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		switch sub[1] {
		case "name":
			return name
		case "local":
			return local
		case "path":
			return dir
		default:
			n, _ := strconv.Atoi(sub[2])
			return hash(rel+"\x00"+local, n)
		}
	})

	out = invalidCharPattern.ReplaceAllString(out, "-")
	return leadingPattern.ReplaceAllString(out, "_$1")
}
