package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

const (
	// Fallback is the language consulted when a key is missing from the
	// active table.
	Fallback = "en"
	// Portuguese is the Brazilian Portuguese table.
	Portuguese = "pt-br"
)

// Params holds interpolation values for {name} placeholders.
type Params map[string]any

// Language describes one supported language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var supported = []Language{
	{Code: Fallback, Name: "English"},
	{Code: Portuguese, Name: "Português (BR)"},
}

var (
	supportedTags = []language.Tag{language.English, language.BrazilianPortuguese}
	tagMatcher    = language.NewMatcher(supportedTags)
	placeholder   = regexp.MustCompile(`\{(\w+)\}`)
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

var defaultCatalog = mustLoadEmbedded()

// Languages returns the supported languages with their native names.
func Languages() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Normalize maps a language code to a supported table code. Region and
// separator variants collapse (pt, pt-BR, pt_br all become pt-br); anything
// unrecognised becomes Fallback.
func Normalize(code string) string {
	if matched, ok := match(code); ok {
		return matched
	}
	return Fallback
}

func match(code string) (string, bool) {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	_, index, confidence := tagMatcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	return supported[index].Code, true
}

// Catalog holds one parsed translation table per language code.
type Catalog struct {
	tables map[string]*Node
}

// Default returns the catalog built from the embedded locale files.
func Default() *Catalog {
	return defaultCatalog
}

func mustLoadEmbedded() *Catalog {
	catalog, err := LoadFS(embeddedLocales, "locales")
	if err != nil {
		panic(err)
	}
	return catalog
}

// LoadFS reads every dir/*.yaml file of fsys; the file name is the language
// code.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob translation tables: %w", err)
	}
	tables := make(map[string]*Node, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		table, err := ParseTable(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		tables[strings.TrimSuffix(path.Base(p), ".yaml")] = table
	}
	return NewCatalog(tables)
}

// NewCatalog builds a catalog from parsed tables. The fallback table is
// required.
func NewCatalog(tables map[string]*Node) (*Catalog, error) {
	if _, ok := tables[Fallback]; !ok {
		return nil, fmt.Errorf("missing %q translation table", Fallback)
	}
	c := &Catalog{tables: make(map[string]*Node, len(tables))}
	for code, table := range tables {
		c.tables[strings.ToLower(code)] = table
	}
	return c, nil
}

// Has reports whether a table exists for code.
func (c *Catalog) Has(code string) bool {
	_, ok := c.tables[code]
	return ok
}

// Codes returns the language codes of the loaded tables, sorted.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.tables))
	for code := range c.tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Missing returns the leaf keys of the fallback table that code lacks.
func (c *Catalog) Missing(code string) []string {
	table, ok := c.tables[code]
	var missing []string
	for _, key := range c.tables[Fallback].Keys() {
		if !ok {
			missing = append(missing, key)
			continue
		}
		if node, found := table.Walk(strings.Split(key, ".")); !found || !node.Leaf() {
			missing = append(missing, key)
		}
	}
	return missing
}

// Resolve returns the text for a dotted key in the given language.
//
// The walk restarts against the fallback table when any segment is missing
// from the active one. If that walk fails too, or the key names a branch
// rather than a leaf, the key itself is returned.
func (c *Catalog) Resolve(code, key string, params Params) string {
	segments := strings.Split(key, ".")

	node, ok := c.tables[code].Walk(segments)
	if !ok {
		node, ok = c.tables[Fallback].Walk(segments)
		if !ok {
			return key
		}
	}
	if !node.Leaf() {
		return key
	}
	return Interpolate(node.Text(), params)
}

// Interpolate replaces each {name} with params[name]. Placeholders without a
// parameter stay as they are; a parameter present with a nil value renders
// as "null".
func Interpolate(text string, params Params) string {
	if len(params) == 0 || !strings.Contains(text, "{") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		value, ok := params[m[1:len(m)-1]]
		if !ok {
			return m
		}
		if value == nil {
			return "null"
		}
		return fmt.Sprint(value)
	})
}
