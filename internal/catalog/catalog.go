// Package catalog holds the static registry of AI tool descriptors.
// The registry is loaded from an embedded YAML document at startup and is
// read-only afterwards.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"
)

//go:embed tools.yaml
var embeddedTools []byte

const searchCacheSize = 128

// Category groups related tools.
type Category struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Tool describes one catalog entry and how it shapes a prompt.
type Tool struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	InputLabel  string   `yaml:"input_label"`
	Placeholder string   `yaml:"placeholder"`
	HasStyle    bool     `yaml:"has_style"`
	HasLang     bool     `yaml:"has_lang"`
	HasOptions  bool     `yaml:"has_options"`
	Options     []string `yaml:"options"`
	Premium     bool     `yaml:"premium"`
	Prompt      string   `yaml:"prompt"`
}

// HasOption reports whether opt is one of the tool's options.
func (t Tool) HasOption(opt string) bool {
	for _, o := range t.Options {
		if o == opt {
			return true
		}
	}
	return false
}

func (t Tool) clone() Tool {
	t.Options = append([]string(nil), t.Options...)
	return t
}

func cloneTools(tools []Tool) []Tool {
	out := make([]Tool, len(tools))
	for i, t := range tools {
		out[i] = t.clone()
	}
	return out
}

type document struct {
	Categories []Category `yaml:"categories"`
	Tools      []Tool     `yaml:"tools"`
}

// Catalog is the tool registry. It is safe for concurrent use.
type Catalog struct {
	categories []Category
	tools      []Tool
	byID       map[string]int
	catIndex   map[string]int
	templates  map[string]*template.Template
	cache      *lru.Cache[string, []Tool]
}

var (
	ErrEmptyInput    = errors.New("input is empty")
	ErrInvalidOption = errors.New("option not offered by tool")
	errInvalidData   = errors.New("invalid catalog data")
)

// Load builds the catalog from the embedded tool document.
func Load() (*Catalog, error) {
	return Parse(embeddedTools)
}

// MustLoad is Load for process start; the embedded data is validated by tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from a YAML document and validates it.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidData, err)
	}
	return New(doc.Categories, doc.Tools)
}

// New validates categories and tools and returns the registry.
func New(categories []Category, tools []Tool) (*Catalog, error) {
	cache, err := lru.New[string, []Tool](searchCacheSize)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		categories: append([]Category(nil), categories...),
		tools:      make([]Tool, 0, len(tools)),
		byID:       make(map[string]int, len(tools)),
		catIndex:   make(map[string]int, len(categories)),
		templates:  make(map[string]*template.Template),
		cache:      cache,
	}

	for i, cat := range c.categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("%w: category %d has no id", errInvalidData, i)
		}
		if _, dup := c.catIndex[cat.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", errInvalidData, cat.ID)
		}
		c.catIndex[cat.ID] = i
	}

	for _, t := range tools {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("%w: tool %q has no id", errInvalidData, t.Name)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate tool %q", errInvalidData, t.ID)
		}
		if _, ok := c.catIndex[t.Category]; !ok {
			return nil, fmt.Errorf("%w: tool %q has unknown category %q", errInvalidData, t.ID, t.Category)
		}
		if t.HasOptions && len(t.Options) == 0 {
			return nil, fmt.Errorf("%w: tool %q declares options but lists none", errInvalidData, t.ID)
		}
		tmpl, err := parseTemplate(t)
		if err != nil {
			return nil, fmt.Errorf("%w: tool %q: %w", errInvalidData, t.ID, err)
		}
		t.Options = append([]string(nil), t.Options...)
		c.templates[t.ID] = tmpl
		c.byID[t.ID] = len(c.tools)
		c.tools = append(c.tools, t)
	}

	return c, nil
}

// Lookup returns the tool with the given id.
func (c *Catalog) Lookup(id string) (Tool, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Tool{}, false
	}
	return c.tools[i].clone(), true
}

// ByCategory returns the tools in a category in catalog order.
// An unknown category yields an empty result.
func (c *Catalog) ByCategory(categoryID string) []Tool {
	out := []Tool{}
	for _, t := range c.tools {
		if t.Category == categoryID {
			out = append(out, t.clone())
		}
	}
	return out
}

// Search matches query case-insensitively against name and description.
// The query is matched as given, surrounding spaces included. A blank query
// returns the whole catalog.
func (c *Catalog) Search(query string) []Tool {
	if strings.TrimSpace(query) == "" {
		return c.All()
	}
	q := strings.ToLower(query)
	if hit, ok := c.cache.Get(q); ok {
		return cloneTools(hit)
	}

	out := []Tool{}
	for _, t := range c.tools {
		if strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	c.cache.Add(q, out)
	return cloneTools(out)
}

// Browse is the explorer view: a non-blank query searches the whole catalog,
// otherwise the selected category is listed.
func (c *Catalog) Browse(categoryID, query string) []Tool {
	if strings.TrimSpace(query) != "" {
		return c.Search(query)
	}
	return c.ByCategory(categoryID)
}

// Categories returns all categories in declaration order.
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (Category, bool) {
	i, ok := c.catIndex[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// All returns every tool in catalog order.
func (c *Catalog) All() []Tool {
	return cloneTools(c.tools)
}

// Len returns the number of tools.
func (c *Catalog) Len() int { return len(c.tools) }
