package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

// ErrInvalidCatalog is returned when catalog data is incomplete or malformed.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Menu is a rendered single-choice question.
type Menu struct {
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices"`
	RetryPrompt string   `json:"retry_prompt,omitempty"`
}

// MenuSpec is the serialized form of a menu.
type MenuSpec struct {
	Prompt  string   `yaml:"prompt" json:"prompt"`
	Choices []string `yaml:"choices" json:"choices"`
	Retry   string   `yaml:"retry,omitempty" json:"retry,omitempty"`
}

// Document is the serialized form of a catalog (see catalog.yaml).
type Document struct {
	Items    MenuSpec            `yaml:"items" json:"items"`
	Subtypes map[string]MenuSpec `yaml:"subtypes" json:"subtypes"`
	Fallback string              `yaml:"fallback" json:"fallback"`
	Malls    MenuSpec            `yaml:"malls" json:"malls"`
}

type menu struct {
	spec MenuSpec
	tmpl *template.Template
}

// Catalog is an immutable, validated set of menus. Safe for concurrent use.
type Catalog struct {
	doc      Document
	items    menu
	subtypes map[string]menu
	fallback menu
	malls    menu
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(bytes.NewReader(defaultData))
})

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load parses and validates a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(doc)
}

// New validates a Document and compiles its prompt templates.
func New(doc Document) (*Catalog, error) {
	c := &Catalog{
		subtypes: make(map[string]menu, len(doc.Subtypes)),
	}

	var err error
	if c.items, err = compile("items", doc.Items); err != nil {
		return nil, err
	}
	if c.malls, err = compile("malls", doc.Malls); err != nil {
		return nil, err
	}

	normalized := make(map[string]MenuSpec, len(doc.Subtypes))
	for key, spec := range doc.Subtypes {
		k := strings.ToLower(strings.TrimSpace(key))
		m, err := compile("subtypes."+k, spec)
		if err != nil {
			return nil, err
		}
		c.subtypes[k] = m
		normalized[k] = spec
	}
	doc.Subtypes = normalized

	doc.Fallback = strings.ToLower(strings.TrimSpace(doc.Fallback))
	fb, ok := c.subtypes[doc.Fallback]
	if !ok {
		return nil, fmt.Errorf("%w: fallback %q has no sub-type menu", ErrInvalidCatalog, doc.Fallback)
	}
	c.fallback = fb
	c.doc = doc
	return c, nil
}

func compile(name string, spec MenuSpec) (menu, error) {
	if strings.TrimSpace(spec.Prompt) == "" {
		return menu{}, fmt.Errorf("%w: %s: prompt is empty", ErrInvalidCatalog, name)
	}
	if len(spec.Choices) == 0 {
		return menu{}, fmt.Errorf("%w: %s: no choices", ErrInvalidCatalog, name)
	}
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(spec.Prompt)
	if err != nil {
		return menu{}, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}
	return menu{spec: spec, tmpl: tmpl}, nil
}

// ItemMenu returns the top-level item question.
func (c *Catalog) ItemMenu(name string) Menu {
	return c.items.render(name)
}

// SubtypeMenu returns the sub-type question for an item.
// Matching is case-insensitive; unknown items get the fallback menu.
func (c *Catalog) SubtypeMenu(item, name string) Menu {
	if m, ok := c.subtypes[strings.ToLower(strings.TrimSpace(item))]; ok {
		return m.render(name)
	}
	return c.fallback.render(name)
}

// MallMenu returns the retailer question.
func (c *Catalog) MallMenu(name string) Menu {
	return c.malls.render(name)
}

// Document returns a copy of the catalog data (e.g. for introspection).
func (c *Catalog) Document() Document {
	doc := c.doc
	doc.Subtypes = make(map[string]MenuSpec, len(c.doc.Subtypes))
	for k, v := range c.doc.Subtypes {
		doc.Subtypes[k] = v
	}
	return doc
}

func (m menu) render(name string) Menu {
	prompt := m.spec.Prompt
	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, struct{ Name string }{Name: name}); err == nil {
		prompt = buf.String()
	}
	return Menu{
		Prompt:      prompt,
		Choices:     append([]string(nil), m.spec.Choices...),
		RetryPrompt: m.spec.Retry,
	}
}
