package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/domfinder/internal/dom"
)

// LocatorPlaceholder is replaced by the quoted locator in definition templates
const LocatorPlaceholder = "{locator}"

// Definition declares a selector kind in a YAML or TOML file.
//
//	kinds:
//	  - name: nav_link
//	    label: navigation link
//	    xpath:
//	      - ".//nav//a[contains(normalize-space(string(.)), {locator})]"
type Definition struct {
	Name  string   `yaml:"name" toml:"name"`
	Label string   `yaml:"label" toml:"label"`
	XPath []string `yaml:"xpath" toml:"xpath"`
	CSS   []string `yaml:"css" toml:"css"`
}

type definitionFile struct {
	Kinds []Definition `yaml:"kinds" toml:"kinds"`
}

// Kind compiles the definition. XPath templates receive the locator as an
// XPath literal; CSS templates receive it verbatim.
func (d Definition) Kind() (*Kind, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: definition without name", ErrInvalidKind)
	}
	if len(d.XPath) == 0 && len(d.CSS) == 0 {
		return nil, fmt.Errorf("%w: %s defines no expressions", ErrInvalidKind, d.Name)
	}

	xpaths := append([]string(nil), d.XPath...)
	css := append([]string(nil), d.CSS...)
	return &Kind{
		Name:  Name(d.Name),
		Label: d.Label,
		Expressions: func(locator string) []dom.Expression {
			exprs := make([]dom.Expression, 0, len(xpaths)+len(css))
			for _, tmpl := range xpaths {
				exprs = append(exprs, dom.XPath(strings.ReplaceAll(tmpl, LocatorPlaceholder, Literal(locator))))
			}
			for _, tmpl := range css {
				exprs = append(exprs, dom.CSS(strings.ReplaceAll(tmpl, LocatorPlaceholder, locator)))
			}
			return exprs
		},
	}, nil
}

// ParseDefinitions decodes a definition document; format is "yaml" or "toml"
func ParseDefinitions(data []byte, format string) ([]Definition, error) {
	var file definitionFile
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse selector definitions: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse selector definitions: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported definition format %q", format)
	}
	return file.Kinds, nil
}

// LoadDefinitions reads path and registers every kind it declares
func (r *Registry) LoadDefinitions(path string) ([]Name, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	defs, err := ParseDefinitions(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	names := make([]Name, 0, len(defs))
	for _, def := range defs {
		kind, err := def.Kind()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := r.Register(kind); err != nil {
			return nil, err
		}
		names = append(names, kind.Name)
	}
	return names, nil
}
