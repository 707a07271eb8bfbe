package selector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/domfinder/internal/dom"
)

const yamlDefinitions = `
kinds:
  - name: nav_link
    label: navigation link
    xpath:
      - ".//nav//a[contains(normalize-space(string(.)), {locator})]"
  - name: card
    css:
      - "div.card[data-title='{locator}']"
`

const tomlDefinitions = `
[[kinds]]
name = "nav_link"
label = "navigation link"
xpath = [".//nav//a[contains(normalize-space(string(.)), {locator})]"]
`

func TestParseDefinitions(t *testing.T) {
	defs, err := ParseDefinitions([]byte(yamlDefinitions), "yaml")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "nav_link", defs[0].Name)
	assert.Equal(t, []string{"div.card[data-title='{locator}']"}, defs[1].CSS)

	defs, err = ParseDefinitions([]byte(tomlDefinitions), "toml")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "navigation link", defs[0].Label)

	_, err = ParseDefinitions([]byte("{}"), "json")
	assert.Error(t, err)
}

func TestDefinitionKind(t *testing.T) {
	kind, err := Definition{
		Name:  "nav_link",
		XPath: []string{".//nav//a[. = {locator}]"},
		CSS:   []string{"a[title='{locator}']"},
	}.Kind()
	require.NoError(t, err)

	exprs := kind.Expressions(`it's`)
	assert.Equal(t, []dom.Expression{
		dom.XPath(`.//nav//a[. = "it's"]`),
		dom.CSS(`a[title='it's']`),
	}, exprs)

	_, err = Definition{Name: "empty"}.Kind()
	assert.ErrorIs(t, err, ErrInvalidKind)
	_, err = Definition{XPath: []string{"."}}.Kind()
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kinds.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDefinitions), 0o644))

	reg := DefaultRegistry()
	names, err := reg.LoadDefinitions(path)
	require.NoError(t, err)
	assert.Equal(t, []Name{"nav_link", "card"}, names)

	args, _ := Normalize([]any{Name("nav_link"), "Home"}, false)
	sel, err := New(reg, args, CSS)
	require.NoError(t, err)
	assert.Equal(t, `navigation link "Home"`, sel.String())
	assert.Equal(t, ".//nav//a[contains(normalize-space(string(.)), 'Home')]", sel.Expressions()[0].Source)

	_, err = reg.LoadDefinitions(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
