package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/domfinder/internal/finder"
)

const page = `<!DOCTYPE html>
<html><body>
  <nav><a id="home" href="/">Home</a> <a href="/docs">Docs</a></nav>
  <form>
    <label for="email">Email</label>
    <input id="email" name="email" value="a@b.c">
    <input type="checkbox" id="terms" name="terms" checked>
    <button id="save">Save</button>
    <div style="display:none"><a href="/secret">Docs hidden</a></div>
  </form>
</body></html>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFindCommand(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.html", page)

	out, err := execute(t, "find", "--file", file, "field", "Email")
	require.NoError(t, err)
	assert.Equal(t, "input#email[name=email]\n", out)

	out, err = execute(t, "find", "--file", file, "#save")
	require.NoError(t, err)
	assert.Equal(t, "button#save \"Save\"\n", out)
}

func TestFindCommandNotFound(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.html", page)

	_, err := execute(t, "find", "--file", file, "button", "Delete")
	require.Error(t, err)
	assert.ErrorIs(t, err, finder.ErrElementNotFound)
	assert.Equal(t, `Unable to find button "Delete"`, err.Error())
}

func TestFirstCommandNoMatch(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.html", page)

	out, err := execute(t, "first", "--file", file, "table", "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAllCommandJSON(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.html", page)

	out, err := execute(t, "all", "--file", file, "--json", "link", "Docs")
	require.NoError(t, err)

	var got []elementView
	require.NoError(t, sonic.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Docs", got[0].Text)
	assert.True(t, got[0].Visible)
	assert.False(t, got[1].Visible)

	out, err = execute(t, "all", "--file", file, "--json", "--visible", "link", "Docs")
	require.NoError(t, err)
	require.NoError(t, sonic.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 1)
}

func TestLookupFlags(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.html", page)

	tests := []struct {
		name string
		args []string
		want string
		err  string
	}{
		{
			name: "filter",
			args: []string{"all", "--file", file, "--filter", "checked=true", "checkbox", ""},
			want: "input#terms[name=terms]\n",
		},
		{
			name: "regex locator",
			args: []string{"first", "--file", file, "--regex", "link", "^Ho"},
			want: "a#home \"Home\"\n",
		},
		{
			name: "text",
			args: []string{"all", "--file", file, "--text", "Save", "button"},
			want: "button#save \"Save\"\n",
		},
		{
			name: "unknown filter",
			args: []string{"all", "--file", file, "--filter", "color=red", "link", "Docs"},
			err:  "invalid filter option",
		},
		{
			name: "unknown kind",
			args: []string{"all", "--file", file, "widget", "x"},
			err:  "unknown selector kind",
		},
		{
			name: "cdp with file",
			args: []string{"find", "--file", file, "--cdp", "ws://127.0.0.1:9222/devtools/browser/x", "#save"},
			err:  "[cdp file]",
		},
		{
			name: "bad regex",
			args: []string{"all", "--file", file, "--regex", "link", "("},
			err:  "invalid locator pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestStdinInput(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(page))
	cmd.SetArgs([]string{"find", "id", "home"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "a#home \"Home\"\n", out.String())
}

func TestScriptedLookup(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "app.html", `<html><body><div id="app"></div>
<script>
setTimeout(function() {
  var b = document.createElement("button");
  b.setAttribute("id", "late");
  b.textContent = "Ready";
  document.getElementById("app").appendChild(b);
}, 50);
</script></body></html>`)

	out, err := execute(t, "find", "--file", file, "--js", "--wait", "2s", "button", "Ready")
	require.NoError(t, err)
	assert.Equal(t, "button#late \"Ready\"\n", out)

	// static parsing never runs the script
	_, err = execute(t, "find", "--file", file, "--wait", "100ms", "button", "Ready")
	assert.ErrorIs(t, err, finder.ErrElementNotFound)
}

func TestScriptFlag(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "page.html", `<html><body><main></main></body></html>`)
	script := writeFile(t, dir, "add.js", `
var p = document.createElement("p");
p.textContent = "added";
document.querySelector("main").appendChild(p);
`)

	out, err := execute(t, "find", "--file", file, "--script", script, "css", "main p")
	require.NoError(t, err)
	assert.Equal(t, "p \"added\"\n", out)
}

func TestHTMLOutputIsSanitized(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.html",
		`<html><body><div id="x"><b onclick="evil()">hi</b><script>alert(1)</script></div></body></html>`)

	out, err := execute(t, "find", "--file", file, "--html", "#x")
	require.NoError(t, err)
	assert.Contains(t, out, "<b>hi</b>")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "alert")
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", page)
	writeFile(t, dir, "sub/other.htm", `<html><body><a href="/docs">Docs</a></body></html>`)
	writeFile(t, dir, "notes.txt", "Docs")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`<html><body><p>archived</p><a href="/d">Docs</a></body></html>`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	writeFile(t, dir, "old/archive.html.gz", buf.String())

	out, err := execute(t, "scan", dir, "--json", "link", "Docs")
	require.NoError(t, err)

	var results []fileResult
	require.NoError(t, sonic.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)

	counts := map[string]int{}
	for _, r := range results {
		assert.Empty(t, r.Error)
		counts[r.Path] = len(r.Elements)
	}
	assert.Equal(t, map[string]int{
		"index.html":          2,
		"old/archive.html.gz": 1,
		"sub/other.htm":       1,
	}, counts)
}

func TestScanGlobAndTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", page)
	writeFile(t, dir, "sub/b.html", page)

	out, err := execute(t, "scan", dir, "--glob", "sub/**/*.html", "id", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "sub/b.html")
	assert.NotContains(t, out, "a.html")
	// footers render upper case
	assert.Contains(t, strings.ToLower(out), "1 matches in 1 files")

	_, err = execute(t, "scan", dir, "--glob", "[", "id", "save")
	assert.Error(t, err)
}

func TestScanSkipsNonHTML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fake.html", "just some plain text")

	out, err := execute(t, "scan", dir, "--json", "css", "p")
	require.NoError(t, err)

	var results []fileResult
	require.NoError(t, sonic.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Error, "not an html document")
}

func TestKindsCommand(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "kinds.yaml", `kinds:
  - name: nav_link
    label: navigation link
    xpath:
      - ".//nav//a[contains(normalize-space(string(.)), {locator})]"
`)

	out, err := execute(t, "kinds", "--selectors", defs)
	require.NoError(t, err)
	for _, want := range []string{"field", "link_or_button", "checked, type, unchecked, with", "nav_link", "navigation link"} {
		assert.Contains(t, out, want)
	}

	file := writeFile(t, dir, "page.html", page)
	out, err = execute(t, "find", "--selectors", defs, "--file", file, "nav_link", "Docs")
	require.NoError(t, err)
	assert.Equal(t, "a \"Docs\"\n", out)
}

func TestMetricsFlag(t *testing.T) {
	file := writeFile(t, t.TempDir(), "page.html", page)

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"find", "--metrics", "--file", file, "#save"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, errOut.String(), `domfind_lookups_total{kind="css",op="find",outcome="found"} 1`)
}
