package rodpage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/domfinder/internal/dom"
	"github.com/GriffinCanCode/domfinder/internal/finder"
	"github.com/GriffinCanCode/domfinder/internal/selector"
)

const page = `<html><body>
<form>
  <label for="email">Email</label><input id="email" value="a@b.c">
  <select id="color"><option>Red</option><option selected>Blue</option></select>
  <input type="checkbox" id="terms" checked>
</form>
<p class="x" style="display:none">hidden</p><p class="x">shown</p>
</body></html>`

const appendLater = `() => setTimeout(() => {
  const el = document.createElement('div');
  el.id = 'late';
  el.textContent = 'arrived';
  document.body.appendChild(el);
}, 150)`

func TestBackendBasics(t *testing.T) {
	b := New(nil)
	assert.Equal(t, "rod", b.Name())
	assert.True(t, b.Dynamic())

	_, err := b.Query(context.Background(), fakeNode{}, dom.CSS("p"))
	assert.ErrorIs(t, err, dom.ErrForeignNode)
}

// TestLivePage needs a local Chrome; set DOMFIND_ROD=1 to run it.
func TestLivePage(t *testing.T) {
	if os.Getenv("DOMFIND_ROD") == "" {
		t.Skip("DOMFIND_ROD not set")
	}

	browser := rod.New()
	require.NoError(t, browser.Connect())
	defer browser.Close()

	p, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	require.NoError(t, err)
	require.NoError(t, p.SetDocumentContent(page))

	ctx := context.Background()
	b := New(p)
	root, err := b.Root(ctx)
	require.NoError(t, err)

	xs, err := b.Query(ctx, root, dom.CSS("p.x"))
	require.NoError(t, err)
	require.Len(t, xs, 2)
	assert.False(t, xs[0].Visible())
	assert.True(t, xs[1].Visible())
	assert.Equal(t, "shown", xs[1].Text())

	sel, err := b.Query(ctx, root, dom.XPath(".//select"))
	require.NoError(t, err)
	require.Len(t, sel, 1)
	assert.Equal(t, "select", sel[0].TagName())
	assert.Equal(t, []string{"Blue"}, sel[0].Selected())

	opts, err := b.Query(ctx, sel[0], dom.CSS("option"))
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, []string{}, opts[0].Selected())

	s := finder.New(b)
	email, err := s.FindField(ctx, "Email")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", email.Value())

	terms, err := s.Find(ctx, selector.Checkbox, "terms")
	require.NoError(t, err)
	assert.True(t, terms.Checked())

	_, err = p.Eval(appendLater)
	require.NoError(t, err)
	late, err := s.Find(ctx, "#late", selector.Options{Wait: selector.Wait(5 * time.Second)})
	require.NoError(t, err)
	assert.Equal(t, "arrived", late.Text())
}

type fakeNode struct{ dom.Node }
