package scripted

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"golang.org/x/net/html"

	"github.com/GriffinCanCode/domfinder/internal/dom"
	"github.com/GriffinCanCode/domfinder/internal/dom/htmldoc"
)

// Page is a document whose inline scripts run in a goja VM. Scripts may
// mutate the tree immediately or later through setTimeout/setInterval;
// pending timers that are due fire before every query.
type Page struct {
	mu     sync.Mutex
	vm     *goja.Runtime
	root   *html.Node
	config Config
	now    func() time.Time
	closed bool

	timers  []*timer
	timerID int64

	console   []LogEntry
	consoleMu sync.Mutex

	wrappers map[*html.Node]*goja.Object
	nodes    map[*goja.Object]*html.Node
}

// New creates a page over an already parsed tree without running any script
func New(root *html.Node, config Config) (*Page, error) {
	p := &Page{
		vm:       goja.New(),
		root:     root,
		config:   config,
		now:      time.Now,
		wrappers: make(map[*html.Node]*goja.Object),
		nodes:    make(map[*goja.Object]*html.Node),
	}

	if config.MaxCallStackSize > 0 {
		p.vm.SetMaxCallStackSize(config.MaxCallStackSize)
	}
	if err := p.setupGlobals(); err != nil {
		return nil, err
	}
	return p, nil
}

// Load parses src and runs its inline scripts in document order
func Load(ctx context.Context, src string, config Config) (*Page, error) {
	root, err := htmldoc.Parse([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	p, err := New(root, config)
	if err != nil {
		return nil, err
	}
	for _, script := range inlineScripts(root) {
		if _, err := p.Run(ctx, script); err != nil {
			return nil, fmt.Errorf("inline script: %w", err)
		}
	}
	return p, nil
}

// Run executes script against the page and returns its exported value
func (p *Page) Run(ctx context.Context, script string) (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	val, err := p.guard(ctx, func() (goja.Value, error) {
		return p.vm.RunString(script)
	})
	if err != nil {
		return nil, err
	}
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, nil
	}
	return val.Export(), nil
}

// Console returns accumulated console output
func (p *Page) Console() []LogEntry {
	p.consoleMu.Lock()
	defer p.consoleMu.Unlock()
	return append([]LogEntry{}, p.console...)
}

// Pending returns the number of scheduled timers
func (p *Page) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

// Close releases the VM; later queries fail with ErrClosed
func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.timers = nil
	p.vm = nil
	return nil
}

// Name identifies the backend in logs and metrics
func (p *Page) Name() string { return "scripted" }

// Dynamic is true; timers may change the page between queries
func (p *Page) Dynamic() bool { return true }

// Root returns the document node
func (p *Page) Root(ctx context.Context) (dom.Node, error) {
	return p.node(p.root), nil
}

// Query fires due timers, then evaluates expr below scope
func (p *Page) Query(ctx context.Context, scope dom.Node, expr dom.Expression) ([]dom.Node, error) {
	n, ok := scope.(*Node)
	if !ok || n.page != p {
		return nil, dom.ErrForeignNode
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	p.fireDue(ctx)

	matches, err := htmldoc.Select(n.Raw(), expr)
	if err != nil {
		return nil, err
	}
	nodes := make([]dom.Node, 0, len(matches))
	for _, m := range matches {
		nodes = append(nodes, p.node(m))
	}
	return nodes, nil
}

// guard runs fn with the configured timeout; callers hold p.mu
func (p *Page) guard(ctx context.Context, fn func() (goja.Value, error)) (goja.Value, error) {
	done := make(chan struct{})
	stopped := make(chan struct{})

	timeout := p.config.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	vm := p.vm
	go func() {
		defer close(stopped)
		select {
		case <-timer.C:
			vm.Interrupt(ErrTimeout)
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := fn()

	// the watcher must be gone before the interrupt flag is cleared
	close(done)
	<-stopped
	vm.ClearInterrupt()
	return val, err
}

func (p *Page) setupGlobals() error {
	p.vm.Set("require", goja.Undefined())
	p.vm.Set("process", goja.Undefined())
	p.vm.Set("module", goja.Undefined())
	p.vm.Set("exports", goja.Undefined())

	if p.config.EnableConsole {
		console := p.vm.NewObject()
		for _, level := range []string{"log", "warn", "error", "info"} {
			if err := console.Set(level, p.makeConsoleFunc(level)); err != nil {
				return err
			}
		}
		if err := p.vm.Set("console", console); err != nil {
			return err
		}
	}

	if err := p.installTimers(); err != nil {
		return err
	}
	return p.installDocument()
}

func (p *Page) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}

		p.consoleMu.Lock()
		p.console = append(p.console, LogEntry{
			Level:   level,
			Message: strings.Join(parts, " "),
			Time:    p.now(),
		})
		p.consoleMu.Unlock()

		return goja.Undefined()
	}
}

func inlineScripts(root *html.Node) []string {
	var scripts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && isJavaScript(n) {
			var b strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					b.WriteString(c.Data)
				}
			}
			if strings.TrimSpace(b.String()) != "" {
				scripts = append(scripts, b.String())
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return scripts
}

func isJavaScript(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "src":
			return false
		case "type":
			t := strings.ToLower(strings.TrimSpace(a.Val))
			if t != "" && t != "text/javascript" && t != "application/javascript" && t != "module" {
				return false
			}
		}
	}
	return true
}
