package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/domfinder/internal/dom"
	"github.com/GriffinCanCode/domfinder/internal/dom/htmldoc"
	"github.com/GriffinCanCode/domfinder/internal/dom/rodpage"
	"github.com/GriffinCanCode/domfinder/internal/dom/scripted"
	"github.com/GriffinCanCode/domfinder/internal/finder"
	"github.com/GriffinCanCode/domfinder/internal/selector"
)

type lookupOp string

const (
	lookupFind  lookupOp = "find"
	lookupFirst lookupOp = "first"
	lookupAll   lookupOp = "all"
)

var lookupShort = map[lookupOp]string{
	lookupFind:  "Wait for the first matching element, failing when none appears",
	lookupFirst: "Print the first matching element without waiting",
	lookupAll:   "Print every matching element",
}

// queryFlags are the selector options shared by lookup and scan commands
type queryFlags struct {
	text    string
	visible bool
	wait    time.Duration
	regex   bool
	filters map[string]string
	json    bool
	html    bool
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "text", "", "only match elements containing this text")
	cmd.Flags().BoolVar(&f.visible, "visible", false, "only match visible elements")
	cmd.Flags().DurationVar(&f.wait, "wait", 0, "override the default wait")
	cmd.Flags().BoolVar(&f.regex, "regex", false, "treat the locator as a regular expression")
	cmd.Flags().StringToStringVar(&f.filters, "filter", nil, "kind specific filter, e.g. --filter checked=true")
	cmd.Flags().BoolVar(&f.json, "json", false, "print JSON")
	cmd.Flags().BoolVar(&f.html, "html", false, "include sanitized outer HTML")
}

// selectorArgs turns "[kind] <locator>" plus flags into lookup arguments
func (f *queryFlags) selectorArgs(cmd *cobra.Command, args []string) ([]any, error) {
	var out []any
	if len(args) == 2 {
		out = append(out, selector.Name(args[0]))
	}

	locator := args[len(args)-1]
	if f.regex {
		re, err := regexp.Compile(locator)
		if err != nil {
			return nil, fmt.Errorf("invalid locator pattern: %w", err)
		}
		out = append(out, re)
	} else {
		out = append(out, locator)
	}

	opts := selector.Options{}
	if f.text != "" {
		opts.Text = f.text
	}
	if cmd.Flags().Changed("visible") {
		opts.Visible = selector.Bool(f.visible)
	}
	if cmd.Flags().Changed("wait") {
		opts.Wait = selector.Wait(f.wait)
	}
	if len(f.filters) > 0 {
		opts.Filters = make(map[string]any, len(f.filters))
		for k, v := range f.filters {
			opts.Filters[k] = filterValue(v)
		}
	}
	return append(out, opts), nil
}

// filterValue parses booleans so flag filters like checked=true work
func filterValue(v string) any {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}

type lookupFlags struct {
	queryFlags
	file   string
	script string
	js     bool
	cdp    string
}

func (a *app) lookupCommand(op lookupOp) *cobra.Command {
	f := &lookupFlags{}

	cmd := &cobra.Command{
		Use:   string(op) + " [kind] <locator>",
		Short: lookupShort[op],
		Args:  cobra.RangeArgs(1, 2),
		Example: fmt.Sprintf(`  domfind %[1]s --file page.html "a.nav"
  domfind %[1]s --file page.html field "Email" --json
  domfind %[1]s --file app.html --js button "Save" --wait 5s`, op),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLookup(cmd, op, f, args)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.file, "file", "f", "-", "HTML document to search, - for stdin")
	cmd.Flags().StringVar(&f.script, "script", "", "JavaScript file to run against the document (implies --js)")
	cmd.Flags().BoolVar(&f.js, "js", false, "run inline scripts and let lookups wait for script changes")
	cmd.Flags().StringVar(&f.cdp, "cdp", "", "DevTools websocket URL of a running Chrome; searches its first open page")
	cmd.MarkFlagsMutuallyExclusive("cdp", "file")
	cmd.MarkFlagsMutuallyExclusive("cdp", "js")
	return cmd
}

func (a *app) runLookup(cmd *cobra.Command, op lookupOp, f *lookupFlags, args []string) error {
	ctx := cmd.Context()

	lookupArgs, err := f.selectorArgs(cmd, args)
	if err != nil {
		return err
	}

	backend, closeFn, err := a.open(ctx, cmd.InOrStdin(), f)
	if err != nil {
		return err
	}
	defer closeFn()

	s := a.session(backend)
	var found []*finder.Element
	switch op {
	case lookupFind:
		el, err := s.Find(ctx, lookupArgs...)
		if err != nil {
			return err
		}
		found = append(found, el)
	case lookupFirst:
		el, err := s.First(ctx, lookupArgs...)
		if err != nil {
			return err
		}
		if el != nil {
			found = append(found, el)
		}
	case lookupAll:
		found, err = s.All(ctx, lookupArgs...)
		if err != nil {
			return err
		}
	}

	return render(cmd.OutOrStdout(), views(found, f.html), f.json)
}

// open loads the document as a static tree or as a scripted page, or
// attaches to a live browser page
func (a *app) open(ctx context.Context, stdin io.Reader, f *lookupFlags) (dom.Backend, func(), error) {
	if f.cdp != "" {
		return attach(ctx, f.cdp)
	}

	data, err := readDocument(f.file, stdin)
	if err != nil {
		return nil, nil, err
	}

	if !f.js && f.script == "" {
		doc, err := htmldoc.Load(bytes.NewReader(data))
		if err != nil {
			return nil, nil, err
		}
		return doc, func() {}, nil
	}

	page, err := scripted.Load(ctx, string(data), scripted.DefaultConfig())
	if err != nil {
		return nil, nil, err
	}
	if f.script != "" {
		src, err := os.ReadFile(f.script)
		if err != nil {
			page.Close()
			return nil, nil, err
		}
		if _, err := page.Run(ctx, string(src)); err != nil {
			page.Close()
			return nil, nil, fmt.Errorf("script %s: %w", f.script, err)
		}
	}

	return page, func() {
		for _, entry := range page.Console() {
			a.logger.Debug("Page console",
				zap.String("level", entry.Level),
				zap.String("message", entry.Message))
		}
		page.Close()
	}, nil
}

// attach connects to a running browser without owning it. Only the
// client connection is closed afterwards; the browser stays open.
func attach(ctx context.Context, controlURL string) (dom.Backend, func(), error) {
	ws := &cdp.WebSocket{}
	if err := ws.Connect(ctx, controlURL, nil); err != nil {
		return nil, nil, fmt.Errorf("connect to browser: %w", err)
	}
	release := func() { _ = ws.Close() }

	browser := rod.New().Client(cdp.New().Start(ws)).Context(ctx)
	if err := browser.Connect(); err != nil {
		release()
		return nil, nil, fmt.Errorf("connect to browser: %w", err)
	}
	pages, err := browser.Pages()
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("list browser pages: %w", err)
	}
	if len(pages) == 0 {
		release()
		return nil, nil, fmt.Errorf("browser at %s has no open pages", controlURL)
	}
	return rodpage.New(pages.First()), release, nil
}

func readDocument(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(io.LimitReader(stdin, htmldoc.MaxHTMLSize+1))
	}
	return os.ReadFile(path)
}
