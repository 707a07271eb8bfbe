package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/domfinder/internal/dom/htmldoc"
)

const defaultScanGlob = "**/*.{html,htm,xhtml,html.gz,htm.gz,html.zst}"

type scanFlags struct {
	queryFlags
	glob    string
	workers int
}

// fileResult holds the matches of one scanned document
type fileResult struct {
	Path     string        `json:"path"`
	Elements []elementView `json:"elements,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func (a *app) scanCommand() *cobra.Command {
	f := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan <dir> [kind] <locator>",
		Short: "Run a lookup against every HTML document under a directory",
		Long: `scan walks a directory, picks documents matching --glob and runs an
"all" lookup against each. Gzip and zstd compressed documents are read
transparently; other files must sniff as HTML.`,
		Args: cobra.RangeArgs(2, 3),
		Example: `  domfind scan ./site link "Docs"
  domfind scan ./archive --glob '**/*.html.gz' css "meta[name=description]" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd, f, args[0], args[1:])
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&f.glob, "glob", defaultScanGlob, "doublestar pattern relative to <dir>")
	cmd.Flags().IntVar(&f.workers, "workers", runtime.NumCPU(), "documents searched concurrently")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, f *scanFlags, root string, args []string) error {
	ctx := cmd.Context()
	if !doublestar.ValidatePattern(f.glob) {
		return fmt.Errorf("invalid glob pattern %q", f.glob)
	}

	lookupArgs, err := f.selectorArgs(cmd, args)
	if err != nil {
		return err
	}

	paths, err := collectDocuments(ctx, root, f.glob)
	if err != nil {
		return err
	}
	a.logger.Debug("Scanning documents",
		zap.String("root", root),
		zap.String("glob", f.glob),
		zap.Int("files", len(paths)))

	results := make([]fileResult, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(f.workers, 1))
	for i, rel := range paths {
		i, rel := i, rel
		eg.Go(func() error {
			results[i] = a.scanFile(egCtx, filepath.Join(root, filepath.FromSlash(rel)), rel, lookupArgs, f.html)
			return egCtx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	// keep files with matches or errors
	kept := results[:0]
	for _, r := range results {
		if len(r.Elements) > 0 || r.Error != "" {
			kept = append(kept, r)
		}
	}

	if f.json {
		data, err := sonic.MarshalIndent(kept, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	renderScan(cmd.OutOrStdout(), kept)
	return nil
}

// collectDocuments returns slash separated paths under root matching glob,
// sorted for stable output
func collectDocuments(ctx context.Context, root, glob string) ([]string, error) {
	var mu sync.Mutex
	var paths []string
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(glob, rel); !ok {
			return nil
		}

		mu.Lock()
		paths = append(paths, rel)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func (a *app) scanFile(ctx context.Context, path, rel string, lookupArgs []any, withHTML bool) fileResult {
	result := fileResult{Path: rel}

	doc, err := openDocument(path)
	if err != nil {
		a.logger.Debug("Skipping document", zap.String("path", rel), zap.Error(err))
		result.Error = err.Error()
		return result
	}

	found, err := a.session(doc).All(ctx, lookupArgs...)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Elements = views(found, withHTML)
	return result
}

// openDocument parses path, decompressing .gz and .zst files
func openDocument(path string) (*htmldoc.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	case ".zst":
		zr, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	default:
		mtype, err := mimetype.DetectReader(file)
		if err != nil {
			return nil, err
		}
		if !mtype.Is("text/html") {
			return nil, fmt.Errorf("not an html document: %s", mtype.String())
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		r = file
	}

	return htmldoc.Load(r)
}

func renderScan(w io.Writer, results []fileResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"File", "#", "Element"})

	total := 0
	for _, r := range results {
		if r.Error != "" {
			t.AppendRow(table.Row{r.Path, "-", "error: " + r.Error})
			continue
		}
		for i, el := range r.Elements {
			t.AppendRow(table.Row{r.Path, i + 1, el.String()})
		}
		total += len(r.Elements)
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d matches in %d files", total, len(results))})
	t.Render()
}
