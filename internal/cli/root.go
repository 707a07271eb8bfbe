package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/domfinder/internal/dom"
	"github.com/GriffinCanCode/domfinder/internal/finder"
	"github.com/GriffinCanCode/domfinder/internal/infrastructure/config"
	"github.com/GriffinCanCode/domfinder/internal/infrastructure/logging"
	"github.com/GriffinCanCode/domfinder/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/domfinder/internal/selector"
)

// app carries the state shared by every subcommand
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	registry *selector.Registry
	promReg  *prometheus.Registry
	metrics  *monitoring.Metrics

	// global flags
	selectorsFile string
	printMetrics  bool
	logLevel      string
	dev           bool
}

// NewRootCommand builds the domfind command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "domfind",
		Short: "Locate elements in HTML documents with declarative selectors",
		Long: `domfind finds elements in HTML documents by CSS, XPath or higher level
selector kinds such as field, link and button. Documents may run their
inline scripts, in which case lookups wait for elements to appear.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.selectorsFile, "selectors", "", "YAML or TOML file with custom selector kinds")
	root.PersistentFlags().BoolVar(&a.printMetrics, "metrics", false, "print collected metrics to stderr on exit")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.dev, "dev", false, "human readable logs")

	root.AddCommand(
		a.lookupCommand(lookupFind),
		a.lookupCommand(lookupFirst),
		a.lookupCommand(lookupAll),
		a.scanCommand(),
		a.kindsCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.dev {
		cfg.Logging.Development = true
	}
	if a.selectorsFile != "" {
		cfg.Finder.SelectorsFile = a.selectorsFile
	}
	a.cfg = cfg

	logCfg := logging.FromConfig(cfg.Logging)
	a.logger, err = logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.registry = selector.DefaultRegistry()
	if path := cfg.Finder.SelectorsFile; path != "" {
		names, err := a.registry.LoadDefinitions(path)
		if err != nil {
			return fmt.Errorf("failed to load selector definitions: %w", err)
		}
		a.logger.Debug("Loaded selector definitions",
			zap.String("path", path),
			zap.Int("kinds", len(names)))
	}

	a.promReg = prometheus.NewRegistry()
	a.metrics = monitoring.NewMetrics(a.promReg)
	return nil
}

func (a *app) teardown(stderr io.Writer) error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.printMetrics && a.promReg != nil {
		return monitoring.WriteText(stderr, a.promReg)
	}
	return nil
}

// session opens a finder session on backend with the loaded configuration
func (a *app) session(backend dom.Backend) *finder.Session {
	return finder.New(backend,
		finder.WithSettings(finder.FromConfig(a.cfg.Finder)),
		finder.WithRegistry(a.registry),
		finder.WithLogger(a.logger),
		finder.WithMetrics(a.metrics),
	)
}
