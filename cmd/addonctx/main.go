package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/odev-tools/addonctx"
	"github.com/odev-tools/addonctx/internal/config"
	"github.com/odev-tools/addonctx/internal/index"
)

var (
	flagAddonsPath []string
	flagFormat     string
	flagVerbose    bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "addonctx",
	Short:         "Dependency graphs and selective context extraction for Odoo addons",
	Long:          "Addonctx resolves Odoo modules across addon roots, builds their dependency graph, and slices module sources into an ordered context bundle for LLM consumption.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&flagAddonsPath, "addons-path", nil, "addon root directories in search order (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(askCmd)
}

// loadConfig merges persistent flags over the configuration file and
// environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(flagAddonsPath) > 0 {
		cfg.AddonsPaths = flagAddonsPath
	}
	if len(cfg.AddonsPaths) == 0 {
		return nil, fmt.Errorf("no addon roots: pass --addons-path or set addons_paths in the config file")
	}
	return cfg, nil
}

// newEngine builds an engine from cfg and the command-line depth bound. When
// an index database exists at cfg.IndexPath, module resolution goes through
// it instead of walking the roots.
func newEngine(cfg *config.Config, depth int, extra ...addonctx.Option) (*addonctx.Engine, func(), error) {
	opts := []addonctx.Option{
		addonctx.WithLogger(logger),
		addonctx.WithExclude(cfg.Exclude...),
		addonctx.WithMaxDepth(cliDepth(depth)),
	}
	cleanup := func() {}

	if cfg.IndexPath != "" {
		if _, err := os.Stat(cfg.IndexPath); err == nil {
			ix, err := index.Open(cfg.IndexPath)
			if err != nil {
				return nil, nil, fmt.Errorf("opening index: %w", err)
			}
			logger.Debug("resolving modules through index", "path", cfg.IndexPath)
			opts = append(opts, addonctx.WithResolver(ix))
			cleanup = func() { ix.Close() }
		}
	}

	opts = append(opts, extra...)
	return addonctx.New(cfg.AddonsPaths, opts...), cleanup, nil
}

// cliDepth maps the user-facing --depth convention (0 means unbounded) onto
// the engine's (negative means unbounded).
func cliDepth(depth int) int {
	if depth <= 0 {
		return -1
	}
	return depth
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
