package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odev-tools/addonctx"
)

var (
	flagAnalysis     string
	flagOverride     string
	flagExtractDepth int
	flagPO           string
)

var extractCmd = &cobra.Command{
	Use:   "extract MODULE...",
	Short: "Extract an ordered context bundle for one or more modules",
	Long:  "Walks the dependency graph of the given modules in installation order and slices each module's sources into the categories requested by the analysis file: manifest, models, views, controllers, assets, security, reports, website templates and data files.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&flagAnalysis, "analysis", "", "JSON file of extraction hints (models, views, routes, ...)")
	extractCmd.Flags().StringVar(&flagOverride, "override", "", "module under development whose model files are included whole")
	extractCmd.Flags().IntVar(&flagExtractDepth, "depth", 0, "maximum dependency depth to follow (0 = unbounded)")
	extractCmd.Flags().StringVar(&flagPO, "po", "", "PO file whose source references are appended to the bundle")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var analysis *addonctx.Analysis
	if flagAnalysis != "" {
		data, err := os.ReadFile(flagAnalysis)
		if err != nil {
			return fmt.Errorf("reading analysis file: %w", err)
		}
		if analysis, err = addonctx.ParseAnalysis(data); err != nil {
			return err
		}
	}

	var opts []addonctx.Option
	if flagOverride != "" {
		opts = append(opts, addonctx.WithOverrideModule(flagOverride))
	}
	engine, cleanup, err := newEngine(cfg, flagExtractDepth, opts...)
	if err != nil {
		return err
	}
	defer cleanup()

	bundle := engine.Extract(args, analysis)

	if flagPO != "" {
		po, err := os.ReadFile(flagPO)
		if err != nil {
			return fmt.Errorf("reading po file: %w", err)
		}
		for _, a := range engine.GatherPO(string(po)).Artifacts() {
			bundle.Append(a.Path, a.Content)
		}
	}

	return outputBundle(bundle)
}
