package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/odev-tools/addonctx/internal/index"
)

var flagClear bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the module index database",
	Long:  "Scans every addon root, records each module's directory, dependency list and manifest hash in a SQLite database, so later graph and extract runs resolve modules without walking the filesystem.",
	Args:  cobra.NoArgs,
	RunE:  runIndexScan,
}

func init() {
	indexCmd.Flags().BoolVar(&flagClear, "clear", false, "drop all indexed modules before scanning")
}

func runIndexScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.IndexPath == "" {
		return fmt.Errorf("no index path: set index_path in the config file")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.IndexPath), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	ix, err := index.Open(cfg.IndexPath)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer ix.Close()

	if flagClear {
		if err := ix.Clear(); err != nil {
			return fmt.Errorf("clearing index: %w", err)
		}
	}

	start := time.Now()
	n, err := index.Scan(ix, cfg.AddonsPaths, logger)
	if err != nil {
		return fmt.Errorf("scanning addon roots: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d module(s) from %s in %s\n",
		n,
		strings.Join(cfg.AddonsPaths, ", "),
		time.Since(start).Round(time.Millisecond),
	)
	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.IndexPath)
	return nil
}
