package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odev-tools/addonctx"
	"github.com/odev-tools/addonctx/internal/llm"
)

var (
	flagAskModules  []string
	flagAskAnalysis string
	flagProvider    string
	flagModel       string
)

// askSystemPrompt frames the completion: the bundle parts that follow it are
// each introduced by a "File: <path>" header.
const askSystemPrompt = `You are an expert Odoo developer. You are given the source files of one or more Odoo modules, in installation order; each file is introduced by a "File:" line giving its path. Answer the question that follows the files, grounding your answer in the provided code and citing file paths where relevant.`

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Ask an LLM a question over extracted module context",
	Long:  "Extracts a context bundle for the given modules, sends it together with the question to the configured completion provider, and prints the answer. Models in the provider's failover list are tried in order until one responds.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringSliceVar(&flagAskModules, "module", nil, "modules whose context to extract (required)")
	askCmd.Flags().StringVar(&flagAskAnalysis, "analysis", "", "JSON file of extraction hints")
	askCmd.Flags().StringVar(&flagProvider, "provider", "", "completion provider (overrides config)")
	askCmd.Flags().StringVar(&flagModel, "model", "", "single model to use, skipping the failover list")
	askCmd.MarkFlagRequired("module")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider := cfg.LLM.Provider
	if flagProvider != "" {
		provider = flagProvider
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("no API key: set llm.api_key in the config file or ADDONCTX_LLM_API_KEY")
	}

	models := cfg.LLM.ModelOrder
	if flagModel != "" {
		models = []string{flagModel}
	}

	var analysis *addonctx.Analysis
	if flagAskAnalysis != "" {
		data, err := os.ReadFile(flagAskAnalysis)
		if err != nil {
			return fmt.Errorf("reading analysis file: %w", err)
		}
		if analysis, err = addonctx.ParseAnalysis(data); err != nil {
			return err
		}
	}

	engine, cleanup, err := newEngine(cfg, 0)
	if err != nil {
		return err
	}
	defer cleanup()

	bundle := engine.Extract(flagAskModules, analysis)
	if bundle.Len() == 0 {
		return fmt.Errorf("no context extracted for %s", strings.Join(flagAskModules, ", "))
	}

	prompt := &llm.Prompt{}
	prompt.SetSystem(askSystemPrompt)
	prompt.AddBundle(bundle)
	prompt.AddText(args[0])

	failover, err := llm.NewFailover(provider, models, llm.GeminiFactory(cfg.LLM.APIKey, logger), logger)
	if err != nil {
		return err
	}

	answer, err := failover.Complete(context.Background(), prompt)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, answer)
	return nil
}
