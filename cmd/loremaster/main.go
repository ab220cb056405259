// Command loremaster is a game-master assistant shell around the wiki RAG
// subsystem: lore context for locations, ranked section search across pages,
// graduated History-check recall, and homebrew-aware item lookups.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"loremaster/internal/config"
	"loremaster/internal/logging"
	"loremaster/internal/rag"
	"loremaster/internal/registry"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "loremaster",
	Short: "Wiki-backed lore retrieval for tabletop game masters",
	Long: `loremaster pulls campaign lore and game rules from configured wikis,
caches pages on disk, and formats the results as prompt-ready context.

Configuration comes from an optional YAML file plus RAG_* environment
variables (RAG_ENABLED, RAG_WIKI_BASE_URL, RAG_RULES_BASE_URL,
RAG_CACHE_TTL). Homebrew items registered locally are never looked up
online.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newSystem wires config, registry, and orchestrator for a command run.
func newSystem() (*rag.System, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	reg := registry.New(cfg.Registry.Path, logger)
	return rag.New(cfg.RAG, reg, logger)
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(locationCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(cacheCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
