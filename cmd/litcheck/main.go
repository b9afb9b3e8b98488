// Package main provides the litcheck CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/culturebot/litcheck/internal/cache"
	"github.com/culturebot/litcheck/internal/config"
	"github.com/culturebot/litcheck/internal/curator"
	"github.com/culturebot/litcheck/internal/fetch"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug logging to stderr
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		var status exitStatus
		if errors.As(err, &status) {
			// The command already reported its outcome.
			os.Exit(int(status))
		}
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "litcheck",
	Short: "Literature evidence verification CLI",
	Long: `litcheck verifies that quoted evidence snippets in a curated knowledge
base are authentic quotations from the papers they cite.

Core features:
  - Reference id normalization (PMID, DOI, PMC, BioProject)
  - Tiered paper fetching across publishers, PubMed/PMC, Unpaywall,
    Semantic Scholar, configured mirrors, and web search
  - Persistent paper cache so no reference is fetched twice
  - Snippet validation with ranked replacement suggestions

All commands output JSON by default for pipeline integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration, exits on error. The .env file is
// folded into the environment first so env overrides see it.
func mustLoadConfig() *config.Config {
	_ = godotenv.Load()

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenCache opens the paper cache, exits on error.
// The caller is responsible for calling Close() on the returned store.
func mustOpenCache(cfg *config.Config) *cache.Store {
	store, err := cache.Open(cfg.CacheDir)
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	return store
}

// mustLogger builds the zap logger used by the fetch and curation layers.
func mustLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		exitWithError(ExitError, "creating logger: %v", err)
	}
	return log
}

// newCurator wires the full pipeline from configuration.
func newCurator(cfg *config.Config, store *cache.Store, log *zap.Logger) *curator.Curator {
	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout()),
		fetch.WithContactEmail(cfg.ContactEmail),
		fetch.WithNCBIAPIKey(cfg.NCBIAPIKey),
		fetch.WithUserAgent(cfg.UserAgent),
	)
	var mirrors []string
	if cfg.EnableMirrors {
		mirrors = cfg.MirrorHosts
	}
	resolver := fetch.NewResolver(client, log, mirrors)

	c := curator.New(store, resolver, log)
	c.BatchDelay = cfg.BatchDelay()
	return c
}
