package main

import (
	"github.com/spf13/cobra"

	"github.com/culturebot/litcheck/internal/refid"
)

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)
	cacheCmd.AddCommand(cacheRetryFailuresCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the paper cache",
}

// CacheInfoResponse is the JSON response for cache info.
type CacheInfoResponse struct {
	Path     string `json:"path"`
	Papers   int    `json:"papers"`
	Failures int    `json:"failures"`
	Bodies   int    `json:"bodies"`
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and contents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		store := mustOpenCache(cfg)
		defer store.Close()

		stats, err := store.Stats()
		if err != nil {
			reportError("reading cache stats: %v", err)
			return exitStatus(ExitError)
		}

		resp := CacheInfoResponse{
			Path:     store.Path(),
			Papers:   stats.Papers,
			Failures: stats.Failures,
			Bodies:   stats.Bodies,
		}
		if humanOutput {
			outputHuman("cache: %s\n  %d papers (%d failures), %d raw bodies\n",
				resp.Path, resp.Papers, resp.Failures, resp.Bodies)
			return nil
		}
		return outputJSON(resp)
	},
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate <reference>",
	Short: "Drop the cached record for a reference, forcing a refetch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := refid.Parse(args[0])
		if err != nil {
			exitWithError(ExitDataError, "unrecognized reference id %q", args[0])
		}

		cfg := mustLoadConfig()
		store := mustOpenCache(cfg)
		defer store.Close()

		if err := store.Invalidate(ref.Canonical); err != nil {
			reportError("invalidating %s: %v", ref.Canonical, err)
			return exitStatus(ExitError)
		}
		if humanOutput {
			outputHuman("invalidated %s\n", ref.Canonical)
			return nil
		}
		return outputJSON(map[string]string{"status": "invalidated", "canonical": ref.Canonical})
	},
}

var cacheRetryFailuresCmd = &cobra.Command{
	Use:   "retry-failures",
	Short: "Drop all cached failures so the next run retries them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		store := mustOpenCache(cfg)
		defer store.Close()

		n, err := store.InvalidateFailures()
		if err != nil {
			reportError("invalidating failures: %v", err)
			return exitStatus(ExitError)
		}
		if humanOutput {
			outputHuman("dropped %d cached failures\n", n)
			return nil
		}
		return outputJSON(map[string]int{"dropped": n})
	},
}
