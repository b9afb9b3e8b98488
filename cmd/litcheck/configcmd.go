package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/culturebot/litcheck/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		if humanOutput {
			outputHuman("cache_dir: %s\ncontact_email: %s\nenable_mirrors: %v\nmirror_hosts: %v\ntimeout_seconds: %d\nbatch_delay_ms: %d\n",
				cfg.CacheDir, cfg.ContactEmail, cfg.EnableMirrors, cfg.MirrorHosts,
				cfg.TimeoutSeconds, cfg.BatchDelayMs)
			return nil
		}
		return outputJSON(cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if _, err := os.Stat(path); err == nil {
			exitWithError(ExitConfigError, "config already exists at %s", path)
		}

		if err := config.Default().Save(path); err != nil {
			exitWithError(ExitError, "writing config: %v", err)
		}
		if humanOutput {
			outputHuman("wrote %s\n", path)
			return nil
		}
		return outputJSON(map[string]string{"status": "created", "path": path})
	},
}
