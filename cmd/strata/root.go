package main

import (
	"fmt"
	"os"

	"github.com/aretw0/strata/internal/cli"
	"github.com/aretw0/strata/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Strata is a minimal unidirectional state container",
	Long: `Strata keeps application state in a store that only changes by dispatching
actions through pure reducers. This CLI runs the demo store, replays scripted
actions and serves stores over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	rootCmd.PersistentFlags().StringP("output", "o", "yaml", "Output format (yaml, json, markdown)")
	rootCmd.PersistentFlags().Bool("no-banner", false, "Do not print the banner")
}

// loadOptions reads the configuration file and applies flag overrides.
func loadOptions(cmd *cobra.Command) (cli.Options, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cli.Options{}, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	format, _ := cmd.Flags().GetString("output")
	noBanner, _ := cmd.Flags().GetBool("no-banner")

	return cli.Options{
		Config: cfg,
		Out:    cmd.OutOrStdout(),
		Format: format,
		Banner: !noBanner,
	}, nil
}
