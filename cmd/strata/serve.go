package main

import (
	"context"

	"github.com/aretw0/strata/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves one independent demo store per session over a JSON API, with Prometheus metrics and optional Redis change notifications.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			opts.Config.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("redis") {
			opts.Config.Redis.Addr, _ = cmd.Flags().GetString("redis")
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()
		return cli.RunServe(sigCtx, opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for change notifications")
}
