package main

import (
	"context"

	"github.com/aretw0/strata/internal/cli"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print state changes published by a server",
	Long:  `Subscribes to the Redis channel a 'strata serve' instance publishes to and prints every state diff as it arrives.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("redis") {
			opts.Config.Redis.Addr, _ = cmd.Flags().GetString("redis")
		}
		if cmd.Flags().Changed("channel") {
			opts.Config.Redis.Channel, _ = cmd.Flags().GetString("channel")
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()
		return cli.RunWatch(sigCtx, opts)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("redis", "", "Redis address (default localhost:6379)")
	watchCmd.Flags().String("channel", "", "Channel to subscribe to")
}
