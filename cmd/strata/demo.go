package main

import (
	"github.com/aretw0/strata/internal/cli"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the counter/user demo store",
	Long:  `Creates a store from the counter and user reducers, dispatches INCREMENT 3, DECREMENT 1 and two TOGGLE_ACTIVATE actions, and prints the state after each one.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		return cli.RunDemo(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
