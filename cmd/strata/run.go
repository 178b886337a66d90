package main

import (
	"github.com/aretw0/strata/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Dispatch a scripted sequence of actions",
	Long: `Reads a YAML (or .json) file with a list of actions and dispatches them, in
order, to a fresh demo store:

  name: smoke
  actions:
    - type: INCREMENT
      payload: 3
    - type: TOGGLE_ACTIVATE`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		strict, _ := cmd.Flags().GetBool("strict")
		return cli.RunScript(cmd.Context(), args[0], strict, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("strict", false, "Reject action types the demo reducers do not declare")
}
