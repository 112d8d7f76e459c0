package main

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "redeployer",
	DisableAutoGenTag: true,
	SilenceErrors:     true,
	SilenceUsage:      true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func Execute(ctx context.Context) error {
	rootCmd.AddCommand(newServerCommand())
	rootCmd.AddCommand(newLambdaCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd.ExecuteContext(ctx)
}
