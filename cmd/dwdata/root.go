package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dwdata",
		Short:         "Dog Witch wiki data tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path (optional)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: json, console, auto")
	ctx.flags = flags

	rootCmd.AddCommand(newExtractCommand(ctx))
	rootCmd.AddCommand(newUploadImagesCommand(ctx))
	rootCmd.AddCommand(newCreatePagesCommand(ctx))

	return rootCmd
}
