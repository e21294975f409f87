package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pnsctl",
		Short:         "Operator tool for the name registry",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newTokenCommand(), newQuoteCommand())
	return root
}
