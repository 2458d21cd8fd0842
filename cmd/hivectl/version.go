package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sharedcode/hive"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hivectl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hivectl v%s\n", hive.Version)
		},
	}
}
