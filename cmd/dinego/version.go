package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirinyoku/dinego/internal/obs"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dinego %s\n", obs.Version)
		},
	}
}
