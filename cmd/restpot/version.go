package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/restpot/restpot/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print version",
		GroupID: gService,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.Version, version.GitCommit)
			if !remote {
				return nil
			}

			v, err := newAPIClient().GetVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "daemon: %s\n", v)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "also print the version of the running daemon")

	return cmd
}
