package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sharedcode/hive"
)

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Probe the hive health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sender()
			if err != nil {
				return err
			}
			res := s.RoundTrip(cmd.Context(), hive.HealthRequest())
			if err := res.Failure(); err != nil {
				return fmt.Errorf("hive health: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "hive is healthy")
			return nil
		},
	}
}
