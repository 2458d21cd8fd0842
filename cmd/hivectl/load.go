package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/sharedcode/hive"
)

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <key>",
		Short: "Fetch the value stored under a state key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sender()
			if err != nil {
				return err
			}
			res := s.RoundTrip(cmd.Context(), hive.LoadStateRequest(args[0]))
			if res.Status == http.StatusNotFound {
				return fmt.Errorf("load %s: %w", args[0], hive.ErrNotFound)
			}
			if err := res.Failure(); err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(res.Body))
			return nil
		},
	}
}
