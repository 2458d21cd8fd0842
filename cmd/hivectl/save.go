package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sharedcode/hive"
)

func newSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <key> <value>",
		Short: "Persist a JSON value under a state key",
		Long: `Save issues a synchronous PUT to /v1/state/<key> wrapping the value the
way the game-server client does. The value is opaque JSON text.

Example:
  hivectl save steam_76561198000000001 '{"pos":[100,0,200],"hp":85}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sender()
			if err != nil {
				return err
			}
			res := s.RoundTrip(cmd.Context(), hive.SaveStateRequest(args[0], args[1]))
			if err := res.Failure(); err != nil {
				return fmt.Errorf("save %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d bytes)\n", args[0], len(args[1]))
			return nil
		},
	}
}
