package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sharedcode/hive/hivestub"
)

func newStubCmd() *cobra.Command {
	var (
		addr  string
		key   string
		sweep time.Duration
	)
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Host an in-memory hive service for development",
		Long: `Stub serves the hive wire contract from process memory: state keys,
transfers with TTL expiry, and the health probe. Nothing is persisted;
restarting loses everything. Point game servers or hivectl itself at it
during development instead of a real hive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			srv := hivestub.NewServer(hivestub.Options{
				Address:       addr,
				APIKey:        key,
				SweepInterval: sweep,
			})
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&key, "stub-key", "", "require this X-API-Key on /v1 routes (empty disables the check)")
	cmd.Flags().DurationVar(&sweep, "sweep", time.Minute, "how often expired transfers are reaped")
	return cmd
}
