package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/sharedcode/hive"
)

func newTransferCmd(a *app) *cobra.Command {
	transfer := &cobra.Command{
		Use:   "transfer",
		Short: "Stage and claim cross-server payload handoffs",
	}
	transfer.AddCommand(newTransferCreateCmd(a))
	transfer.AddCommand(newTransferClaimCmd(a))
	return transfer
}

func newTransferCreateCmd(a *app) *cobra.Command {
	var (
		owner   string
		src     string
		dst     string
		payload string
		ttl     int
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Stage a payload handoff and print the issued token",
		Long: `Create stages a payload on the hive for an owner moving between servers.
The hive answers with a single-use token; hand it to the destination side,
which redeems it with "transfer claim".

Example:
  hivectl transfer create --owner steam_76561198000000001 \
    --src chernarus-1 --dst livonia-2 --payload '{"inventory":["m4"]}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sender()
			if err != nil {
				return err
			}
			t := hive.TransferRequest{
				SteamID:    owner,
				SrcServer:  src,
				DstServer:  dst,
				Payload:    json.RawMessage(payload),
				TTLMinutes: ttl,
			}
			req, err := hive.CreateTransferRequest(t)
			if err != nil {
				return err
			}
			res := s.RoundTrip(cmd.Context(), req)
			if err := res.Failure(); err != nil {
				return fmt.Errorf("create transfer: %w", err)
			}
			var out struct {
				Token string `json:"token"`
			}
			if err := hive.DefaultMarshaler.Unmarshal(res.Body, &out); err != nil {
				return fmt.Errorf("decode transfer response: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner id, e.g. the steam id (required)")
	cmd.Flags().StringVar(&src, "src", "", "source server name")
	cmd.Flags().StringVar(&dst, "dst", "", "destination server name")
	cmd.Flags().StringVar(&payload, "payload", "", "payload to hand off, as JSON text (required)")
	cmd.Flags().IntVar(&ttl, "ttl", hive.TransferTTLMinutes, "transfer lifetime in minutes")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("payload")
	return cmd
}

func newTransferClaimCmd(a *app) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "claim <token>",
		Short: "Redeem a handoff token and print its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sender()
			if err != nil {
				return err
			}
			req, err := hive.ClaimTransferRequest(owner, args[0])
			if err != nil {
				return err
			}
			res := s.RoundTrip(cmd.Context(), req)
			if res.Status == http.StatusGone {
				return fmt.Errorf("claim %s: %w", args[0], hive.ErrGone)
			}
			if err := res.Failure(); err != nil {
				return fmt.Errorf("claim %s: %w", args[0], err)
			}
			var out struct {
				Payload any `json:"payload"`
			}
			if err := hive.DefaultMarshaler.Unmarshal(res.Body, &out); err != nil {
				return fmt.Errorf("decode claim response: %w", err)
			}
			text, err := hive.DefaultMarshaler.Marshal(out.Payload)
			if err != nil {
				return fmt.Errorf("encode payload: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(text))
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner id the transfer was staged for (required)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
