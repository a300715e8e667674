package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stride/internal/notify"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test email through the configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Email.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Email notifications are disabled")
				return nil
			}

			service := notify.NewService(cfg)
			if err := service.TestNotification(cmd.Context(), to); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient address (defaults to the configured sender)")
	return cmd
}
