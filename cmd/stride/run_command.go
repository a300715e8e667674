package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stride/internal/analyzer"
	"stride/internal/config"
	"stride/internal/logging"
	"stride/internal/notify"
	"stride/internal/pipeline"
	"stride/internal/queue"
	"stride/internal/storage"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process the next pending submission",
		Long: "Acquires the run lock, claims the most recently updated pending submission, " +
			"and drives it to a terminal state. Safe to invoke from cron: overlapping " +
			"invocations and an empty queue both exit cleanly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("configure logging: %w", err)
				}

				client, err := analyzer.New(cfg)
				if err != nil {
					return fmt.Errorf("configure analyzer: %w", err)
				}

				runner := pipeline.NewRunner(
					cfg,
					store,
					storage.NewClient(cfg),
					client,
					notify.NewService(cfg),
					logger,
				)

				outcome, err := runner.Run(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				switch outcome {
				case pipeline.OutcomeContended:
					fmt.Fprintln(out, "Another run is in progress; nothing to do")
				case pipeline.OutcomeNoWork:
					fmt.Fprintln(out, "No pending submissions")
				case pipeline.OutcomeProcessed:
					fmt.Fprintln(out, "Processed one submission")
				}
				return nil
			})
		},
	}
}
