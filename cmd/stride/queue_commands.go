package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stride/internal/config"
	"stride/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the submission queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

type submissionView struct {
	ID             int64     `json:"id"`
	FileName       string    `json:"file_name"`
	Email          string    `json:"email"`
	Status         string    `json:"status"`
	OutputFileName string    `json:"output_file_name,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]queue.Status, 0, len(listStatuses))
			for _, raw := range listStatuses {
				status := queue.Status(raw)
				if !queue.ValidStatus(status) {
					return fmt.Errorf("unknown status %q (expected pending, success, or failed)", raw)
				}
				statuses = append(statuses, status)
			}

			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				submissions, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if jsonOutput {
					views := make([]submissionView, 0, len(submissions))
					for _, submission := range submissions {
						views = append(views, submissionView{
							ID:             submission.ID,
							FileName:       submission.FileName,
							Email:          submission.Email,
							Status:         string(submission.Status),
							OutputFileName: submission.OutputFileName,
							ErrorMessage:   submission.ErrorMessage,
							CreatedAt:      submission.CreatedAt,
							UpdatedAt:      submission.UpdatedAt,
						})
					}
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(views)
				}
				if len(submissions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(submissions))
				for _, submission := range submissions {
					detail := submission.OutputFileName
					if submission.Status == queue.StatusFailed {
						detail = submission.ErrorMessage
					}
					rows = append(rows, []string{
						strconv.FormatInt(submission.ID, 10),
						submission.FileName,
						submission.Email,
						string(submission.Status),
						submission.UpdatedAt.Local().Format(time.RFC3339),
						detail,
					})
				}
				table := renderTable(
					[]string{"ID", "File", "Email", "Status", "Updated", "Detail"},
					rows,
					0,
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by submission status (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit submissions as JSON")
	return cmd
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [id...]",
		Short: "Reset failed submissions to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid submission id %q", arg)
				}
				ids = append(ids, id)
			}

			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				retried, err := store.Retry(cmd.Context(), ids...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Retried %d failed submissions\n", retried)
				return nil
			})
		},
	}
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show submission counts per state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				summary, err := store.HealthSummary(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Pending", strconv.Itoa(summary.Pending)},
					{"Success", strconv.Itoa(summary.Succeeded)},
					{"Failed", strconv.Itoa(summary.Failed)},
					{"Total", strconv.Itoa(summary.Total)},
				}
				table := renderTable(
					[]string{"Status", "Count"},
					rows,
					1,
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}
