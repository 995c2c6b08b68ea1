package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zenith/internal/ui"
)

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <id>",
		Short: "Unarchive a completed task (undo completion)",
		Long: `Move a completed task back to the active list.

This will:
- Revoke the points the completion awarded
- Remove the day from the streak if no other completion covers it
- Clear the task's completion fields

Use this to fix accidental completions.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := resolveTaskID(args[0], svc.ArchivedTasks())
			if err != nil {
				return err
			}

			t, err := svc.UnarchiveTask(ctx, id)
			if err != nil {
				return err
			}

			points := svc.Points()
			streak := svc.StreakData()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconUndo+" Unarchived"), t.Title)
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Level", points.Level))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Streak", fmt.Sprintf("%d days", streak.CurrentStreak)))
			return nil
		},
	}

	return cmd
}
