package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zenith/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Complete a task",
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

			id, err := resolveTaskID(args[0], svc.Tasks())
			if err != nil {
				return err
			}

			res, err := svc.CompleteTask(ctx, id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Good.Render(ui.IconDone+" Completed"),
				res.Task.Title,
				ui.Muted.Render(fmt.Sprintf("(+%d points)", res.PointsAwarded)))
			if res.LevelUp {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s Level %d → %d\n", ui.IconSparkle, ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter)
			}
			if res.StreakExtended {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.IconStreak, ui.Gold.Render(fmt.Sprintf("%d-day streak!", res.CurrentStreak)))
			}
			return nil
		},
	}

	return cmd
}
