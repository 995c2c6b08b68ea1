package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"zenith/internal/engine"
	"zenith/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, points and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			points := svc.Points()
			streak := svc.StreakData()

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconSparkle, "Status"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Level", points.Level))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Total points",
				fmt.Sprintf("%d (%d to next level)", points.TotalPoints, engine.PointsToNextLevel(points.TotalPoints))))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Today", fmt.Sprintf("%d points", points.DailyPoints)))
			fmt.Fprintln(cmd.OutOrStdout(), "")

			streakLine := fmt.Sprintf("%d days %s", streak.CurrentStreak, ui.Muted.Render(fmt.Sprintf("(best %d, total %d)", streak.BestStreak, streak.TotalDaysCompleted)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue(ui.IconStreak+" Streak", streakLine))
			if streak.StreakStartDate != nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Since", streak.StreakStartDate.Format("Jan 2")))
			}

			active := len(svc.Tasks())
			archived := len(svc.ArchivedTasks())
			fmt.Fprintln(cmd.OutOrStdout(), "")
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Tasks", fmt.Sprintf("%d active, %d completed", active, archived)))

			if n := svc.RepairCount(); n > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("%s repaired %d record(s) at load", ui.IconInfo, n)))
			}
			return nil
		},
	}

	return cmd
}
