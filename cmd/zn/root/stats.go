package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"zenith/internal/engine"
	"zenith/internal/ui"
)

func newStatsCmd() *cobra.Command {
	var timeframe string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show category completion stats and insights",
		RunE: func(cmd *cobra.Command, args []string) error {
			tf := engine.Timeframe(timeframe)
			if !tf.IsValid() {
				return fmt.Errorf("invalid timeframe %q (week|month|quarter)", timeframe)
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			summary := svc.Stats(tf)
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconChart, fmt.Sprintf("Stats (%s)", tf)))
			if len(summary.Categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("  no tasks in this window"))
				return nil
			}
			for _, s := range summary.Categories {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-9s %s %d/%d (%d%%)\n",
					s.Category, ui.Bar(s.Rate, 10), s.Completed, s.Total, int(s.Rate*100))
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Overall", fmt.Sprintf("%d%%", int(summary.OverallScore*100))))

			trends := svc.StatsTrends()
			if len(trends) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "")
				fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render("Week over week"))
				for _, tr := range trends {
					arrow := "→"
					if tr.Improving {
						arrow = ui.Good.Render("↑")
					} else if tr.Delta < 0 {
						arrow = ui.Bad.Render("↓")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  %-9s %s %+d%%\n", tr.Category, arrow, int(tr.Delta*100))
				}
			}

			insights := engine.Insights(summary)
			if len(insights) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "")
				fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render("Insights"))
				for _, in := range insights {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", ui.IconInfo, in.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "week", "Timeframe (week|month|quarter)")

	return cmd
}
