package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zenith/internal/engine"
	"zenith/internal/ui"
)

func newGenerateCmd() *cobra.Command {
	var (
		count      int
		difficulty string
		focus      []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate personalized tasks with AI",
		Long: `Ask the configured completion service for task suggestions based on
your preferences, streak and recent tasks. Generated tasks are added to
the active list. Limited to once per day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if cmd.Flags().Changed("count") || cmd.Flags().Changed("difficulty") || cmd.Flags().Changed("focus") {
				prefs := svc.Preferences()
				if cmd.Flags().Changed("count") {
					prefs.TaskCount = count
				}
				if cmd.Flags().Changed("difficulty") {
					d := engine.GenerationDifficulty(difficulty)
					if !d.IsValid() {
						return fmt.Errorf("invalid difficulty %q (gentle|balanced|challenging)", difficulty)
					}
					prefs.Difficulty = d
				}
				if cmd.Flags().Changed("focus") {
					prefs.FocusAreas = focus
				}
				svc.UpdatePreferences(ctx, prefs)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(ui.IconRobot+" Generating tasks…"))
			tasks, err := svc.GenerateTasks(ctx)
			if errors.Is(err, engine.ErrAlreadyGeneratedToday) {
				return errors.New("tasks were already generated today, try again tomorrow")
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ui.Heading(ui.IconSparkle, fmt.Sprintf("Added %d task(s)", len(tasks))))
			for _, t := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s %s %s\n", ui.Muted.Render("#"+shortID(t.ID)),
					t.Title, ui.PriorityText(string(t.Priority)), ui.Muted.Render("("+string(t.Category)+")"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 3, "Number of tasks to generate (1-10)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "balanced", "Difficulty (gentle|balanced|challenging)")
	cmd.Flags().StringSliceVar(&focus, "focus", nil, "Focus areas, comma separated")

	return cmd
}
