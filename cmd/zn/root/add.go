package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zenith/internal/engine"
	"zenith/internal/ui"
)

func newAddCmd() *cobra.Command {
	var priority string
	var category string
	var description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			t, err := svc.AddTask(ctx, args[0], description, engine.ParsePriority(priority), engine.ParseCategory(category))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				ui.Good.Render(ui.IconTask+" Added"),
				t.Title,
				ui.PriorityText(string(t.Priority)),
				ui.Muted.Render(fmt.Sprintf("(%s, #%s)", t.Category, shortID(t.ID))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "Priority (low|medium|high|critical)")
	cmd.Flags().StringVarP(&category, "category", "c", "other", "Category (work|health|personal|learning|social|finance|other)")
	cmd.Flags().StringVarP(&description, "desc", "d", "", "Description")

	return cmd
}
