package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"zenith/internal/engine"
	"zenith/internal/ui"
)

func newListCmd() *cobra.Command {
	var showArchived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if showArchived {
				printTasks(cmd, ui.Heading(ui.IconDone, "Archived"), svc.ArchivedTasks())
				return nil
			}
			printTasks(cmd, ui.Heading(ui.IconTask, "Active"), svc.Tasks())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showArchived, "archived", "a", false, "Show archived (completed) tasks")

	return cmd
}

func printTasks(cmd *cobra.Command, heading string, tasks []engine.Task) {
	fmt.Fprintln(cmd.OutOrStdout(), heading)
	if len(tasks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("  (none)"))
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.IsCompleted {
			mark = "✓"
		}
		line := fmt.Sprintf("%s [%s] %s %s %s", ui.Muted.Render("#"+shortID(t.ID)), mark, t.Title,
			ui.PriorityText(string(t.Priority)), ui.Muted.Render("("+string(t.Category)+")"))
		if t.CompletedDate != nil {
			line += ui.Muted.Render(" done " + t.CompletedDate.Format("Jan 2"))
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}
