package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zenith/internal/storage"
	"zenith/internal/ui"
)

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Overwrite all data from the backup slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Restore(ctx); err != nil {
				if errors.Is(err, storage.ErrNoBackup) {
					return errors.New("no backup exists, run `zn backup` first")
				}
				return err
			}

			points := svc.Points()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Restored from backup: %d active, %d archived tasks, level %d\n",
				ui.Good.Render(ui.IconBackup), len(svc.Tasks()), len(svc.ArchivedTasks()), points.Level)
			return nil
		},
	}

	return cmd
}
