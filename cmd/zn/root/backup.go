package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"zenith/internal/ui"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot all data into the backup slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Backup(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Backup created (%d active, %d archived tasks)\n",
				ui.Good.Render(ui.IconBackup), len(svc.Tasks()), len(svc.ArchivedTasks()))
			return nil
		},
	}

	return cmd
}
