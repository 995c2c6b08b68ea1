package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zenith/internal/ui"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage the stored completion-service API key",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <key>",
			Short: "Store the API key",
			Args: func(cmd *cobra.Command, args []string) error {
				if len(args) != 1 || args[0] == "" {
					return errors.New("key is required")
				}
				return nil
			},
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				store, cleanup, err := openStore(ctx)
				if err != nil {
					return err
				}
				defer cleanup()

				if err := store.SetAPIKey(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("API key saved"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored API key",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				store, cleanup, err := openStore(ctx)
				if err != nil {
					return err
				}
				defer cleanup()

				if err := store.SetAPIKey(ctx, ""); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("API key removed"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether an API key is configured",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				store, cleanup, err := openStore(ctx)
				if err != nil {
					return err
				}
				defer cleanup()

				key, err := store.APIKey(ctx)
				if err != nil {
					return err
				}
				if key == "" {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("no API key stored"))
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "API key stored (…%s)\n", key[max(0, len(key)-4):])
				return nil
			},
		},
	)

	return cmd
}
