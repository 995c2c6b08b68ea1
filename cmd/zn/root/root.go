package root

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"zenith/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "zn",
	Short:         "Zenith — local-first gamified task tracker",
	Long:          "Zenith is a local-first CLI/TUI task tracker with points, levels, daily streaks and AI task generation.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	// Credentials may live in a .env next to the working directory.
	_ = godotenv.Load()

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newDoCmd(),
		newUndoCmd(),
		newRmCmd(),
		newListCmd(),
		newStatusCmd(),
		newStatsCmd(),
		newGenerateCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newBoardCmd(),
		newAPIKeyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
