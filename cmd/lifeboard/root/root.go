package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var configPath string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lifeboard",
		Short:         "Tasks, habits and achievements with local reminders",
		Long:          "lifeboard is a local-first dashboard for tasks, habits, notes and events. It unlocks achievements from your activity and sends desktop reminders.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (default $LIFEBOARD_CONFIG)")

	cmd.AddCommand(
		newBoardCmd(),
		newAchievementsCmd(),
		newClaimCmd(),
		newSettingsCmd(),
		newRemindCmd(),
		newMigrateCmd(),
		newConfigCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lifeboard: "+err.Error())
		os.Exit(1)
	}
}
