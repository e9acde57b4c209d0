package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind <HH:MM|off>",
		Short: "Set or clear the daily reminder time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(context.Background())
			if err != nil {
				return err
			}
			defer cleanup()

			value := strings.TrimSpace(args[0])
			if strings.EqualFold(value, "off") {
				value = ""
			}
			if err := a.Settings.SetDailyReminderTime(value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "daily reminder: %s\n", a.Settings.Get().Value("dailyReminderTime"))
			return nil
		},
	}
}
