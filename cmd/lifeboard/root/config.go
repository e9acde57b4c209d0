package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifeboard/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the runtime config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "db_path              %s\n", cfg.DBPath)
			fmt.Fprintf(out, "settings_path        %s\n", cfg.SettingsPath)
			fmt.Fprintf(out, "user_id              %s\n", cfg.UserID)
			fmt.Fprintf(out, "log_path             %s\n", cfg.LogPath)
			fmt.Fprintf(out, "poll_interval        %s\n", cfg.PollInterval())
			fmt.Fprintf(out, "grace                %s\n", cfg.Grace())
			fmt.Fprintf(out, "horizon              %s\n", cfg.Horizon())
			fmt.Fprintf(out, "dedup_window         %s\n", cfg.DedupWindow())
			fmt.Fprintf(out, "desktop_notifications %t\n", cfg.DesktopNotifications)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init <path>",
		Short: "Write a config file with the default values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.WriteFile(path, config.DefaultRuntimeConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	return cmd
}
