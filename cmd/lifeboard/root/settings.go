package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifeboard/internal/settings"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(context.Background())
			if err != nil {
				return err
			}
			defer cleanup()

			cur := a.Settings.Get()
			for _, name := range settings.Fields() {
				lock := ""
				if settings.FieldLocked(name, a.Tracker) {
					lock = " (locked)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s%s\n", name, cur.Value(name), lock)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <field> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(context.Background())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Settings.Set(args[0], args[1]); err != nil {
				return err
			}
			field, _ := settings.CanonicalField(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", field, a.Settings.Get().Value(field))
			return nil
		},
	})
	return cmd
}
