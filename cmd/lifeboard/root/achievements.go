package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifeboard/internal/views"
)

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"ach"},
		Short:   "List achievement progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(context.Background())
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			for _, p := range a.Tracker.Progress() {
				fmt.Fprintf(out, "%s %-18s %-18s %3d%%  %d/%d  %s\n",
					p.Icon, p.ID, p.Name, p.Percent, min(p.Count, p.Target), p.Target,
					views.AchievementStatus(p.Unlocked, p.Claimed))
			}
			return nil
		},
	}
}
