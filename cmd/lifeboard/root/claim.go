package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifeboard/internal/achievement"
	"github.com/sandeepkv93/lifeboard/internal/model"
)

func newClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <achievement-id>",
		Short: "Claim an unlocked achievement and apply its reward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id := model.AchievementID(strings.ToLower(strings.TrimSpace(args[0])))
			res, err := a.Claimer.ClaimID(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Notice.Text)
			if res.Outcome == achievement.OutcomeLocked {
				return fmt.Errorf("%s is not unlocked yet", id)
			}
			return nil
		},
	}
}
