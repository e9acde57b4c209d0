package root

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifeboard/internal/update"
)

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the dashboard (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd)
		},
	}
}

func runBoard(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a, cleanup, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	model := update.NewModel(a)
	defer model.Close()
	a.Start(ctx)

	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout()))
	_, err = program.Run()
	return err
}
