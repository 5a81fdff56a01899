package cmd

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/panectl/internal/cli/model"
	"github.com/bnema/panectl/internal/infrastructure/router"
	"github.com/bnema/panectl/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch [segment]",
	Short: "Navigate pane segments interactively",
	Long: `Open an interactive view that resolves every segment you enter and
keeps the panes live: edits to the structure file and the config file are
picked up while the view is open.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	// logs would tear the alternate screen
	logger := logging.FromContext(app.Ctx()).Output(io.Discard)
	ctx, cancel := context.WithCancel(logging.WithContext(app.Ctx(), logger))
	defer cancel()

	if app.Config.Structure.Watch {
		if err := app.Structure.Watch(ctx); err != nil {
			return err
		}
	}
	if err := app.WatchConfig(); err != nil {
		logger.Warn().Err(err).Msg("config watch unavailable")
	}

	app.Registry.Register()
	defer app.Registry.Unregister()

	r := router.NewMemory(ctx)
	states := app.NewNavigator(r).Run(ctx, r.Paths())
	if len(args) == 1 {
		r.Push(ctx, args[0])
	}

	m := model.NewWatchModel(ctx, app.Theme, r, states, app.Fallback.Matches)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
