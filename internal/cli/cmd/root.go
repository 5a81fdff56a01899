// Package cmd provides Cobra CLI commands for panectl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/panectl/internal/cli"
)

var (
	app     *cli.App
	opts    cli.Options
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "panectl",
		Short: "Resolve pane routes against a structure tree",
		Long: `panectl turns pane route segments into chains of panes.

A segment such as "authors;ada,view=edit|,view=preview" names one pane per
level, split panes inside a level and params per pane. panectl resolves it
against the structure file, opens documents from the local index and tells
you which panes actually exist.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			if cmd.Annotations["standalone"] == "true" {
				return nil
			}
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp(opts)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (default $XDG_CONFIG_HOME/panectl/config.toml)")
	flags.StringVar(&opts.StructureFile, "structure", "", "structure file (overrides structure.path)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("panectl %s\n", version)
		},
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion sets the version printed by "panectl version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

func requireApp() (*cli.App, error) {
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}
