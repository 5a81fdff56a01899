package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/panectl/internal/cli"
)

var (
	intentPath    string
	intentPayload string
)

var intentCmd = &cobra.Command{
	Use:   "intent <intent> [key=value...]",
	Short: "Find where an intent opens",
	Long: `Resolve --path, then look for the innermost pane that can handle the
intent. If none can, the document opens in a fallback editor.

Examples:
  panectl intent edit id=ada type=author --path authors
  panectl intent create type=author template=author-with-bio --payload '{"name":"Ada"}'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIntent,
}

func init() {
	rootCmd.AddCommand(intentCmd)
	intentCmd.Flags().StringVar(&intentPath, "path", "", "pane segment the intent is raised from")
	intentCmd.Flags().StringVar(&intentPayload, "payload", "", "JSON payload handed to the opened pane")
	intentCmd.Flags().DurationVar(&resolveTimeout, "timeout", defaultResolveTimeout, "give up when panes have not settled after this long")
}

func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q, expected key=value", arg)
		}
		params[key] = value
	}
	return params, nil
}

func runIntent(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	params, err := parseParams(args[1:])
	if err != nil {
		return err
	}
	var payload any
	if intentPayload != "" {
		if err := json.Unmarshal([]byte(intentPayload), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", err)
		}
	}

	res, err := app.OpenIntent(app.Ctx(), cli.IntentRequest{
		Segment: intentPath,
		Intent:  args[0],
		Params:  params,
		Payload: payload,
	}, resolveTimeout)
	if err != nil {
		return err
	}

	theme := app.Theme
	how := theme.SuccessStyle.Render("in place")
	if res.Fallback {
		how = theme.WarningStyle.Render("fallback editor")
	}
	cmd.Println(theme.Subtle.Render("opens ") + how)
	cmd.Println(res.Segment())
	return nil
}
