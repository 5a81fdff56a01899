package cmd

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/panectl/internal/cli"
	"github.com/bnema/panectl/internal/cli/styles"
)

const defaultResolveTimeout = 10 * time.Second

var (
	resolveTimeout time.Duration
	resolveJSON    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <segment>",
	Short: "Resolve a pane segment and print the panes",
	Long: `Resolve a pane route segment to completion.

Levels are separated by ';', split panes by '|' and params by ','. Missing
panes cut the route short; the route printed last is what a router would
show after the resolution.

Examples:
  panectl resolve "settings;general"
  panectl resolve "authors;ada,view=edit|,view=preview" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", defaultResolveTimeout, "give up when panes have not settled after this long")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "output as JSON")
}

type paneJSON struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

type resolutionJSON struct {
	Requested   string     `json:"requested"`
	Route       string     `json:"route"`
	Panes       []paneJSON `json:"panes"`
	Suggestions []string   `json:"suggestions,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	res, err := app.ResolveSegment(app.Ctx(), args[0], resolveTimeout)
	if err != nil {
		return err
	}

	if resolveJSON {
		return writeResolutionJSON(cmd, args[0], res)
	}

	theme := app.Theme
	cmd.Println(theme.RenderBreadcrumb(res.State.Panes, app.Fallback.Matches))
	cmd.Println()
	cmd.Println(styles.RenderTable(theme, styles.PaneTableColumns(), styles.PaneRows(res.State.Panes)))
	cmd.Println()
	route := theme.Normal.Render(res.Segment)
	if res.Segment != args[0] {
		route = theme.WarningStyle.Render(res.Segment)
	}
	cmd.Println(theme.Subtle.Render("route ") + route)
	if len(res.Suggestions) > 0 {
		cmd.Println(theme.Subtle.Render("did you mean ") + theme.Normal.Render(strings.Join(res.Suggestions, ", ")))
	}
	return nil
}

func writeResolutionJSON(cmd *cobra.Command, requested string, res *cli.Resolution) error {
	out := resolutionJSON{Requested: requested, Route: res.Segment, Suggestions: res.Suggestions}
	for i, p := range res.State.Panes {
		if p == nil {
			continue
		}
		out.Panes = append(out.Panes, paneJSON{Index: i, ID: p.ID, Type: string(p.Type), Title: p.Title})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
