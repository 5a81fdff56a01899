package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/bnema/panectl/internal/cli/styles"
	"github.com/bnema/panectl/internal/domain/entity"
)

const defaultDocsLimit = 50

var (
	docType   string
	docTitle  string
	docsLimit int
	docsJSON  bool
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the local document index",
	Long: `The document index tells panectl which documents exist and what type
they are. Document lists resolve their children from it and fallback
editors look up document types in it.`,
}

var docsAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add or update a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsAdd,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove a document",
	Args:    cobra.ExactArgs(1),
	RunE:    runDocsRemove,
}

var docsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the document index lives and its schema version",
	Args:  cobra.NoArgs,
	RunE:  runDocsStatus,
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsAddCmd, docsListCmd, docsRemoveCmd, docsStatusCmd)

	docsAddCmd.Flags().StringVar(&docType, "type", "", "document type (required)")
	docsAddCmd.Flags().StringVar(&docTitle, "title", "", "document title")
	_ = docsAddCmd.MarkFlagRequired("type")

	docsListCmd.Flags().StringVar(&docType, "type", "", "only list documents of this type")
	docsListCmd.Flags().IntVar(&docsLimit, "limit", defaultDocsLimit, "maximum documents to list (0 for all)")
	docsListCmd.Flags().BoolVar(&docsJSON, "json", false, "output as JSON")
}

func runDocsAdd(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	doc := &entity.Document{ID: args[0], Type: docType, Title: docTitle, UpdatedAt: time.Now()}
	if err := app.Store.Put(doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	// the write is asynchronous; make sure it landed before reporting
	if err := app.Store.Close(); err != nil {
		return err
	}
	if _, err := app.Documents.Get(app.Ctx(), doc.ID); err != nil {
		return fmt.Errorf("add document: %w", err)
	}

	cmd.Println(app.Theme.SuccessStyle.Render("saved ") + doc.ID + app.Theme.Subtle.Render(" ("+doc.Type+")"))
	return nil
}

type documentJSON struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	docs, err := app.Documents.List(app.Ctx(), docType, docsLimit)
	if err != nil {
		return err
	}

	if docsJSON {
		out := make([]documentJSON, 0, len(docs))
		for _, d := range docs {
			out = append(out, documentJSON{ID: d.ID, Type: d.Type, Title: d.Title, UpdatedAt: d.UpdatedAt})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(docs) == 0 {
		cmd.Println(app.Theme.Subtle.Render("no documents"))
		return nil
	}
	rows := make([]table.Row, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, table.Row{d.ID, d.Type, d.Title, d.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}
	cmd.Println(styles.RenderTable(app.Theme, styles.DocumentTableColumns(), rows))
	return nil
}

func runDocsRemove(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	if _, err := app.Documents.Get(app.Ctx(), args[0]); err != nil {
		return err
	}
	if err := app.Documents.Delete(app.Ctx(), args[0]); err != nil {
		return err
	}
	cmd.Println(app.Theme.SuccessStyle.Render("removed ") + args[0])
	return nil
}

func runDocsStatus(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	status, err := app.IndexStatus(app.Ctx())
	if err != nil {
		return err
	}
	docs, err := app.Documents.List(app.Ctx(), "", 0)
	if err != nil {
		return err
	}

	theme := app.Theme
	schema := theme.SuccessStyle.Render(fmt.Sprintf("v%d", status.Version))
	if !status.UpToDate() {
		schema = theme.WarningStyle.Render(fmt.Sprintf("v%d of v%d, %d pending", status.Version, status.Latest, status.Pending))
	}
	cmd.Println(theme.Subtle.Render("index     ") + app.IndexPath())
	cmd.Println(theme.Subtle.Render("schema    ") + schema)
	cmd.Println(theme.Subtle.Render("documents ") + fmt.Sprint(len(docs)))
	return nil
}
