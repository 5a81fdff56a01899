package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/panectl/internal/cli/styles"
	"github.com/bnema/panectl/internal/infrastructure/structure"
)

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Inspect the structure file",
}

var structureCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the structure file and print its tree",
	RunE:  runStructureCheck,
}

var structureSchemaCmd = &cobra.Command{
	Use:         "schema",
	Short:       "Print the JSON schema of the structure file",
	Annotations: map[string]string{"standalone": "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := structure.Schema()
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(structureCmd)
	structureCmd.AddCommand(structureCheckCmd, structureSchemaCmd)
}

func runStructureCheck(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	path := app.Config.Structure.Path
	if opts.StructureFile != "" {
		path = opts.StructureFile
	}
	def, err := structure.LoadFile(path)
	if err != nil {
		return err
	}

	var b strings.Builder
	writeTree(&b, app.Theme, &def.Root, 0)
	cmd.Print(b.String())
	if len(def.Templates) > 0 {
		cmd.Println(app.Theme.Subtitle.Render("templates"))
		for _, tpl := range def.Templates {
			cmd.Printf("  %s %s\n", tpl.ID, app.Theme.Subtle.Render("→ "+tpl.SchemaType))
		}
	}
	cmd.Println(app.Theme.SuccessStyle.Render(fmt.Sprintf("%s is valid", path)))
	return nil
}

func writeTree(b *strings.Builder, theme *styles.Theme, n *structure.NodeDef, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(theme.Normal.Render(n.ID))
	b.WriteString(" ")
	detail := string(n.Type)
	if n.SchemaType != "" {
		detail += ":" + n.SchemaType
	}
	if n.Live {
		detail += " live"
	}
	b.WriteString(theme.Subtle.Render(detail))
	b.WriteString("\n")
	for i := range n.Items {
		writeTree(b, theme, &n.Items[i], depth+1)
	}
}
