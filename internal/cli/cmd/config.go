package cmd

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/bnema/panectl/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		cmd.Println(app.Manager.GetConfigFile())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(app.Config); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		cmd.Print(buf.String())
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:         "schema",
	Short:       "Print the JSON schema of config.toml",
	Annotations: map[string]string{"standalone": "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := config.Schema()
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configShowCmd, configSchemaCmd)
}
