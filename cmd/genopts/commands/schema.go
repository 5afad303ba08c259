package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	genopts "github.com/reoring/genopts"
)

func NewSchemaCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the meta-schema for schema.json documents",
		Long: `Print the JSON Schema describing the schema.json format itself, for IDE
autocomplete and validation while editing generator documents.

Point your editor at the written file, for example with yaml-language-server:

  # yaml-language-server: $schema=./genopts-schema.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaBytes := genopts.MetaSchema()

			if outputFile != "" {
				if dir := filepath.Dir(outputFile); dir != "." {
					if err := os.MkdirAll(dir, 0o750); err != nil {
						return fmt.Errorf("creating directory %s: %w", dir, err)
					}
				}
				if err := os.WriteFile(outputFile, schemaBytes, 0o600); err != nil {
					return fmt.Errorf("writing schema: %w", err)
				}
				fmt.Printf("Meta-schema written to %s\n", outputFile)
				return nil
			}
			fmt.Print(string(schemaBytes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
