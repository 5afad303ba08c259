package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/genopts/i18n"
)

func NewRootCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "genopts",
		Short: "Resolve code-generator options against a schema document",
		Long: `genopts turns raw command-line inputs into a validated option map
by walking a generator's schema.json: raw values first, then defaults,
dynamic defaults, and interactive prompts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if lang != "" {
				i18n.SetLanguage(lang)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&lang, "lang", os.Getenv("GENOPTS_LANG"), "Message language (en, ja)")

	cmd.AddCommand(NewResolveCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
