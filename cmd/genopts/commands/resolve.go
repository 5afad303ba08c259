package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	genopts "github.com/reoring/genopts"
	"github.com/reoring/genopts/termprompt"
)

func NewResolveCmd() *cobra.Command {
	var interactive bool
	var coerce bool
	var origins bool
	var outputFile string
	var sourcePairs []string

	cmd := &cobra.Command{
		Use:   "resolve <schema> [-- options...]",
		Short: "Resolve raw options against a schema document",
		Long: `Resolve raw command-line options against a generator schema and print
the final option map as JSON.

Everything after -- is parsed as generator options:

  genopts resolve schema.json -- --name demo --style scss positional`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaPath, rest, err := splitSchemaArgs(cmd, args)
			if err != nil {
				return err
			}

			loader, err := genopts.NewLoader(4)
			if err != nil {
				return err
			}
			s, err := loader.Load(schemaPath)
			if err != nil {
				if printIssues(os.Stderr, err) {
					return fmt.Errorf("schema %s is invalid", schemaPath)
				}
				return err
			}

			opt := genopts.ResolveOpt{
				Interactive:   interactive,
				CoerceStrings: coerce,
			}
			if interactive {
				opt.Prompter = termprompt.New(os.Stdin, os.Stdout)
			}
			opt.Sources, err = constantSources(sourcePairs)
			if err != nil {
				return err
			}

			r, err := genopts.ResolveWithMeta(cmd.Context(), s, genopts.ParseArgv(rest), opt)
			if err != nil {
				if printIssues(os.Stderr, err) {
					return fmt.Errorf("resolution failed")
				}
				return err
			}

			for _, w := range r.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s %s\n", w.Path, w.Message)
			}
			if origins {
				printOrigins(r.Origins)
			}

			out, err := j.MarshalIndent(r.Options, "", "  ")
			if err != nil {
				return err
			}
			if outputFile != "" {
				if err := os.WriteFile(outputFile, append(out, '\n'), 0o600); err != nil {
					return fmt.Errorf("writing options: %w", err)
				}
				fmt.Printf("Options written to %s\n", outputFile)
				return nil
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask x-prompt questions for missing options")
	cmd.Flags().BoolVar(&coerce, "coerce", true, "Convert string inputs toward declared types")
	cmd.Flags().BoolVar(&origins, "origins", false, "Print where each value came from")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringArrayVar(&sourcePairs, "source", nil, "Register a constant $default source as kind=value (repeatable)")

	return cmd
}

// constantSources turns --source kind=value pairs into a source registry
// where each kind yields its value verbatim.
func constantSources(pairs []string) (map[string]genopts.SourceFunc, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]genopts.SourceFunc, len(pairs))
	for _, pair := range pairs {
		kind, value, ok := strings.Cut(pair, "=")
		if !ok || kind == "" {
			return nil, fmt.Errorf("invalid --source %q, expected kind=value", pair)
		}
		out[kind] = func(ctx context.Context, ds genopts.DefaultSource, in genopts.Input) (any, bool, error) {
			return value, true, nil
		}
	}
	return out, nil
}

// splitSchemaArgs separates the schema path from the generator options. With
// a -- divider everything behind it belongs to the generator; without one
// the first argument is the schema and the rest are options.
func splitSchemaArgs(cmd *cobra.Command, args []string) (string, []string, error) {
	dash := cmd.ArgsLenAtDash()
	if dash > 1 {
		return "", nil, fmt.Errorf("expected one schema path before --, got %d arguments", dash)
	}
	if len(args) == 0 {
		return "", nil, fmt.Errorf("schema path required")
	}
	return args[0], args[1:], nil
}

func printOrigins(om genopts.OriginMap) {
	names := make([]string, 0, len(om))
	for name := range om {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "origin: %s = %s\n", name, om[name])
	}
}
