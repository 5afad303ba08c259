package commands

import (
	"fmt"
	"io"
	"os"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	genopts "github.com/reoring/genopts"
)

func NewCheckCmd() *cobra.Command {
	var asJSON bool
	var normalize bool

	cmd := &cobra.Command{
		Use:   "check <schema>...",
		Short: "Validate schema documents without resolving anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				s, diag, err := parseWithDiag(path, data)
				if err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "%s: invalid\n", path)
					if asJSON {
						printIssuesJSON(os.Stderr, err)
					} else if !printIssues(os.Stderr, err) {
						fmt.Fprintf(os.Stderr, "  %v\n", err)
					}
					continue
				}
				for _, w := range diag.Warnings() {
					fmt.Fprintf(os.Stderr, "%s: warning: %s\n", path, w)
				}
				if normalize {
					out, merr := j.MarshalIndent(s, "", "  ")
					if merr != nil {
						return merr
					}
					fmt.Println(string(out))
					continue
				}
				fmt.Printf("%s: ok (%d options)\n", path, len(s.PropertyNames()))
			}
			if failed > 0 {
				return fmt.Errorf("%d document(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Report issues as JSON")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Re-emit parsed documents as canonical JSON")

	return cmd
}

func parseWithDiag(path string, data []byte) (*genopts.Schema, genopts.Diag, error) {
	if isYAMLPath(path) {
		return genopts.ParseSchemaYAMLWithDiag(data)
	}
	return genopts.ParseSchemaWithDiag(data)
}

func isYAMLPath(path string) bool {
	for _, ext := range []string{".yaml", ".yml"} {
		if len(path) > len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

func printIssues(w io.Writer, err error) bool {
	iss, ok := genopts.AsIssues(err)
	if !ok {
		return false
	}
	for _, i := range iss {
		fmt.Fprintf(w, "  %s %s: %s\n", i.Path, i.Code, i.Message)
		if i.Hint != "" {
			fmt.Fprintf(w, "      hint: %s\n", i.Hint)
		}
	}
	return true
}

func printIssuesJSON(w io.Writer, err error) {
	iss, ok := genopts.AsIssues(err)
	if !ok {
		return
	}
	type issueJSON struct {
		Path    string         `json:"path"`
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Hint    string         `json:"hint,omitempty"`
		Params  map[string]any `json:"params,omitempty"`
	}
	out := make([]issueJSON, 0, len(iss))
	for _, i := range iss {
		out = append(out, issueJSON{Path: i.Path, Code: i.Code, Message: i.Message, Hint: i.Hint, Params: i.Params})
	}
	b, merr := j.MarshalIndent(out, "", "  ")
	if merr != nil {
		return
	}
	fmt.Fprintln(w, string(b))
}
