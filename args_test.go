package genopts_test

import (
	"reflect"
	"testing"

	genopts "github.com/reoring/genopts"
)

func TestParseArgv_Forms(t *testing.T) {
	in := genopts.ParseArgv([]string{
		"mylib",
		"--style=scss",
		"--directory", "libs/my-lib",
		"--dry-run",
		"--no-interactive",
		"--tag", "a",
		"--tag", "b",
		"--", "--style=ignored", "raw",
	})

	wantValues := map[string]any{
		"style":       "scss",
		"directory":   "libs/my-lib",
		"dryRun":      true,
		"interactive": false,
		"tag":         []any{"a", "b"},
	}
	if !reflect.DeepEqual(in.Values, wantValues) {
		t.Fatalf("expected values %v, got: %v", wantValues, in.Values)
	}
	wantArgv := []string{"mylib", "--style=ignored", "raw"}
	if !reflect.DeepEqual(in.Argv, wantArgv) {
		t.Fatalf("expected argv %v, got: %v", wantArgv, in.Argv)
	}
}

func TestParseArgv_EmptyAndEdgeTokens(t *testing.T) {
	in := genopts.ParseArgv(nil)
	if len(in.Values) != 0 || len(in.Argv) != 0 {
		t.Fatalf("expected empty input, got: %+v", in)
	}

	in = genopts.ParseArgv([]string{"--key=", "--flag"})
	if in.Values["key"] != "" {
		t.Fatalf("expected empty string value, got: %#v", in.Values["key"])
	}
	if in.Values["flag"] != true {
		t.Fatalf("expected bare flag true, got: %#v", in.Values["flag"])
	}
}

func TestParseArgv_FeedsResolver(t *testing.T) {
	in := genopts.ParseArgv([]string{"mylib", "--type", "feature"})
	if in.Values["type"] != "feature" {
		t.Fatalf("expected type flag parsed, got: %v", in.Values)
	}
	if len(in.Argv) != 1 || in.Argv[0] != "mylib" {
		t.Fatalf("expected positional kept for $default sources, got: %v", in.Argv)
	}
}
