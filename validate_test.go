package genopts_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	genopts "github.com/reoring/genopts"
)

func resolveValue(t *testing.T, doc string, name string, v any) error {
	t.Helper()
	s := mustParse(t, doc)
	_, err := genopts.Resolve(context.Background(), s, genopts.Input{Values: map[string]any{name: v}})
	return err
}

func wantCode(t *testing.T, err error, code, path string) {
	t.Helper()
	iss, ok := genopts.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected %s issue, got: %v", code, err)
	}
	if iss[0].Code != code || iss[0].Path != path {
		t.Fatalf("expected %s at %s, got: %v", code, path, iss)
	}
}

func TestValidate_NumericBounds(t *testing.T) {
	doc := `{"properties":{"port":{"type":"number","minimum":1,"maximum":65535}}}`

	if err := resolveValue(t, doc, "port", json.Number("80")); err != nil {
		t.Fatalf("expected 80 in range: %v", err)
	}
	wantCode(t, resolveValue(t, doc, "port", json.Number("0")), genopts.CodeTooSmall, "/port")
	wantCode(t, resolveValue(t, doc, "port", json.Number("70000")), genopts.CodeTooBig, "/port")

	excl := `{"properties":{"ratio":{"type":"number","exclusiveMinimum":0,"exclusiveMaximum":1}}}`
	wantCode(t, resolveValue(t, excl, "ratio", json.Number("0")), genopts.CodeTooSmall, "/ratio")
	wantCode(t, resolveValue(t, excl, "ratio", json.Number("1")), genopts.CodeTooBig, "/ratio")
	if err := resolveValue(t, excl, "ratio", 0.5); err != nil {
		t.Fatalf("expected 0.5 inside open interval: %v", err)
	}
}

func TestValidate_BoundIssueParams(t *testing.T) {
	err := resolveValue(t, `{"properties":{"n":{"type":"number","minimum":10}}}`, "n", 3)
	iss, _ := genopts.AsIssues(err)
	if len(iss) == 0 {
		t.Fatalf("expected issue, got: %v", err)
	}
	if iss[0].Params["minimum"] != 10.0 || iss[0].Params["got"] != 3.0 {
		t.Fatalf("expected bound params echoed, got: %v", iss[0].Params)
	}
}

func TestValidate_MultipleOf(t *testing.T) {
	doc := `{"properties":{"step":{"type":"number","multipleOf":5}}}`
	if err := resolveValue(t, doc, "step", 15); err != nil {
		t.Fatalf("expected 15 to pass: %v", err)
	}
	wantCode(t, resolveValue(t, doc, "step", 7), genopts.CodeNotMultipleOf, "/step")
}

func TestValidate_IntegerType(t *testing.T) {
	doc := `{"properties":{"count":{"type":"integer"}}}`
	if err := resolveValue(t, doc, "count", json.Number("3")); err != nil {
		t.Fatalf("expected 3 to be integral: %v", err)
	}
	if err := resolveValue(t, doc, "count", json.Number("3.0")); err != nil {
		t.Fatalf("expected 3.0 to count as integral: %v", err)
	}
	wantCode(t, resolveValue(t, doc, "count", json.Number("1.5")), genopts.CodeInvalidType, "/count")
	wantCode(t, resolveValue(t, doc, "count", "3"), genopts.CodeInvalidType, "/count")
}

func TestValidate_PatternAndLength(t *testing.T) {
	doc := `{"properties":{"name":{"type":"string","pattern":"^[a-z][a-z0-9-]*$","minLength":2,"maxLength":10}}}`
	if err := resolveValue(t, doc, "name", "my-lib"); err != nil {
		t.Fatalf("expected my-lib to pass: %v", err)
	}
	wantCode(t, resolveValue(t, doc, "name", "X!"), genopts.CodePattern, "/name")
	wantCode(t, resolveValue(t, doc, "name", "a"), genopts.CodeTooShort, "/name")
	wantCode(t, resolveValue(t, doc, "name", "aaaaaaaaaaaaaaa"), genopts.CodeTooLong, "/name")
}

func TestValidate_Formats(t *testing.T) {
	pathDoc := `{"properties":{"dir":{"type":"string","format":"path"}}}`
	if err := resolveValue(t, pathDoc, "dir", "src/app"); err != nil {
		t.Fatalf("expected relative path to pass: %v", err)
	}
	wantCode(t, resolveValue(t, pathDoc, "dir", `src\app`), genopts.CodeInvalidFormat, "/dir")
	wantCode(t, resolveValue(t, pathDoc, "dir", "../escape"), genopts.CodeInvalidFormat, "/dir")

	selDoc := `{"properties":{"selector":{"type":"string","format":"html-selector"}}}`
	if err := resolveValue(t, selDoc, "selector", "app-root"); err != nil {
		t.Fatalf("expected app-root to pass: %v", err)
	}
	wantCode(t, resolveValue(t, selDoc, "selector", "-bad"), genopts.CodeInvalidFormat, "/selector")

	// Unregistered formats are accepted rather than failed.
	unknown := `{"properties":{"v":{"type":"string","format":"semver"}}}`
	if err := resolveValue(t, unknown, "v", "not a semver"); err != nil {
		t.Fatalf("expected unknown format to be permissive: %v", err)
	}
}

func TestValidate_RegisteredFormat(t *testing.T) {
	genopts.RegisterFormat("shouty", func(s string) error {
		for _, r := range s {
			if r >= 'a' && r <= 'z' {
				return errNotShouty
			}
		}
		return nil
	})
	defer genopts.RegisterFormat("shouty", nil)

	doc := `{"properties":{"v":{"type":"string","format":"shouty"}}}`
	if err := resolveValue(t, doc, "v", "LOUD"); err != nil {
		t.Fatalf("expected LOUD to pass: %v", err)
	}
	wantCode(t, resolveValue(t, doc, "v", "quiet"), genopts.CodeInvalidFormat, "/v")
}

var errNotShouty = errors.New("lowercase found")

func TestValidate_ArrayItems(t *testing.T) {
	doc := `{"properties":{"tags":{"type":"array","items":{"type":"string"},"minItems":1,"maxItems":3}}}`
	if err := resolveValue(t, doc, "tags", []any{"a", "b"}); err != nil {
		t.Fatalf("expected tags to pass: %v", err)
	}
	wantCode(t, resolveValue(t, doc, "tags", []any{}), genopts.CodeTooShort, "/tags")
	wantCode(t, resolveValue(t, doc, "tags", []any{"a", "b", "c", "d"}), genopts.CodeTooLong, "/tags")
	wantCode(t, resolveValue(t, doc, "tags", []any{"a", 2}), genopts.CodeInvalidType, "/tags/1")
}

func TestValidate_NestedObject(t *testing.T) {
	doc := `{"properties":{
	  "server": {
	    "type": "object",
	    "properties": {
	      "host": { "type": "string" },
	      "port": { "type": "number", "minimum": 1 }
	    },
	    "required": ["host"],
	    "additionalProperties": false
	  }
	}}`
	if err := resolveValue(t, doc, "server", map[string]any{"host": "h", "port": 80}); err != nil {
		t.Fatalf("expected server to pass: %v", err)
	}
	wantCode(t, resolveValue(t, doc, "server", map[string]any{"port": 80}), genopts.CodeRequired, "/server/host")
	wantCode(t, resolveValue(t, doc, "server", map[string]any{"host": "h", "oops": 1}), genopts.CodeUnknownOption, "/server/oops")
	wantCode(t, resolveValue(t, doc, "server", map[string]any{"host": "h", "port": 0}), genopts.CodeTooSmall, "/server/port")
}

func TestValidate_Composition(t *testing.T) {
	oneOf := `{"properties":{"id":{"oneOf":[
	  {"type":"string","minLength":1},
	  {"type":"integer","minimum":0}
	]}}}`
	if err := resolveValue(t, oneOf, "id", "abc"); err != nil {
		t.Fatalf("expected string branch to match: %v", err)
	}
	if err := resolveValue(t, oneOf, "id", 7); err != nil {
		t.Fatalf("expected integer branch to match: %v", err)
	}
	wantCode(t, resolveValue(t, oneOf, "id", true), genopts.CodeNoMatch, "/id")

	ambiguous := `{"properties":{"v":{"oneOf":[
	  {"type":"number"},
	  {"type":"number","minimum":0}
	]}}}`
	wantCode(t, resolveValue(t, ambiguous, "v", 1), genopts.CodeAmbiguous, "/v")

	anyOf := `{"properties":{"v":{"anyOf":[
	  {"type":"number"},
	  {"type":"number","minimum":0}
	]}}}`
	if err := resolveValue(t, anyOf, "v", 1); err != nil {
		t.Fatalf("expected anyOf to accept multiple matches: %v", err)
	}

	allOf := `{"properties":{"v":{"allOf":[
	  {"type":"number","minimum":0},
	  {"multipleOf":2}
	]}}}`
	if err := resolveValue(t, allOf, "v", 4); err != nil {
		t.Fatalf("expected 4 to satisfy both branches: %v", err)
	}
	wantCode(t, resolveValue(t, allOf, "v", 3), genopts.CodeNotMultipleOf, "/v")
}

func TestValidate_EnumNumericNormalization(t *testing.T) {
	doc := `{"properties":{"level":{"enum":[1,2,3]}}}`
	if err := resolveValue(t, doc, "level", json.Number("2")); err != nil {
		t.Fatalf("expected json.Number 2 to match enum literal 2: %v", err)
	}
	if err := resolveValue(t, doc, "level", 2.0); err != nil {
		t.Fatalf("expected float 2.0 to match enum literal 2: %v", err)
	}
	wantCode(t, resolveValue(t, doc, "level", 9), genopts.CodeInvalidEnum, "/level")
}

// Hand-built properties compile their patterns on first use.
func TestValidate_HandBuiltProperty(t *testing.T) {
	p := &genopts.Property{Type: "string", Pattern: "^[a-z]+$"}
	if err := p.Validate("/word", "hello"); err != nil {
		t.Fatalf("expected hello to pass: %v", err)
	}
	err := p.Validate("/word", "Oops")
	wantCode(t, err, genopts.CodePattern, "/word")

	bad := &genopts.Property{Type: "string", Pattern: "("}
	err = bad.Validate("/word", "x")
	wantCode(t, err, genopts.CodeInvalidPattern, "/word")
}
