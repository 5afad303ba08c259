package genopts_test

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	genopts "github.com/reoring/genopts"
)

func TestParseSchemaYAML_OrderAndScalars(t *testing.T) {
	doc := []byte(`
title: Library generator
properties:
  zeta:
    type: string
  alpha:
    type: number
    minimum: 1.5
  count:
    type: integer
    default: 3
required:
  - zeta
`)
	s, err := genopts.ParseSchemaYAML(doc)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if s.Title != "Library generator" {
		t.Fatalf("expected title, got: %q", s.Title)
	}
	want := []string{"zeta", "alpha", "count"}
	if got := s.PropertyNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected yaml order %v, got: %v", want, got)
	}

	r, err := genopts.Resolve(context.Background(), s,
		genopts.Input{Values: map[string]any{"zeta": "z", "alpha": 2.5}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r["count"] != json.Number("3") {
		t.Fatalf("expected integer default as json.Number, got: %#v", r["count"])
	}

	_, err = genopts.Resolve(context.Background(), s,
		genopts.Input{Values: map[string]any{"zeta": "z", "alpha": 1}})
	iss, ok := genopts.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != genopts.CodeTooSmall {
		t.Fatalf("expected yaml minimum enforced, got: %v", err)
	}
}

func TestParseSchemaYAML_DuplicateKey(t *testing.T) {
	doc := []byte(`
properties:
  a:
    type: string
  a:
    type: number
`)
	_, err := genopts.ParseSchemaYAML(doc)
	iss, ok := genopts.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != genopts.CodeDuplicateKey {
		t.Fatalf("expected duplicate_key, got: %v", err)
	}
	if iss[0].Path != "/properties/a" {
		t.Fatalf("expected path=/properties/a, got: %s", iss[0].Path)
	}
	if !strings.Contains(iss[0].Hint, "line") {
		t.Fatalf("expected line hint, got: %q", iss[0].Hint)
	}
}

func TestParseSchemaYAML_Anchors(t *testing.T) {
	doc := []byte(`
definitions:
  str: &str
    type: string
    minLength: 2
properties:
  first: *str
  last: *str
`)
	s, err := genopts.ParseSchemaYAML(doc)
	if err != nil {
		t.Fatalf("parse yaml with anchors: %v", err)
	}
	first, _, ok := s.Lookup("first")
	if !ok || first.MinLength == nil || *first.MinLength != 2 {
		t.Fatalf("expected anchored shape on first, got: %+v", first)
	}
}

func TestParseSchemaYAML_MatchesJSONDocument(t *testing.T) {
	yamlDoc := []byte(`
properties:
  name:
    type: string
    $default:
      $source: argv
      index: 0
  type:
    type: string
    enum: [data-access, feature, state]
required: [name]
`)
	ys, err := genopts.ParseSchemaYAML(yamlDoc)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	js := mustParse(t, libraryDoc)

	in := genopts.Input{Argv: []string{"mylib"}}
	fromYAML, err := genopts.Resolve(context.Background(), ys, in)
	if err != nil {
		t.Fatalf("resolve yaml schema: %v", err)
	}
	fromJSON, err := genopts.Resolve(context.Background(), js, in)
	if err != nil {
		t.Fatalf("resolve json schema: %v", err)
	}
	if !reflect.DeepEqual(fromYAML, fromJSON) {
		t.Fatalf("expected same resolution, got %v vs %v", fromYAML, fromJSON)
	}
}
