package schemagen_test

import (
	"context"
	"reflect"
	"strings"
	"testing"

	genopts "github.com/reoring/genopts"
	"github.com/reoring/genopts/schemagen"
)

type libraryOptions struct {
	Name   string   `json:"name" jsonschema:"required,minLength=1,description=Library name"`
	Style  string   `json:"style,omitempty" jsonschema:"enum=css,enum=scss,default=css"`
	Port   int      `json:"port,omitempty" jsonschema:"minimum=1,maximum=65535"`
	DryRun bool     `json:"dryRun,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

func TestGenerate_ReflectsStruct(t *testing.T) {
	zero := 0
	s, err := schemagen.Generate(&libraryOptions{}, schemagen.Options{
		Title:  "Library generator",
		Strict: true,
		Prompts: map[string]genopts.Prompt{
			"style": {Message: "Which style?"},
		},
		Aliases: map[string][]string{
			"dryRun": {"d"},
		},
		DynamicDefaults: map[string]genopts.DefaultSource{
			"name": {Source: "argv", Index: &zero},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	wantOrder := []string{"name", "style", "port", "dryRun", "tags"}
	if got := s.PropertyNames(); !reflect.DeepEqual(got, wantOrder) {
		t.Fatalf("expected field order %v, got: %v", wantOrder, got)
	}
	if !reflect.DeepEqual(s.Required, []string{"name"}) {
		t.Fatalf("expected only tagged field required, got: %v", s.Required)
	}
	if s.AllowsUnknown() {
		t.Fatalf("expected Strict to reject unknown options")
	}

	name, _, _ := s.Lookup("name")
	if name.Type != "string" || name.MinLength == nil || *name.MinLength != 1 {
		t.Fatalf("expected string name with minLength, got: %+v", name)
	}
	if name.Description != "Library name" {
		t.Fatalf("expected description from tag, got: %q", name.Description)
	}
	if name.DynamicDefault == nil || name.DynamicDefault.Source != "argv" {
		t.Fatalf("expected attached $default, got: %+v", name.DynamicDefault)
	}

	style, _, _ := s.Lookup("style")
	if len(style.Enum) != 2 || style.Default != "css" {
		t.Fatalf("expected enum and default from tags, got: %+v", style)
	}
	if style.Prompt == nil || style.Prompt.Message != "Which style?" {
		t.Fatalf("expected attached prompt, got: %+v", style.Prompt)
	}

	port, _, _ := s.Lookup("port")
	if port.Type != "integer" || port.Minimum == nil || *port.Minimum != 1 {
		t.Fatalf("expected integer bounds, got: %+v", port)
	}

	dryRun, _, _ := s.Lookup("dryRun")
	if dryRun.Type != "boolean" || !reflect.DeepEqual(dryRun.Aliases, []string{"d"}) {
		t.Fatalf("expected boolean with alias, got: %+v", dryRun)
	}

	tags, _, _ := s.Lookup("tags")
	if tags.Type != "array" || tags.Items == nil || tags.Items.Type != "string" {
		t.Fatalf("expected string array, got: %+v", tags)
	}
}

func TestGenerate_ResolvesEndToEnd(t *testing.T) {
	s, err := schemagen.Generate(&libraryOptions{}, schemagen.Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	got, err := genopts.Resolve(context.Background(), s,
		genopts.Input{Values: map[string]any{"name": "mylib"}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got["name"] != "mylib" || got["style"] != "css" {
		t.Fatalf("expected name and defaulted style, got: %v", got)
	}
}

func TestGenerateBytes_OrderedOutput(t *testing.T) {
	out, err := schemagen.GenerateBytes(&libraryOptions{}, schemagen.Options{Title: "Library generator"})
	if err != nil {
		t.Fatalf("generate bytes: %v", err)
	}
	text := string(out)
	ni := strings.Index(text, `"name"`)
	si := strings.Index(text, `"style"`)
	if ni < 0 || si < 0 || ni > si {
		t.Fatalf("expected name before style, got: %s", text)
	}
	if !strings.Contains(text, `"title"`) {
		t.Fatalf("expected title emitted, got: %s", text)
	}
}

func TestGenerate_NilValue(t *testing.T) {
	if _, err := schemagen.Generate(nil, schemagen.Options{}); err == nil {
		t.Fatalf("expected error for nil value")
	}
}
