// Package schemagen reflects Go structs into generator option schemas, for
// tools that keep their options as typed config rather than hand-written
// schema.json files.
package schemagen

import (
	"encoding/json"
	"errors"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	genopts "github.com/reoring/genopts"
)

// Options shapes the generated document. Prompts, Aliases and
// DynamicDefaults attach by property name, since struct tags cannot express
// them.
type Options struct {
	ID          string
	Title       string
	Description string
	// Strict sets additionalProperties:false so unknown raw inputs are
	// rejected at resolution time.
	Strict bool
	// FieldNameTag picks the struct tag for property names ("json" when
	// empty, "yaml" for YAML-tagged config types).
	FieldNameTag string

	Prompts         map[string]genopts.Prompt
	Aliases         map[string][]string
	DynamicDefaults map[string]genopts.DefaultSource
}

// Generate reflects v into a schema document. Standard jsonschema struct
// tags (description, default, enum, minimum, pattern, required) carry over.
func Generate(v any, opts Options) (*genopts.Schema, error) {
	if v == nil {
		return nil, errors.New("schemagen: nil value")
	}
	r := &jsonschema.Reflector{
		// Inline everything so the conversion never chases $defs.
		DoNotReference:             true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               opts.FieldNameTag,
	}
	reflected := r.Reflect(v)

	s := &genopts.Schema{
		SchemaVersion: "http://json-schema.org/draft-07/schema#",
		ID:            opts.ID,
		Title:         opts.Title,
		Description:   opts.Description,
		Properties:    orderedmap.New[string, *genopts.Property](),
		Required:      reflected.Required,
	}
	if s.Title == "" {
		s.Title = reflected.Title
	}
	if s.Description == "" {
		s.Description = reflected.Description
	}
	if opts.Strict {
		f := false
		s.AdditionalProperties = &f
	}

	if reflected.Properties != nil {
		for pair := reflected.Properties.Oldest(); pair != nil; pair = pair.Next() {
			s.Properties.Set(pair.Key, convertProperty(pair.Value))
		}
	}

	for name, prompt := range opts.Prompts {
		if p, ok := s.Properties.Get(name); ok {
			cp := prompt
			p.Prompt = &cp
		}
	}
	for name, aliases := range opts.Aliases {
		if p, ok := s.Properties.Get(name); ok {
			p.Aliases = aliases
		}
	}
	for name, ds := range opts.DynamicDefaults {
		if p, ok := s.Properties.Get(name); ok {
			cds := ds
			p.DynamicDefault = &cds
		}
	}
	return s, nil
}

// GenerateBytes is Generate plus indented JSON, ready to write next to a
// generator.
func GenerateBytes(v any, opts Options) ([]byte, error) {
	s, err := Generate(v, opts)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}

func convertProperty(src *jsonschema.Schema) *genopts.Property {
	if src == nil {
		return &genopts.Property{}
	}
	p := &genopts.Property{
		Type:        src.Type,
		Description: src.Description,
		Default:     src.Default,
		Enum:        src.Enum,
		Format:      src.Format,
		Pattern:     src.Pattern,

		MultipleOf:       boundPtr(src.MultipleOf),
		Minimum:          boundPtr(src.Minimum),
		ExclusiveMinimum: boundPtr(src.ExclusiveMinimum),
		Maximum:          boundPtr(src.Maximum),
		ExclusiveMaximum: boundPtr(src.ExclusiveMaximum),

		MinLength: countPtr(src.MinLength),
		MaxLength: countPtr(src.MaxLength),
		MinItems:  countPtr(src.MinItems),
		MaxItems:  countPtr(src.MaxItems),

		Required: src.Required,
	}
	if src.Items != nil {
		p.Items = convertProperty(src.Items)
	}
	for _, b := range src.OneOf {
		p.OneOf = append(p.OneOf, convertProperty(b))
	}
	for _, b := range src.AnyOf {
		p.AnyOf = append(p.AnyOf, convertProperty(b))
	}
	for _, b := range src.AllOf {
		p.AllOf = append(p.AllOf, convertProperty(b))
	}
	if src.Properties != nil {
		p.Properties = orderedmap.New[string, *genopts.Property]()
		for pair := src.Properties.Oldest(); pair != nil; pair = pair.Next() {
			p.Properties.Set(pair.Key, convertProperty(pair.Value))
		}
	}
	switch src.AdditionalProperties {
	case jsonschema.FalseSchema:
		f := false
		p.AdditionalProperties = &f
	case jsonschema.TrueSchema:
		t := true
		p.AdditionalProperties = &t
	}
	if msg, ok := src.Extras["x-prompt"].(string); ok {
		p.Prompt = &genopts.Prompt{Message: msg}
	}
	switch dep := src.Extras["x-deprecated"].(type) {
	case bool:
		if dep {
			p.Deprecated = &genopts.Deprecation{}
		}
	case string:
		p.Deprecated = &genopts.Deprecation{Message: dep}
	}
	return p
}

func boundPtr(n json.Number) *float64 {
	if n == "" {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}

func countPtr(u *uint64) *int {
	if u == nil {
		return nil
	}
	i := int(*u)
	return &i
}
