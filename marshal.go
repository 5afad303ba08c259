package genopts

import (
	"sort"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MarshalJSON emits the document in a normalized form with property
// declaration order preserved.
func (s *Schema) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any]()
	if s.SchemaVersion != "" {
		om.Set("$schema", s.SchemaVersion)
	}
	if s.ID != "" {
		om.Set("$id", s.ID)
	}
	if s.Title != "" {
		om.Set("title", s.Title)
	}
	if s.Description != "" {
		om.Set("description", s.Description)
	}
	om.Set("type", "object")
	if s.Properties != nil && s.Properties.Len() > 0 {
		om.Set("properties", s.Properties)
	}
	if len(s.Required) > 0 {
		om.Set("required", s.Required)
	}
	if len(s.Definitions) > 0 {
		om.Set("definitions", sortedProps(s.Definitions))
	}
	if s.AdditionalProperties != nil {
		om.Set("additionalProperties", *s.AdditionalProperties)
	}
	return json.Marshal(om)
}

// MarshalJSON emits one property spec with a canonical key order.
func (p *Property) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any]()
	if p.Ref != "" {
		om.Set("$ref", p.Ref)
	}
	if p.Type != "" {
		om.Set("type", p.Type)
	}
	if p.Description != "" {
		om.Set("description", p.Description)
	}
	if p.Default != nil {
		om.Set("default", p.Default)
	}
	if p.DynamicDefault != nil {
		om.Set("$default", p.DynamicDefault)
	}
	if len(p.Enum) > 0 {
		om.Set("enum", p.Enum)
	}
	if p.Alias != "" {
		om.Set("alias", p.Alias)
	}
	if len(p.Aliases) > 0 {
		om.Set("aliases", p.Aliases)
	}
	if p.Format != "" {
		om.Set("format", p.Format)
	}
	if p.Visible != nil {
		om.Set("visible", *p.Visible)
	}
	if p.Prompt != nil {
		om.Set("x-prompt", p.Prompt)
	}
	if p.Deprecated != nil {
		om.Set("x-deprecated", p.Deprecated)
	}
	if p.MultipleOf != nil {
		om.Set("multipleOf", *p.MultipleOf)
	}
	if p.Minimum != nil {
		om.Set("minimum", *p.Minimum)
	}
	if p.ExclusiveMinimum != nil {
		om.Set("exclusiveMinimum", *p.ExclusiveMinimum)
	}
	if p.Maximum != nil {
		om.Set("maximum", *p.Maximum)
	}
	if p.ExclusiveMaximum != nil {
		om.Set("exclusiveMaximum", *p.ExclusiveMaximum)
	}
	if p.Pattern != "" {
		om.Set("pattern", p.Pattern)
	}
	if p.MinLength != nil {
		om.Set("minLength", *p.MinLength)
	}
	if p.MaxLength != nil {
		om.Set("maxLength", *p.MaxLength)
	}
	if p.Items != nil {
		om.Set("items", p.Items)
	}
	if p.MinItems != nil {
		om.Set("minItems", *p.MinItems)
	}
	if p.MaxItems != nil {
		om.Set("maxItems", *p.MaxItems)
	}
	if len(p.OneOf) > 0 {
		om.Set("oneOf", p.OneOf)
	}
	if len(p.AnyOf) > 0 {
		om.Set("anyOf", p.AnyOf)
	}
	if len(p.AllOf) > 0 {
		om.Set("allOf", p.AllOf)
	}
	if p.Properties != nil && p.Properties.Len() > 0 {
		om.Set("properties", p.Properties)
	}
	if len(p.Required) > 0 {
		om.Set("required", p.Required)
	}
	if p.AdditionalProperties != nil {
		om.Set("additionalProperties", *p.AdditionalProperties)
	}
	return json.Marshal(om)
}

// MarshalJSON emits the normalized object form even when the document used
// the string shorthand.
func (pr *Prompt) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any]()
	om.Set("message", pr.Message)
	if pr.Type != "" {
		om.Set("type", pr.Type)
	}
	if len(pr.Items) > 0 {
		om.Set("items", pr.Items)
	}
	return json.Marshal(om)
}

// MarshalJSON keeps the bare-literal shorthand for label-less items.
func (it PromptItem) MarshalJSON() ([]byte, error) {
	if it.Label == "" {
		return json.Marshal(it.Value)
	}
	om := orderedmap.New[string, any]()
	om.Set("value", it.Value)
	om.Set("label", it.Label)
	return json.Marshal(om)
}

func (ds *DefaultSource) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any]()
	om.Set("$source", ds.Source)
	if ds.Index != nil {
		om.Set("index", *ds.Index)
	}
	return json.Marshal(om)
}

// MarshalJSON emits true for message-less deprecations and the message
// string otherwise.
func (d *Deprecation) MarshalJSON() ([]byte, error) {
	if d.Message == "" {
		return []byte("true"), nil
	}
	return json.Marshal(d.Message)
}

func sortedProps(m map[string]*Property) *orderedmap.OrderedMap[string, *Property] {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	om := orderedmap.New[string, *Property]()
	for _, k := range keys {
		om.Set(k, m[k])
	}
	return om
}
