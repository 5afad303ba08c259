package genopts

import (
	"regexp"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Schema is the root of a generator options document (schema.json). It is
// produced by ParseSchema/ParseSchemaYAML, fully validated there, and
// immutable afterwards.
type Schema struct {
	SchemaVersion string // $schema
	ID            string // $id
	Title         string
	Description   string

	// Properties preserves declaration order; prompting and resolution walk
	// it oldest-first.
	Properties  *orderedmap.OrderedMap[string, *Property]
	Required    []string
	Definitions map[string]*Property

	// AdditionalProperties: nil or true means undeclared raw keys pass
	// through; false rejects them before any per-property work.
	AdditionalProperties *bool

	aliasIndex map[string]string // alias -> canonical property name
}

// Property describes one option. A nil pointer field means the document did
// not declare that key. Default conflates absent and null; a JSON null
// default is treated as absent.
type Property struct {
	Type        string // string|number|integer|boolean|object|array; empty accepts anything
	Description string
	Default     any
	// DynamicDefault is the $default descriptor resolved against a named
	// source at resolution time.
	DynamicDefault *DefaultSource
	Enum           []any
	Alias          string
	Aliases        []string
	Format         string
	Visible        *bool  // nil means visible
	Ref            string // $ref, resolved away during parsing
	Prompt         *Prompt
	Deprecated     *Deprecation

	MultipleOf       *float64
	Minimum          *float64
	ExclusiveMinimum *float64
	Maximum          *float64
	ExclusiveMaximum *float64

	Pattern   string
	MinLength *int
	MaxLength *int

	Items    *Property
	MinItems *int
	MaxItems *int

	OneOf []*Property
	AnyOf []*Property
	AllOf []*Property

	// Nested object shape, validated recursively.
	Properties           *orderedmap.OrderedMap[string, *Property]
	Required             []string
	AdditionalProperties *bool

	pattern *regexp.Regexp // compiled during parsing
}

// DefaultSource describes a $default descriptor: a value computed from a
// named source at resolution time rather than a literal.
// Example: {"$source": "argv", "index": 0}.
type DefaultSource struct {
	Source string
	Index  *int
}

// Prompt type names accepted by x-prompt. An empty Prompt.Type is inferred
// from the property: boolean becomes confirmation, enum or items become
// list, everything else input.
const (
	PromptInput        = "input"
	PromptConfirmation = "confirmation"
	PromptList         = "list"
)

// Prompt is an x-prompt descriptor. The string shorthand
// ("x-prompt": "message") parses into a Prompt with only Message set.
type Prompt struct {
	Message string
	Type    string
	Items   []PromptItem
}

// PromptItem is one list choice. The bare-literal shorthand parses into an
// item whose Label is empty.
type PromptItem struct {
	Value any
	Label string
}

// Deprecation marks an option as deprecated ("x-deprecated": true or a
// message string). Supplying a deprecated option warns, it never fails.
type Deprecation struct {
	Message string
}

// AliasNames returns the property's accepted alternate names, alias first,
// in declaration order, without duplicates.
func (p *Property) AliasNames() []string {
	if p == nil {
		return nil
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(p.Aliases)+1)
	if p.Alias != "" {
		seen[p.Alias] = struct{}{}
		out = append(out, p.Alias)
	}
	for _, a := range p.Aliases {
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// IsVisible reports whether the option should appear in interactive listings
// and prompts.
func (p *Property) IsVisible() bool { return p == nil || p.Visible == nil || *p.Visible }

// PropertyNames returns declared property names in declaration order.
func (s *Schema) PropertyNames() []string {
	if s == nil || s.Properties == nil {
		return nil
	}
	out := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Lookup finds a property by canonical name or alias. It returns the
// property, its canonical name, and whether it was found.
func (s *Schema) Lookup(name string) (*Property, string, bool) {
	if s == nil || s.Properties == nil {
		return nil, "", false
	}
	if p, ok := s.Properties.Get(name); ok {
		return p, name, true
	}
	if s.aliasIndex != nil {
		if canonical, ok := s.aliasIndex[name]; ok {
			p, _ := s.Properties.Get(canonical)
			return p, canonical, true
		}
		return nil, "", false
	}
	// Hand-constructed schemas have no prebuilt index; scan in order.
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		for _, a := range pair.Value.AliasNames() {
			if a == name {
				return pair.Value, pair.Key, true
			}
		}
	}
	return nil, "", false
}

// IsRequired reports whether the named property appears in required.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// AllowsUnknown reports whether undeclared raw input keys are accepted
// (additionalProperties absent or true).
func (s *Schema) AllowsUnknown() bool {
	return s == nil || s.AdditionalProperties == nil || *s.AdditionalProperties
}
