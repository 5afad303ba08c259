package genopts

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/reoring/genopts/i18n"
	"github.com/reoring/genopts/internal/scan"
)

type objNode = orderedmap.OrderedMap[string, any]

// Diag carries non-fatal warnings produced while parsing a document.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }

// ParseSchema parses and validates a JSON schema document. The returned
// Schema is immutable; every configuration problem (malformed keys,
// unresolved $ref, bad $default or x-prompt descriptors, defaults violating
// their own constraints) is reported here, before any resolution work.
func ParseSchema(data []byte) (*Schema, error) {
	s, _, err := ParseSchemaWithDiag(data)
	return s, err
}

// ParseSchemaWithDiag is ParseSchema plus non-fatal diagnostics such as
// ignored unknown document keys.
func ParseSchemaWithDiag(data []byte) (*Schema, Diag, error) {
	d := &simpleDiag{}
	tree, err := scan.DecodeBytes(data)
	if err != nil {
		return nil, d, issuesFromScan(err)
	}
	s, iss := buildDocument(tree, d)
	if len(iss) > 0 {
		return nil, d, iss
	}
	return s, d, nil
}

func issuesFromScan(err error) Issues {
	if ie, ok := err.(scan.IssueError); ok {
		return Issues{{
			Path:    ie.Path,
			Code:    ie.Code,
			Message: i18n.T(ie.Code, nil),
			Hint:    ie.Message,
			Offset:  ie.Offset,
		}}
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err, Offset: -1}}
}

// buildDocument turns a decoded ordered tree into a validated Schema.
func buildDocument(tree any, d *simpleDiag) (*Schema, Issues) {
	root, ok := tree.(*objNode)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "schema document must be an object", Offset: -1}}
	}

	var iss Issues
	defs, _ := nodeValue(root, "definitions").(*objNode)
	visited := map[string]bool{}
	iss = resolveRefs(root, defs, "", visited, iss)

	s := &Schema{Properties: orderedmap.New[string, *Property]()}
	for pair := root.Oldest(); pair != nil; pair = pair.Next() {
		key, v := pair.Key, pair.Value
		switch key {
		case "$schema":
			s.SchemaVersion, _ = v.(string)
		case "$id", "id":
			s.ID, _ = v.(string)
		case "title":
			s.Title, _ = v.(string)
		case "description":
			s.Description, _ = v.(string)
		case "type":
			if t, ok := v.(string); !ok || t != "object" {
				iss = AppendIssues(iss, Issue{Path: "/type", Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: `document type must be "object"`, Offset: -1})
			}
		case "properties":
			pm, ok := v.(*objNode)
			if !ok {
				iss = AppendIssues(iss, Issue{Path: "/properties", Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "properties must be an object", Offset: -1})
				continue
			}
			for pp := pm.Oldest(); pp != nil; pp = pp.Next() {
				propPath := childPath("/properties", pp.Key)
				pn, ok := pp.Value.(*objNode)
				if !ok {
					iss = AppendIssues(iss, Issue{Path: propPath, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "property spec must be an object", Offset: -1})
					continue
				}
				prop, pIss := buildProperty(propPath, pn, d)
				iss = AppendIssues(iss, pIss...)
				s.Properties.Set(pp.Key, prop)
			}
		case "required":
			req, rIss := stringList("/required", v)
			iss = AppendIssues(iss, rIss...)
			s.Required = req
		case "definitions":
			dm, ok := v.(*objNode)
			if !ok {
				iss = AppendIssues(iss, Issue{Path: "/definitions", Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "definitions must be an object", Offset: -1})
				continue
			}
			s.Definitions = map[string]*Property{}
			for dp := dm.Oldest(); dp != nil; dp = dp.Next() {
				defPath := childPath("/definitions", dp.Key)
				dn, ok := dp.Value.(*objNode)
				if !ok {
					iss = AppendIssues(iss, Issue{Path: defPath, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "definition must be an object", Offset: -1})
					continue
				}
				def, dIss := buildProperty(defPath, dn, d)
				iss = AppendIssues(iss, dIss...)
				s.Definitions[dp.Key] = def
			}
		case "additionalProperties":
			b, ok := v.(bool)
			if !ok {
				iss = AppendIssues(iss, Issue{Path: "/additionalProperties", Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "additionalProperties must be a boolean", Offset: -1})
				continue
			}
			s.AdditionalProperties = &b
		default:
			d.warnf("unknown document key %q (ignored)", key)
		}
	}

	iss = AppendIssues(iss, checkRequiredDeclared(s.Properties, s.Required, "/required")...)
	iss = AppendIssues(iss, buildAliasIndex(s)...)
	iss = AppendIssues(iss, checkDefaults(s)...)
	if len(iss) > 0 {
		return nil, iss
	}
	return s, nil
}

// buildProperty turns one property-spec node into a Property. Unknown keys
// warn; malformed known keys are errors.
func buildProperty(path string, node *objNode, d *simpleDiag) (*Property, Issues) {
	p := &Property{}
	var iss Issues
	for pair := node.Oldest(); pair != nil; pair = pair.Next() {
		key, v := pair.Key, pair.Value
		kp := childPath(path, key)
		switch key {
		case "type":
			t, ok := v.(string)
			if !ok || !knownType(t) {
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "type must be one of string, number, integer, boolean, object, array", Offset: -1})
				continue
			}
			p.Type = t
		case "description":
			p.Description, _ = v.(string)
		case "default":
			p.Default = plainValue(v)
		case "$default":
			ds, dsIss := buildDefaultSource(kp, v)
			iss = AppendIssues(iss, dsIss...)
			p.DynamicDefault = ds
		case "enum":
			arr, ok := v.([]any)
			if !ok || len(arr) == 0 {
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "enum must be a non-empty array", Offset: -1})
				continue
			}
			p.Enum = make([]any, len(arr))
			for i, e := range arr {
				p.Enum[i] = plainValue(e)
			}
		case "alias":
			if a, ok := v.(string); ok && a != "" {
				p.Alias = a
			} else {
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "alias must be a non-empty string", Offset: -1})
			}
		case "aliases":
			list, aIss := stringList(kp, v)
			iss = AppendIssues(iss, aIss...)
			p.Aliases = list
		case "format":
			p.Format, _ = v.(string)
		case "visible":
			b, ok := v.(bool)
			if !ok {
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "visible must be a boolean", Offset: -1})
				continue
			}
			p.Visible = &b
		case "$ref":
			// Still present only when ref resolution already reported it.
			p.Ref, _ = v.(string)
		case "x-prompt":
			pr, prIss := buildPrompt(kp, v)
			iss = AppendIssues(iss, prIss...)
			p.Prompt = pr
		case "x-deprecated":
			switch t := v.(type) {
			case bool:
				if t {
					p.Deprecated = &Deprecation{}
				}
			case string:
				p.Deprecated = &Deprecation{Message: t}
			default:
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "x-deprecated must be a boolean or a message string", Offset: -1})
			}
		case "multipleOf":
			f, ok := floatValue(v)
			if !ok || f <= 0 {
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "multipleOf must be a number greater than zero", Offset: -1})
				continue
			}
			p.MultipleOf = &f
		case "minimum":
			iss = setBound(&p.Minimum, kp, v, iss)
		case "exclusiveMinimum":
			iss = setBound(&p.ExclusiveMinimum, kp, v, iss)
		case "maximum":
			iss = setBound(&p.Maximum, kp, v, iss)
		case "exclusiveMaximum":
			iss = setBound(&p.ExclusiveMaximum, kp, v, iss)
		case "pattern":
			pat, ok := v.(string)
			if !ok {
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidPattern, Message: i18n.T(CodeInvalidPattern, nil), Hint: "pattern must be a string", Offset: -1})
				continue
			}
			re, err := regexp.Compile(pat)
			if err != nil {
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidPattern, Message: i18n.T(CodeInvalidPattern, nil), Cause: err, Offset: -1})
				continue
			}
			p.Pattern, p.pattern = pat, re
		case "minLength":
			iss = setCount(&p.MinLength, kp, v, iss)
		case "maxLength":
			iss = setCount(&p.MaxLength, kp, v, iss)
		case "items":
			in, ok := v.(*objNode)
			if !ok {
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "items must be a single schema object", Offset: -1})
				continue
			}
			item, iIss := buildProperty(kp, in, d)
			iss = AppendIssues(iss, iIss...)
			p.Items = item
		case "minItems":
			iss = setCount(&p.MinItems, kp, v, iss)
		case "maxItems":
			iss = setCount(&p.MaxItems, kp, v, iss)
		case "oneOf", "anyOf", "allOf":
			branches, bIss := buildBranches(kp, v, d)
			iss = AppendIssues(iss, bIss...)
			switch key {
			case "oneOf":
				p.OneOf = branches
			case "anyOf":
				p.AnyOf = branches
			case "allOf":
				p.AllOf = branches
			}
		case "properties":
			pm, ok := v.(*objNode)
			if !ok {
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "properties must be an object", Offset: -1})
				continue
			}
			p.Properties = orderedmap.New[string, *Property]()
			for pp := pm.Oldest(); pp != nil; pp = pp.Next() {
				propPath := childPath(kp, pp.Key)
				np, ok := pp.Value.(*objNode)
				if !ok {
					iss = AppendIssues(iss, Issue{Path: propPath, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "property spec must be an object", Offset: -1})
					continue
				}
				child, cIss := buildProperty(propPath, np, d)
				iss = AppendIssues(iss, cIss...)
				p.Properties.Set(pp.Key, child)
			}
		case "required":
			list, rIss := stringList(kp, v)
			iss = AppendIssues(iss, rIss...)
			p.Required = list
		case "additionalProperties":
			b, ok := v.(bool)
			if !ok {
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "additionalProperties must be a boolean", Offset: -1})
				continue
			}
			p.AdditionalProperties = &b
		default:
			d.warnf("unknown key %q at %s (ignored)", key, path)
		}
	}
	iss = AppendIssues(iss, checkRequiredDeclared(p.Properties, p.Required, childPath(path, "required"))...)
	return p, iss
}

func buildDefaultSource(path string, v any) (*DefaultSource, Issues) {
	node, ok := v.(*objNode)
	if !ok {
		return nil, Issues{{Path: path, Code: CodeInvalidDefaultSource, Message: i18n.T(CodeInvalidDefaultSource, nil), Hint: "$default must be an object with a $source key", Offset: -1}}
	}
	var iss Issues
	ds := &DefaultSource{}
	for pair := node.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case "$source":
			s, ok := pair.Value.(string)
			if !ok || s == "" {
				iss = AppendIssues(iss, Issue{Path: childPath(path, "$source"), Code: CodeInvalidDefaultSource, Message: i18n.T(CodeInvalidDefaultSource, nil), Hint: "$source must be a non-empty string", Offset: -1})
				continue
			}
			ds.Source = s
		case "index":
			n, ok := intValue(pair.Value)
			if !ok || n < 0 {
				iss = AppendIssues(iss, Issue{Path: childPath(path, "index"), Code: CodeInvalidDefaultSource, Message: i18n.T(CodeInvalidDefaultSource, nil), Hint: "index must be a non-negative integer", Offset: -1})
				continue
			}
			ds.Index = &n
		default:
			iss = AppendIssues(iss, Issue{Path: childPath(path, pair.Key), Code: CodeInvalidDefaultSource, Message: i18n.T(CodeInvalidDefaultSource, nil), Hint: "unknown $default key: " + pair.Key, Offset: -1})
		}
	}
	if ds.Source == "" && len(iss) == 0 {
		iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidDefaultSource, Message: i18n.T(CodeInvalidDefaultSource, nil), Hint: "$source is required", Offset: -1})
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return ds, nil
}

func buildPrompt(path string, v any) (*Prompt, Issues) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil, Issues{{Path: path, Code: CodeInvalidPrompt, Message: i18n.T(CodeInvalidPrompt, nil), Hint: "prompt message must not be empty", Offset: -1}}
		}
		return &Prompt{Message: t}, nil
	case *objNode:
		var iss Issues
		pr := &Prompt{}
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			kp := childPath(path, pair.Key)
			switch pair.Key {
			case "message":
				m, ok := pair.Value.(string)
				if !ok || m == "" {
					iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidPrompt, Message: i18n.T(CodeInvalidPrompt, nil), Hint: "message must be a non-empty string", Offset: -1})
					continue
				}
				pr.Message = m
			case "type":
				pt, ok := pair.Value.(string)
				if !ok || (pt != PromptInput && pt != PromptConfirmation && pt != PromptList) {
					iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidPrompt, Message: i18n.T(CodeInvalidPrompt, nil), Hint: "type must be input, confirmation or list", Offset: -1})
					continue
				}
				pr.Type = pt
			case "items":
				arr, ok := pair.Value.([]any)
				if !ok || len(arr) == 0 {
					iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidPrompt, Message: i18n.T(CodeInvalidPrompt, nil), Hint: "items must be a non-empty array", Offset: -1})
					continue
				}
				for i, e := range arr {
					ip := indexPath(kp, i)
					switch it := e.(type) {
					case *objNode:
						val, hasVal := it.Get("value")
						label := ""
						if l, ok := it.Get("label"); ok {
							label, _ = l.(string)
						}
						if !hasVal {
							iss = AppendIssues(iss, Issue{Path: ip, Code: CodeInvalidPrompt, Message: i18n.T(CodeInvalidPrompt, nil), Hint: "list item needs a value", Offset: -1})
							continue
						}
						pr.Items = append(pr.Items, PromptItem{Value: plainValue(val), Label: label})
					default:
						pr.Items = append(pr.Items, PromptItem{Value: plainValue(it)})
					}
				}
			default:
				iss = AppendIssues(iss, Issue{Path: kp, Code: CodeInvalidPrompt, Message: i18n.T(CodeInvalidPrompt, nil), Hint: "unknown prompt key: " + pair.Key, Offset: -1})
			}
		}
		if pr.Message == "" && len(iss) == 0 {
			iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidPrompt, Message: i18n.T(CodeInvalidPrompt, nil), Hint: "message is required", Offset: -1})
		}
		if pr.Type != "" && pr.Type != PromptList && len(pr.Items) > 0 {
			iss = AppendIssues(iss, Issue{Path: childPath(path, "items"), Code: CodeInvalidPrompt, Message: i18n.T(CodeInvalidPrompt, nil), Hint: "items are only valid for list prompts", Offset: -1})
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return pr, nil
	default:
		return nil, Issues{{Path: path, Code: CodeInvalidPrompt, Message: i18n.T(CodeInvalidPrompt, nil), Hint: "x-prompt must be a message string or an object", Offset: -1}}
	}
}

func buildBranches(path string, v any, d *simpleDiag) ([]*Property, Issues) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil, Issues{{Path: path, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "composition must be a non-empty array of schemas", Offset: -1}}
	}
	var iss Issues
	out := make([]*Property, 0, len(arr))
	for i, e := range arr {
		bp := indexPath(path, i)
		bn, ok := e.(*objNode)
		if !ok {
			iss = AppendIssues(iss, Issue{Path: bp, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "branch must be a schema object", Offset: -1})
			continue
		}
		b, bIss := buildProperty(bp, bn, d)
		iss = AppendIssues(iss, bIss...)
		out = append(out, b)
	}
	return out, iss
}

// ---- post passes ----

func checkRequiredDeclared(props *orderedmap.OrderedMap[string, *Property], required []string, basePath string) Issues {
	if len(required) == 0 {
		return nil
	}
	var iss Issues
	for i, name := range required {
		declared := false
		if props != nil {
			_, declared = props.Get(name)
		}
		if !declared {
			iss = AppendIssues(iss, Issue{
				Path:    indexPath(basePath, i),
				Code:    CodeUndeclaredRequired,
				Message: i18n.T(CodeUndeclaredRequired, nil),
				Hint:    "required names undeclared property: " + name,
				Params:  map[string]any{"name": name},
				Offset:  -1,
			})
		}
	}
	return iss
}

func buildAliasIndex(s *Schema) Issues {
	var iss Issues
	s.aliasIndex = map[string]string{}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		name, prop := pair.Key, pair.Value
		for _, a := range prop.AliasNames() {
			if _, clash := s.Properties.Get(a); clash {
				iss = AppendIssues(iss, Issue{
					Path:    childPath(childPath("/properties", name), "alias"),
					Code:    CodeDuplicateAlias,
					Message: i18n.T(CodeDuplicateAlias, nil),
					Hint:    "alias collides with declared property: " + a,
					Offset:  -1,
				})
				continue
			}
			if owner, dup := s.aliasIndex[a]; dup && owner != name {
				iss = AppendIssues(iss, Issue{
					Path:    childPath(childPath("/properties", name), "alias"),
					Code:    CodeDuplicateAlias,
					Message: i18n.T(CodeDuplicateAlias, nil),
					Hint:    "alias " + a + " already used by " + owner,
					Offset:  -1,
				})
				continue
			}
			s.aliasIndex[a] = name
		}
	}
	return iss
}

// checkDefaults validates every static default against its own property so
// that author mistakes surface at load time, not mid-resolution.
func checkDefaults(s *Schema) Issues {
	var iss Issues
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		name, prop := pair.Key, pair.Value
		if prop.Default == nil {
			continue
		}
		dp := childPath(childPath("/properties", name), "default")
		if vIss := validateValue(dp, prop, prop.Default); len(vIss) > 0 {
			iss = AppendIssues(iss, Issue{
				Path:    dp,
				Code:    CodeInvalidDefault,
				Message: i18n.T(CodeInvalidDefault, nil),
				Hint:    vIss.Error(),
				Cause:   vIss,
				Offset:  -1,
			})
		}
	}
	return iss
}

// ---- $ref resolution over the ordered tree ----

const refPrefix = "#/definitions/"

// resolveRefs expands local $refs in place before the typed model is built.
// Explicit fields at the $ref site win over referenced ones, matching the
// usual dialect of generator schemas.
func resolveRefs(node *objNode, defs *objNode, path string, visited map[string]bool, iss Issues) Issues {
	if node == nil {
		return iss
	}
	if pm, ok := nodeValue(node, "properties").(*objNode); ok {
		for pair := pm.Oldest(); pair != nil; pair = pair.Next() {
			if sch, ok := pair.Value.(*objNode); ok {
				iss = resolveOne(sch, defs, childPath(childPath(path, "properties"), pair.Key), visited, iss)
			}
		}
	}
	if dm, ok := nodeValue(node, "definitions").(*objNode); ok {
		for pair := dm.Oldest(); pair != nil; pair = pair.Next() {
			if sch, ok := pair.Value.(*objNode); ok {
				iss = resolveOne(sch, defs, childPath(childPath(path, "definitions"), pair.Key), visited, iss)
			}
		}
	}
	if it, ok := nodeValue(node, "items").(*objNode); ok {
		iss = resolveOne(it, defs, childPath(path, "items"), visited, iss)
	}
	for _, comp := range []string{"oneOf", "anyOf", "allOf"} {
		if arr, ok := nodeValue(node, comp).([]any); ok {
			for i, e := range arr {
				if sch, ok := e.(*objNode); ok {
					iss = resolveOne(sch, defs, indexPath(childPath(path, comp), i), visited, iss)
				}
			}
		}
	}
	return iss
}

// resolveOne expands a single schema node carrying $ref, then descends.
func resolveOne(s *objNode, defs *objNode, path string, visited map[string]bool, iss Issues) Issues {
	refRaw, hasRef := s.Get("$ref")
	if !hasRef {
		return resolveRefs(s, defs, path, visited, iss)
	}
	ref, ok := refRaw.(string)
	if !ok || !strings.HasPrefix(ref, refPrefix) {
		return AppendIssues(iss, Issue{
			Path:    childPath(path, "$ref"),
			Code:    CodeUnresolvedRef,
			Message: i18n.T(CodeUnresolvedRef, nil),
			Hint:    "only local " + refPrefix + "<name> references are supported",
			Offset:  -1,
		})
	}
	key := strings.TrimPrefix(ref, refPrefix)
	var base *objNode
	if defs != nil {
		if raw, ok := defs.Get(key); ok {
			base, _ = raw.(*objNode)
		}
	}
	if base == nil {
		return AppendIssues(iss, Issue{
			Path:    childPath(path, "$ref"),
			Code:    CodeUnresolvedRef,
			Message: i18n.T(CodeUnresolvedRef, nil),
			Hint:    "no definition named " + key,
			Params:  map[string]any{"ref": ref},
			Offset:  -1,
		})
	}
	if visited[key] {
		return AppendIssues(iss, Issue{
			Path:    childPath(path, "$ref"),
			Code:    CodeRefCycle,
			Message: i18n.T(CodeRefCycle, nil),
			Hint:    "cyclic reference through definitions/" + key,
			Params:  map[string]any{"ref": ref},
			Offset:  -1,
		})
	}
	visited[key] = true
	cp := deepCopyNode(base).(*objNode)
	iss = resolveOne(cp, defs, path, visited, iss)
	delete(visited, key)
	s.Delete("$ref")
	// merge resolved into s, preferring explicit fields at the ref site
	for pair := cp.Oldest(); pair != nil; pair = pair.Next() {
		if _, exists := s.Get(pair.Key); !exists {
			s.Set(pair.Key, pair.Value)
		}
	}
	return iss
}

func deepCopyNode(v any) any {
	switch t := v.(type) {
	case *objNode:
		out := orderedmap.New[string, any]()
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, deepCopyNode(pair.Value))
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyNode(e)
		}
		return out
	default:
		return v
	}
}

// ---- small node accessors ----

func nodeValue(n *objNode, key string) any {
	if n == nil {
		return nil
	}
	v, _ := n.Get(key)
	return v
}

func knownType(t string) bool {
	switch t {
	case "string", "number", "integer", "boolean", "object", "array":
		return true
	}
	return false
}

// plainValue flattens decoded trees into plain Go values: ordered maps become
// map[string]any. Used for value positions (defaults, enum members, prompt
// item values) where key order does not matter.
func plainValue(v any) any {
	switch t := v.(type) {
	case *objNode:
		m := make(map[string]any, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			m[pair.Key] = plainValue(pair.Value)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

func stringList(path string, v any) ([]string, Issues) {
	arr, ok := v.([]any)
	if !ok {
		return nil, Issues{{Path: path, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "expected an array of strings", Offset: -1}}
	}
	var iss Issues
	seen := map[string]struct{}{}
	out := make([]string, 0, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok || s == "" {
			iss = AppendIssues(iss, Issue{Path: indexPath(path, i), Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "expected a non-empty string", Offset: -1})
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, iss
}

func floatValue(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func intValue(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t == float64(int64(t)) {
			return int(t), true
		}
	}
	return 0, false
}

func setBound(dst **float64, path string, v any, iss Issues) Issues {
	f, ok := floatValue(v)
	if !ok {
		return AppendIssues(iss, Issue{Path: path, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "expected a number", Offset: -1})
	}
	*dst = &f
	return iss
}

func setCount(dst **int, path string, v any, iss Issues) Issues {
	n, ok := intValue(v)
	if !ok || n < 0 {
		return AppendIssues(iss, Issue{Path: path, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "expected a non-negative integer", Offset: -1})
	}
	*dst = &n
	return iss
}
