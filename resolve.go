package genopts

import (
	"context"
	"sort"
	"strings"

	"github.com/reoring/genopts/i18n"
)

// Input is the raw material for one resolution: named values from flags or
// an API caller, plus leftover positional arguments for $default sources.
type Input struct {
	Values map[string]any
	Argv   []string
}

// ResolveOpt controls a single resolution run.
type ResolveOpt struct {
	// Interactive permits x-prompt questions. Without a Prompter an
	// interactive run fails with prompt_unavailable instead of asking.
	Interactive bool
	Prompter    Prompter
	// Sources extends or overrides the built-in $default sources ("argv").
	// A nil SourceFunc removes the named source.
	Sources map[string]SourceFunc
	// CoerceStrings converts string inputs toward the declared type before
	// validation ("42" to 42, "true" to true, "a,b" to a list).
	CoerceStrings bool
}

// Origin is the bit flag describing where a resolved value came from.
type Origin uint8

const (
	OriginInput   Origin = 1 << iota // supplied in Input.Values
	OriginAlias                      // matched through an alias name
	OriginDefault                    // literal default applied
	OriginDynamic                    // $default source produced it
	OriginPrompt                     // answered interactively
	OriginCoerced                    // string input was converted
)

// Has reports whether all bits in flag are set.
func (o Origin) Has(flag Origin) bool { return o&flag == flag }

var originNames = []struct {
	flag Origin
	name string
}{
	{OriginInput, "input"},
	{OriginAlias, "alias"},
	{OriginDefault, "default"},
	{OriginDynamic, "dynamic"},
	{OriginPrompt, "prompt"},
	{OriginCoerced, "coerced"},
}

func (o Origin) String() string {
	if o == 0 {
		return "none"
	}
	var parts []string
	for _, n := range originNames {
		if o.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// OriginMap maps canonical option names to Origin flags.
type OriginMap map[string]Origin

// Warning codes reported in Resolved.Warnings.
const (
	WarnDeprecated    = "deprecated"
	WarnAliasConflict = "alias_conflict"
)

// Warning is an advisory note collected during resolution. Warnings never
// fail the run.
type Warning struct {
	Path    string
	Code    string
	Message string
}

// Resolved carries the options along with per-option metadata.
type Resolved struct {
	Options  map[string]any
	Origins  OriginMap
	Warnings []Warning
}

// Resolve turns raw inputs into the final option map. Every declared
// property goes through the same ladder: raw input (canonical name, then
// aliases), literal default, $default source, interactive prompt, then a
// required check. Obtained values are validated no matter the origin, and
// all failures come back together as Issues.
func Resolve(ctx context.Context, s *Schema, in Input, opts ...ResolveOpt) (map[string]any, error) {
	r, err := ResolveWithMeta(ctx, s, in, opts...)
	if err != nil {
		return nil, err
	}
	return r.Options, nil
}

// ResolveWithMeta is Resolve plus origin metadata and warnings.
func ResolveWithMeta(ctx context.Context, s *Schema, in Input, opts ...ResolveOpt) (Resolved, error) {
	var opt ResolveOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	rs := &resolver{
		schema:  s,
		in:      in,
		opt:     opt,
		sources: effectiveSources(opt.Sources),
	}

	if iss := rs.checkUnknown(); len(iss) > 0 {
		return Resolved{}, iss
	}

	res := Resolved{Options: map[string]any{}, Origins: OriginMap{}}
	var iss Issues
	if s != nil && s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			name, p := pair.Key, pair.Value
			v, origin, found, pIss, err := rs.resolveOne(ctx, name, p)
			if err != nil {
				return Resolved{}, err
			}
			if len(pIss) > 0 {
				iss = AppendIssues(iss, pIss...)
				continue
			}
			if found {
				res.Options[name] = v
				res.Origins[name] = origin
			}
		}
	}

	if s.AllowsUnknown() {
		for name, v := range in.Values {
			if _, _, ok := s.Lookup(name); !ok {
				res.Options[name] = v
				res.Origins[name] = OriginInput
			}
		}
	}

	if len(iss) > 0 {
		return Resolved{}, iss
	}
	res.Warnings = rs.warns
	return res, nil
}

type resolver struct {
	schema  *Schema
	in      Input
	opt     ResolveOpt
	sources map[string]SourceFunc
	warns   []Warning
}

// checkUnknown rejects undeclared raw keys up front when the document says
// additionalProperties:false. Nothing else runs after a hit.
func (r *resolver) checkUnknown() Issues {
	if r.schema.AllowsUnknown() {
		return nil
	}
	var unknown []string
	for name := range r.in.Values {
		if _, _, ok := r.schema.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	known := strings.Join(r.schema.PropertyNames(), ", ")
	var iss Issues
	for _, name := range unknown {
		iss = AppendIssues(iss, Issue{
			Path:    childPath("", name),
			Code:    CodeUnknownOption,
			Message: i18n.T(CodeUnknownOption, nil),
			Hint:    "known options: " + known,
			Params:  map[string]any{"name": name},
			Offset:  -1,
		})
	}
	return iss
}

// resolveOne walks the precedence ladder for one property. The error return
// is reserved for infrastructure failures (prompter or source IO); schema
// and value problems come back as Issues.
func (r *resolver) resolveOne(ctx context.Context, name string, p *Property) (any, Origin, bool, Issues, error) {
	path := childPath("", name)

	if v, origin, ok := r.fromInput(name, p); ok {
		v, origin = r.coerce(p, v, origin)
		if p.Deprecated != nil {
			r.warnDeprecated(path, name, p)
		}
		return r.validated(path, p, v, origin)
	}

	if p.Default != nil {
		return r.validated(path, p, p.Default, OriginDefault)
	}

	if p.DynamicDefault != nil {
		ds := *p.DynamicDefault
		src, ok := r.sources[ds.Source]
		if !ok {
			return nil, 0, false, Issues{{
				Path:    path,
				Code:    CodeUnknownSource,
				Message: i18n.T(CodeUnknownSource, nil),
				Params:  map[string]any{"source": ds.Source},
				Offset:  -1,
			}}, nil
		}
		v, ok, err := src(ctx, ds, r.in)
		if err != nil {
			return nil, 0, false, nil, err
		}
		if ok {
			v, origin := r.coerce(p, v, OriginDynamic)
			return r.validated(path, p, v, origin)
		}
		// Source had nothing; keep walking the ladder.
	}

	if r.opt.Interactive && p.Prompt != nil && p.IsVisible() {
		if r.opt.Prompter == nil {
			return nil, 0, false, Issues{{
				Path:    path,
				Code:    CodePromptUnavailable,
				Message: i18n.T(CodePromptUnavailable, nil),
				Params:  map[string]any{"name": name},
				Offset:  -1,
			}}, nil
		}
		ans, err := r.opt.Prompter.Prompt(ctx, buildPromptRequest(name, p, p.Default))
		if err != nil {
			return nil, 0, false, nil, err
		}
		// Terminal answers arrive as strings; always steer them toward the
		// declared type before validation.
		if c, changed := coerceValue(p, ans); changed {
			ans = c
			return r.validated(path, p, ans, OriginPrompt|OriginCoerced)
		}
		return r.validated(path, p, ans, OriginPrompt)
	}

	if r.schema.IsRequired(name) {
		return nil, 0, false, Issues{{
			Path:    path,
			Code:    CodeRequired,
			Message: i18n.T(CodeRequired, nil),
			Params:  map[string]any{"name": name},
			Offset:  -1,
		}}, nil
	}

	return nil, 0, false, nil, nil
}

// fromInput looks the property up in the raw values, canonical name first.
// When several accepted names carry values the canonical (or first declared
// alias) wins and a conflict warning is recorded.
func (r *resolver) fromInput(name string, p *Property) (any, Origin, bool) {
	var (
		v       any
		origin  Origin
		found   bool
		hitKeys []string
	)
	if raw, ok := r.in.Values[name]; ok {
		v, origin, found = raw, OriginInput, true
		hitKeys = append(hitKeys, name)
	}
	for _, a := range p.AliasNames() {
		raw, ok := r.in.Values[a]
		if !ok {
			continue
		}
		hitKeys = append(hitKeys, a)
		if !found {
			v, origin, found = raw, OriginInput|OriginAlias, true
		}
	}
	if len(hitKeys) > 1 {
		r.warns = append(r.warns, Warning{
			Path:    childPath("", name),
			Code:    WarnAliasConflict,
			Message: "option supplied under several names (" + strings.Join(hitKeys, ", ") + "); using " + hitKeys[0],
		})
	}
	return v, origin, found
}

func (r *resolver) coerce(p *Property, v any, origin Origin) (any, Origin) {
	if !r.opt.CoerceStrings {
		return v, origin
	}
	if c, changed := coerceValue(p, v); changed {
		return c, origin | OriginCoerced
	}
	return v, origin
}

func (r *resolver) validated(path string, p *Property, v any, origin Origin) (any, Origin, bool, Issues, error) {
	v, _ = fillObjectDefaults(p, v)
	if iss := validateValue(path, p, v); len(iss) > 0 {
		return nil, 0, false, iss, nil
	}
	return v, origin, true, nil, nil
}

func (r *resolver) warnDeprecated(path, name string, p *Property) {
	msg := p.Deprecated.Message
	if msg == "" {
		msg = "option " + name + " is deprecated"
	}
	r.warns = append(r.warns, Warning{Path: path, Code: WarnDeprecated, Message: msg})
}

// fillObjectDefaults fills nested object defaults copy-on-write, leaving the
// caller's map untouched. It reports whether anything was filled.
func fillObjectDefaults(p *Property, v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok || p == nil || p.Properties == nil {
		return v, false
	}
	out := m
	copied := false
	set := func(k string, val any) {
		if !copied {
			out = make(map[string]any, len(m)+1)
			for mk, mv := range m {
				out[mk] = mv
			}
			copied = true
		}
		out[k] = val
	}
	for pair := p.Properties.Oldest(); pair != nil; pair = pair.Next() {
		name, np := pair.Key, pair.Value
		if existing, present := m[name]; present {
			if filled, changed := fillObjectDefaults(np, existing); changed {
				set(name, filled)
			}
			continue
		}
		if np.Default != nil {
			set(name, np.Default)
		}
	}
	return out, copied
}
