package genopts

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/reoring/genopts/i18n"
)

// Validate checks a single value against the property spec. path names the
// value in issue reports, e.g. "/name".
func (p *Property) Validate(path string, v any) error {
	if iss := validateValue(path, p, v); len(iss) > 0 {
		return iss
	}
	return nil
}

// validateValue applies type, enum, bound, pattern, format, array, object and
// composition checks. Constraints apply to whichever value kind they concern,
// whether or not a type was declared.
func validateValue(path string, p *Property, v any) Issues {
	if p == nil {
		return nil
	}
	var iss Issues

	if v == nil {
		if len(p.Enum) > 0 {
			if enumContains(p.Enum, nil) {
				return nil
			}
			return Issues{{
				Path:    path,
				Code:    CodeInvalidEnum,
				Message: i18n.T(CodeInvalidEnum, nil),
				Hint:    fmt.Sprintf("allowed values: %v", p.Enum),
				Params:  map[string]any{"allowed": p.Enum, "got": v},
				Offset:  -1,
			}}
		}
		if p.Type != "" {
			return Issues{typeIssue(path, p.Type, v)}
		}
		return nil
	}

	if p.Type != "" {
		if ok := typeMatches(p.Type, v); !ok {
			return Issues{typeIssue(path, p.Type, v)}
		}
	}

	if len(p.Enum) > 0 && !enumContains(p.Enum, v) {
		iss = AppendIssues(iss, Issue{
			Path:    path,
			Code:    CodeInvalidEnum,
			Message: i18n.T(CodeInvalidEnum, nil),
			Hint:    fmt.Sprintf("allowed values: %v", p.Enum),
			Params:  map[string]any{"allowed": p.Enum, "got": v},
			Offset:  -1,
		})
	}

	if f, ok := numberOf(v); ok {
		iss = AppendIssues(iss, checkNumber(path, p, f)...)
	}
	if s, ok := v.(string); ok {
		iss = AppendIssues(iss, checkString(path, p, s)...)
	}
	if arr, ok := arrayOf(v); ok {
		iss = AppendIssues(iss, checkArray(path, p, arr)...)
	}
	if m, ok := v.(map[string]any); ok {
		iss = AppendIssues(iss, checkObject(path, p, m)...)
	}

	iss = AppendIssues(iss, checkComposition(path, p, v)...)
	return iss
}

func typeIssue(path, expected string, v any) Issue {
	return Issue{
		Path:    path,
		Code:    CodeInvalidType,
		Message: i18n.T(CodeInvalidType, nil),
		Hint:    "expected " + expected + ", got " + typeName(v),
		Params:  map[string]any{"expected": expected, "got": typeName(v)},
		Offset:  -1,
	}
}

func checkNumber(path string, p *Property, f float64) Issues {
	var iss Issues
	if p.MultipleOf != nil {
		rem := math.Abs(math.Mod(f, *p.MultipleOf))
		if rem > 1e-9 && math.Abs(rem-*p.MultipleOf) > 1e-9 {
			iss = AppendIssues(iss, Issue{
				Path:    path,
				Code:    CodeNotMultipleOf,
				Message: i18n.T(CodeNotMultipleOf, nil),
				Hint:    "must be a multiple of " + formatFloat(*p.MultipleOf),
				Params:  map[string]any{"multipleOf": *p.MultipleOf, "got": f},
				Offset:  -1,
			})
		}
	}
	if p.Minimum != nil && f < *p.Minimum {
		iss = AppendIssues(iss, boundIssue(path, CodeTooSmall, "minimum", *p.Minimum, f, false))
	}
	if p.ExclusiveMinimum != nil && f <= *p.ExclusiveMinimum {
		iss = AppendIssues(iss, boundIssue(path, CodeTooSmall, "exclusiveMinimum", *p.ExclusiveMinimum, f, true))
	}
	if p.Maximum != nil && f > *p.Maximum {
		iss = AppendIssues(iss, boundIssue(path, CodeTooBig, "maximum", *p.Maximum, f, false))
	}
	if p.ExclusiveMaximum != nil && f >= *p.ExclusiveMaximum {
		iss = AppendIssues(iss, boundIssue(path, CodeTooBig, "exclusiveMaximum", *p.ExclusiveMaximum, f, true))
	}
	return iss
}

func boundIssue(path, code, name string, bound, got float64, exclusive bool) Issue {
	return Issue{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, nil),
		Hint:    name + " is " + formatFloat(bound),
		Params:  map[string]any{name: bound, "got": got, "exclusive": exclusive},
		Offset:  -1,
	}
}

func checkString(path string, p *Property, s string) Issues {
	var iss Issues
	n := utf8.RuneCountInString(s)
	if p.MinLength != nil && n < *p.MinLength {
		iss = AppendIssues(iss, Issue{
			Path:    path,
			Code:    CodeTooShort,
			Message: i18n.T(CodeTooShort, nil),
			Hint:    "minLength is " + strconv.Itoa(*p.MinLength),
			Params:  map[string]any{"minLength": *p.MinLength, "got": n},
			Offset:  -1,
		})
	}
	if p.MaxLength != nil && n > *p.MaxLength {
		iss = AppendIssues(iss, Issue{
			Path:    path,
			Code:    CodeTooLong,
			Message: i18n.T(CodeTooLong, nil),
			Hint:    "maxLength is " + strconv.Itoa(*p.MaxLength),
			Params:  map[string]any{"maxLength": *p.MaxLength, "got": n},
			Offset:  -1,
		})
	}
	if p.Pattern != "" {
		re, err := compiledPattern(p)
		if err != nil {
			iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidPattern, Message: i18n.T(CodeInvalidPattern, nil), Cause: err, Offset: -1})
		} else if !re.MatchString(s) {
			iss = AppendIssues(iss, Issue{
				Path:    path,
				Code:    CodePattern,
				Message: i18n.T(CodePattern, nil),
				Hint:    "must match " + p.Pattern,
				Params:  map[string]any{"pattern": p.Pattern, "got": s},
				Offset:  -1,
			})
		}
	}
	if p.Format != "" {
		if known, err := checkFormat(p.Format, s); known && err != nil {
			iss = AppendIssues(iss, Issue{
				Path:    path,
				Code:    CodeInvalidFormat,
				Message: i18n.T(CodeInvalidFormat, nil),
				Hint:    p.Format + ": " + err.Error(),
				Params:  map[string]any{"format": p.Format, "got": s},
				Offset:  -1,
			})
		}
	}
	return iss
}

func checkArray(path string, p *Property, arr []any) Issues {
	var iss Issues
	if p.MinItems != nil && len(arr) < *p.MinItems {
		iss = AppendIssues(iss, Issue{
			Path:    path,
			Code:    CodeTooShort,
			Message: i18n.T(CodeTooShort, nil),
			Hint:    "minItems is " + strconv.Itoa(*p.MinItems),
			Params:  map[string]any{"minItems": *p.MinItems, "got": len(arr)},
			Offset:  -1,
		})
	}
	if p.MaxItems != nil && len(arr) > *p.MaxItems {
		iss = AppendIssues(iss, Issue{
			Path:    path,
			Code:    CodeTooLong,
			Message: i18n.T(CodeTooLong, nil),
			Hint:    "maxItems is " + strconv.Itoa(*p.MaxItems),
			Params:  map[string]any{"maxItems": *p.MaxItems, "got": len(arr)},
			Offset:  -1,
		})
	}
	if p.Items != nil {
		for i, el := range arr {
			iss = AppendIssues(iss, validateValue(indexPath(path, i), p.Items, el)...)
		}
	}
	return iss
}

func checkObject(path string, p *Property, m map[string]any) Issues {
	var iss Issues
	if p.Properties != nil {
		for pair := p.Properties.Oldest(); pair != nil; pair = pair.Next() {
			name, np := pair.Key, pair.Value
			pv, present := m[name]
			if !present {
				continue
			}
			iss = AppendIssues(iss, validateValue(childPath(path, name), np, pv)...)
		}
		for _, r := range p.Required {
			if _, present := m[r]; !present {
				iss = AppendIssues(iss, Issue{
					Path:    childPath(path, r),
					Code:    CodeRequired,
					Message: i18n.T(CodeRequired, nil),
					Params:  map[string]any{"name": r},
					Offset:  -1,
				})
			}
		}
		if p.AdditionalProperties != nil && !*p.AdditionalProperties {
			for k := range m {
				if _, declared := p.Properties.Get(k); !declared {
					iss = AppendIssues(iss, Issue{
						Path:    childPath(path, k),
						Code:    CodeUnknownOption,
						Message: i18n.T(CodeUnknownOption, nil),
						Params:  map[string]any{"name": k},
						Offset:  -1,
					})
				}
			}
		}
	}
	return iss
}

// checkComposition evaluates allOf/anyOf/oneOf. Branch failures for anyOf and
// oneOf stay silent unless no branch (or more than one, for oneOf) matches.
func checkComposition(path string, p *Property, v any) Issues {
	var iss Issues
	for _, b := range p.AllOf {
		iss = AppendIssues(iss, validateValue(path, b, v)...)
	}
	if len(p.AnyOf) > 0 {
		matched := false
		var firstErr Issues
		for _, b := range p.AnyOf {
			if bIss := validateValue(path, b, v); len(bIss) == 0 {
				matched = true
				break
			} else if firstErr == nil {
				firstErr = bIss
			}
		}
		if !matched {
			iss = AppendIssues(iss, Issue{
				Path:    path,
				Code:    CodeNoMatch,
				Message: i18n.T(CodeNoMatch, nil),
				Hint:    "anyOf: " + firstErr.Error(),
				Offset:  -1,
			})
		}
	}
	if len(p.OneOf) > 0 {
		var matches []int
		var firstErr Issues
		for i, b := range p.OneOf {
			if bIss := validateValue(path, b, v); len(bIss) == 0 {
				matches = append(matches, i)
			} else if firstErr == nil {
				firstErr = bIss
			}
		}
		switch len(matches) {
		case 1:
		case 0:
			iss = AppendIssues(iss, Issue{
				Path:    path,
				Code:    CodeNoMatch,
				Message: i18n.T(CodeNoMatch, nil),
				Hint:    "oneOf: " + firstErr.Error(),
				Offset:  -1,
			})
		default:
			iss = AppendIssues(iss, Issue{
				Path:    path,
				Code:    CodeAmbiguous,
				Message: i18n.T(CodeAmbiguous, nil),
				Hint:    fmt.Sprintf("oneOf branches %v all match", matches),
				Params:  map[string]any{"matched": matches},
				Offset:  -1,
			})
		}
	}
	return iss
}

// ---- value kind helpers ----

func typeMatches(t string, v any) bool {
	switch t {
	case "string":
		_, ok := v.(string)
		return ok
	case "number":
		_, ok := numberOf(v)
		return ok
	case "integer":
		return isIntegral(v)
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "array":
		_, ok := arrayOf(v)
		return ok
	}
	return true
}

func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	case int:
		return float64(n), true
	case int8, int16, int32, int64:
		return float64(reflect.ValueOf(n).Int()), true
	case uint, uint8, uint16, uint32, uint64:
		return float64(reflect.ValueOf(n).Uint()), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func isIntegral(v any) bool {
	switch n := v.(type) {
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return true
		}
		f, err := n.Float64()
		return err == nil && f == math.Trunc(f)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return float64(n) == math.Trunc(float64(n))
	case float64:
		return n == math.Trunc(n)
	}
	return false
}

func arrayOf(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any, []string:
		return "array"
	}
	if _, ok := numberOf(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

// enumContains compares with numeric normalization so 1 matches 1.0.
func enumContains(enum []any, v any) bool {
	for _, e := range enum {
		if enumEquals(e, v) {
			return true
		}
	}
	return false
}

func enumEquals(a, b any) bool {
	if fa, ok := numberOf(a); ok {
		if fb, ok := numberOf(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// patternCache backs pattern checks for hand-constructed properties; parsed
// documents carry their regexes precompiled.
var patternCache, _ = lru.New[string, *regexp.Regexp](256)

func compiledPattern(p *Property) (*regexp.Regexp, error) {
	if p.pattern != nil {
		return p.pattern, nil
	}
	if re, ok := patternCache.Get(p.Pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(p.Pattern)
	if err != nil {
		return nil, err
	}
	patternCache.Add(p.Pattern, re)
	return re, nil
}
