package genopts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Document errors, detected while parsing a schema document.
	CodeParseError           = "parse_error"
	CodeDuplicateKey         = "duplicate_key"
	CodeInvalidSchema        = "invalid_schema"
	CodeUnresolvedRef        = "unresolved_ref"
	CodeRefCycle             = "ref_cycle"
	CodeUndeclaredRequired   = "undeclared_required"
	CodeInvalidDefaultSource = "invalid_default_source"
	CodeInvalidPrompt        = "invalid_prompt"
	CodeInvalidPattern       = "invalid_pattern"
	CodeDuplicateAlias       = "duplicate_alias"
	CodeInvalidDefault       = "invalid_default"

	// Resolution errors.
	CodeUnknownOption     = "unknown_option"
	CodeRequired          = "required"
	CodeUnknownSource     = "unknown_source"
	CodePromptUnavailable = "prompt_unavailable"

	// Value validation errors.
	CodeInvalidType   = "invalid_type"
	CodeInvalidEnum   = "invalid_enum"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeNotMultipleOf = "not_multiple_of"
	CodeInvalidFormat = "invalid_format"
	CodeNoMatch       = "no_match"
	CodeAmbiguous     = "ambiguous"
)

// Issue represents a single schema or resolution failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /properties/name/minLength or /name).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected shapes, etc.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input source (-1 when unknown).
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unknown_option at /force
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssueAt creates an Issue at the given path with provided code and params map.
// This is a convenience helper to improve readability at call sites with many
// parameters.
func IssueAt(path, code, msg string, params map[string]any) Issue {
	return Issue{Path: path, Code: code, Message: msg, Params: params, Offset: -1}
}

var schemaCodes = map[string]struct{}{
	CodeParseError:           {},
	CodeDuplicateKey:         {},
	CodeInvalidSchema:        {},
	CodeUnresolvedRef:        {},
	CodeRefCycle:             {},
	CodeUndeclaredRequired:   {},
	CodeInvalidDefaultSource: {},
	CodeInvalidPrompt:        {},
	CodeInvalidPattern:       {},
	CodeDuplicateAlias:       {},
	CodeInvalidDefault:       {},
	CodeUnknownSource:        {},
	CodePromptUnavailable:    {},
}

var validationCodes = map[string]struct{}{
	CodeInvalidType:   {},
	CodeInvalidEnum:   {},
	CodeTooSmall:      {},
	CodeTooBig:        {},
	CodeTooShort:      {},
	CodeTooLong:       {},
	CodePattern:       {},
	CodeNotMultipleOf: {},
	CodeInvalidFormat: {},
	CodeNoMatch:       {},
	CodeAmbiguous:     {},
}

// IsSchemaError reports whether err carries at least one configuration-level
// issue: a malformed document, an unresolvable $ref, a bad $default
// descriptor, and the like. These are author errors, fatal before any
// resolution work.
func IsSchemaError(err error) bool { return hasCodeIn(err, schemaCodes) }

// IsUnknownOption reports whether err rejects an undeclared raw input key
// (additionalProperties: false violation).
func IsUnknownOption(err error) bool { return hasCode(err, CodeUnknownOption) }

// IsMissingRequired reports whether err names a required property that stayed
// unresolved after every fallback step.
func IsMissingRequired(err error) bool { return hasCode(err, CodeRequired) }

// IsValidationError reports whether err carries a value constraint violation
// (type, enum, bounds, pattern, composition).
func IsValidationError(err error) bool { return hasCodeIn(err, validationCodes) }

func hasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func hasCodeIn(err error, set map[string]struct{}) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if _, hit := set[it.Code]; hit {
			return true
		}
	}
	return false
}

// escapeToken escapes a single reference token per RFC 6901:
// '~' -> '~0', '/' -> '~1'.
func escapeToken(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
}

// childPath appends a field token to a JSON Pointer.
func childPath(base, name string) string {
	if base == "/" {
		base = ""
	}
	return base + "/" + escapeToken(name)
}

// indexPath appends an array index token to a JSON Pointer.
func indexPath(base string, i int) string {
	if base == "/" {
		base = ""
	}
	return base + "/" + strconv.Itoa(i)
}
