package genopts

import (
	"errors"
	"regexp"
	"strings"
	"sync"
)

// FormatFunc reports whether s satisfies a named string format. A nil error
// means the value conforms.
type FormatFunc func(s string) error

var (
	formatMu sync.RWMutex
	formats  = map[string]FormatFunc{
		"path":          checkPathFormat,
		"html-selector": checkSelectorFormat,
	}
)

// RegisterFormat installs or replaces a named format checker. Unknown format
// names are accepted silently during validation, so registering a checker is
// how a format becomes enforceable.
func RegisterFormat(name string, fn FormatFunc) {
	formatMu.Lock()
	defer formatMu.Unlock()
	if fn == nil {
		delete(formats, name)
		return
	}
	formats[name] = fn
}

func checkFormat(name, s string) (known bool, err error) {
	formatMu.RLock()
	fn, ok := formats[name]
	formatMu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, fn(s)
}

// checkPathFormat accepts slash-separated relative paths.
func checkPathFormat(s string) error {
	if s == "" {
		return nil
	}
	if strings.Contains(s, "\\") {
		return errors.New("use forward slashes")
	}
	if strings.HasPrefix(s, "/") {
		return errors.New("must be relative")
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == ".." {
			return errors.New("must not traverse upward")
		}
	}
	return nil
}

var selectorRe = regexp.MustCompile(`^[a-zA-Z][0-9a-zA-Z]*(?:-[a-zA-Z0-9]+)*$`)

// checkSelectorFormat accepts element selector names like "app-root".
func checkSelectorFormat(s string) error {
	if s == "" {
		return nil
	}
	if !selectorRe.MatchString(s) {
		return errors.New("not a valid selector")
	}
	return nil
}
