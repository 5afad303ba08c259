package genopts

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Loader reads schema documents from disk with an LRU cache keyed by cleaned
// path. Entries revalidate against file size and mtime, so an edited
// document is reparsed on the next Load.
type Loader struct {
	cache *lru.Cache[string, cachedSchema]
}

type cachedSchema struct {
	schema *Schema
	size   int64
	mtime  time.Time
}

// NewLoader builds a Loader holding up to capacity parsed documents.
func NewLoader(capacity int) (*Loader, error) {
	c, err := lru.New[string, cachedSchema](capacity)
	if err != nil {
		return nil, err
	}
	return &Loader{cache: c}, nil
}

// Load parses the document at path, serving an unchanged file from cache.
// Extension picks the format: .yaml/.yml parse as YAML, everything else as
// JSON.
func (l *Loader) Load(path string) (*Schema, error) {
	key := filepath.Clean(path)
	st, err := os.Stat(key)
	if err != nil {
		return nil, err
	}
	if hit, ok := l.cache.Get(key); ok {
		if hit.size == st.Size() && hit.mtime.Equal(st.ModTime()) {
			return hit.schema, nil
		}
	}
	data, err := os.ReadFile(key)
	if err != nil {
		return nil, err
	}
	s, err := ParseAuto(key, data)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, cachedSchema{schema: s, size: st.Size(), mtime: st.ModTime()})
	return s, nil
}

// ParseAuto parses data as YAML or JSON based on the file extension of name.
func ParseAuto(name string, data []byte) (*Schema, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseSchemaYAML(data)
	default:
		return ParseSchema(data)
	}
}
