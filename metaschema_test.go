package genopts_test

import (
	"encoding/json"
	"testing"

	genopts "github.com/reoring/genopts"
)

// The meta-schema is a recursive draft-07 document for editors, so it does
// not go through ParseSchema (our dialect inlines $refs and rejects the
// recursion). It still has to be well-formed JSON with the expected shape.
func TestMetaSchema_WellFormed(t *testing.T) {
	var doc map[string]any
	if err := json.Unmarshal(genopts.MetaSchema(), &doc); err != nil {
		t.Fatalf("meta-schema is not valid JSON: %v", err)
	}
	if doc["$schema"] != "http://json-schema.org/draft-07/schema#" {
		t.Fatalf("expected draft-07 marker, got: %v", doc["$schema"])
	}
	defs, _ := doc["definitions"].(map[string]any)
	prop, _ := defs["property"].(map[string]any)
	if prop == nil {
		t.Fatalf("expected definitions.property, got: %v", defs)
	}
	pp, _ := prop["properties"].(map[string]any)
	for _, key := range []string{"type", "$default", "x-prompt", "x-deprecated", "alias", "enum"} {
		if _, ok := pp[key]; !ok {
			t.Fatalf("expected property key %q documented, got keys: %v", key, len(pp))
		}
	}
}
