package scan_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/reoring/genopts/internal/scan"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestDecodeBytes_ObjectKeepsKeyOrder(t *testing.T) {
	v, err := scan.DecodeBytes([]byte(`{"b":1,"a":2,"c":{"z":true,"y":null}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	om, ok := v.(*orderedmap.OrderedMap[string, any])
	if !ok {
		t.Fatalf("expected ordered map, got %T", v)
	}
	var keys []string
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	if strings.Join(keys, ",") != "b,a,c" {
		t.Fatalf("expected declaration order b,a,c, got %v", keys)
	}
	if n, _ := om.Get("b"); n != any(json.Number("1")) {
		t.Fatalf("expected json.Number 1, got %v", n)
	}
}

func TestDecodeBytes_DuplicateKey(t *testing.T) {
	_, err := scan.DecodeBytes([]byte(`{"a":1,"a":2}`))
	if err == nil {
		t.Fatalf("expected error for duplicate key")
	}
	ie, ok := err.(scan.IssueError)
	if !ok {
		t.Fatalf("expected IssueError, got %T", err)
	}
	if ie.Code != "duplicate_key" || ie.Path != "/a" {
		t.Fatalf("expected duplicate_key at /a, got %s at %s", ie.Code, ie.Path)
	}
}

func TestDecodeBytes_NestedDuplicateKeyPath(t *testing.T) {
	_, err := scan.DecodeBytes([]byte(`{"outer":{"x":1,"x":2}}`))
	if err == nil {
		t.Fatalf("expected error for nested duplicate key")
	}
	ie, ok := err.(scan.IssueError)
	if !ok || ie.Path != "/outer/x" {
		t.Fatalf("expected duplicate at /outer/x, got %v", err)
	}
}

func TestDecodeBytes_TrailingContent(t *testing.T) {
	_, err := scan.DecodeBytes([]byte(`{"a":1} {"b":2}`))
	if err == nil {
		t.Fatalf("expected error for trailing content")
	}
}

func TestDecodeBytes_EscapedPointerTokens(t *testing.T) {
	_, err := scan.DecodeBytes([]byte(`{"a/b":1,"a/b":2}`))
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
	ie := err.(scan.IssueError)
	if ie.Path != "/a~1b" {
		t.Fatalf("expected RFC6901 escaped path, got %s", ie.Path)
	}
}

func TestDecodeBytes_ScalarsAndArrays(t *testing.T) {
	v, err := scan.DecodeBytes([]byte(`[1,"two",true,null,[3]]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 5 {
		t.Fatalf("expected 5-element array, got %v", v)
	}
	if arr[0] != json.Number("1") || arr[1] != "two" || arr[2] != true || arr[3] != nil {
		t.Fatalf("unexpected scalar decode: %v", arr)
	}
}

func TestDecodeBytes_MalformedInput(t *testing.T) {
	for _, in := range []string{``, `{`, `{"a"`, `{"a":}`} {
		if _, err := scan.DecodeBytes([]byte(in)); err == nil {
			t.Fatalf("expected parse error for %q", in)
		}
	}
}

func TestDecodeBytes_DepthGuard(t *testing.T) {
	deep := strings.Repeat(`{"a":`, 200) + `1` + strings.Repeat(`}`, 200)
	_, err := scan.DecodeBytes([]byte(deep))
	if err == nil {
		t.Fatalf("expected depth error")
	}
	ie, ok := err.(scan.IssueError)
	if !ok || ie.Code != "parse_error" {
		t.Fatalf("expected parse_error issue, got %v", err)
	}
}
