// Package scan provides ordered, token-level decoding of JSON documents.
// Objects materialize as insertion-ordered maps so that declaration order
// survives parsing, duplicate keys are rejected with JSON Pointer paths,
// and nesting depth is bounded.
package scan

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64 // -1 when the backing decoder does not expose offsets.
}

// Source is a minimal streaming token interface.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// maxDepth bounds object/array nesting while materializing a value.
const maxDepth = 128

// Issue is a lightweight decode failure, convertible by callers into their
// own issue type.
type Issue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// IssueError carries an Issue through the error return.
type IssueError struct{ Issue }

func (e IssueError) Error() string { return e.Message }

// ---- goccy/go-json backed token source ----

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	dec   *j.Decoder
	stack []frame
}

// NewReader wraps an io.Reader into a token Source for JSON.
func NewReader(r io.Reader) Source {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into a token Source for JSON.
func NewBytes(b []byte) Source { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return Token{}, io.EOF
		}
		return Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return Token{Kind: KindBeginObject, Offset: -1}, nil
		case '}':
			s.popFrame()
			return Token{Kind: KindEndObject, Offset: -1}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return Token{Kind: KindBeginArray, Offset: -1}, nil
		case ']':
			s.popFrame()
			return Token{Kind: KindEndArray, Offset: -1}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return Token{Kind: KindKey, String: v, Offset: -1}, nil
			}
		}
		s.afterValue()
		return Token{Kind: KindString, String: v, Offset: -1}, nil
	case bool:
		s.afterValue()
		return Token{Kind: KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.afterValue()
		return Token{Kind: KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.afterValue()
		return Token{Kind: KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	case nil:
		s.afterValue()
		return Token{Kind: KindNull, Offset: -1}, nil
	}
	s.afterValue()
	return Token{Kind: KindNull, Offset: -1}, nil
}

func (s *source) Location() int64 { return -1 }

func (s *source) popFrame() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.afterValue()
}

// afterValue flips the enclosing object frame back to key position once a
// value has been consumed.
func (s *source) afterValue() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

// ---- ordered materialization ----

// Decode builds a value tree from the token source. Objects become
// *orderedmap.OrderedMap[string, any], arrays []any, numbers json.Number.
func Decode(src Source) (any, error) {
	d := &decoder{src: src}
	tok, err := src.NextToken()
	if err != nil {
		if err == io.EOF {
			return nil, IssueError{Issue{Code: "parse_error", Path: "/", Message: "empty input", Offset: -1}}
		}
		return nil, parseErr("/", err)
	}
	return d.value(tok, "")
}

// DecodeBytes decodes one JSON document and rejects trailing content.
func DecodeBytes(b []byte) (any, error) {
	src := NewBytes(b)
	v, err := Decode(src)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); err != io.EOF {
		return nil, IssueError{Issue{Code: "parse_error", Path: "/", Message: "trailing content after document", Offset: -1}}
	}
	return v, nil
}

type decoder struct {
	src   Source
	depth int
}

func (d *decoder) value(tok Token, path string) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return d.object(path)
	case KindBeginArray:
		return d.array(path)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return json.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, parseErr(pointer(path), io.ErrUnexpectedEOF)
	}
}

func (d *decoder) object(path string) (any, error) {
	if err := d.push(path); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()
	om := orderedmap.New[string, any]()
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, parseErr(pointer(path), err)
		}
		if tok.Kind == KindEndObject {
			return om, nil
		}
		if tok.Kind != KindKey {
			return nil, parseErr(pointer(path), io.ErrUnexpectedEOF)
		}
		key := tok.String
		childPath := join(path, key)
		if _, dup := om.Get(key); dup {
			return nil, IssueError{Issue{Code: "duplicate_key", Path: pointer(childPath), Message: "duplicate key: " + key, Offset: tok.Offset}}
		}
		vt, err := d.src.NextToken()
		if err != nil {
			return nil, parseErr(pointer(childPath), err)
		}
		v, err := d.value(vt, childPath)
		if err != nil {
			return nil, err
		}
		om.Set(key, v)
	}
}

func (d *decoder) array(path string) (any, error) {
	if err := d.push(path); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()
	arr := []any{}
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, parseErr(pointer(path), err)
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := d.value(tok, join(path, strconv.Itoa(len(arr))))
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func (d *decoder) push(path string) error {
	d.depth++
	if d.depth > maxDepth {
		return IssueError{Issue{Code: "parse_error", Path: pointer(path), Message: "max depth exceeded", Offset: -1}}
	}
	return nil
}

func parseErr(path string, err error) error {
	if ie, ok := err.(IssueError); ok {
		return ie
	}
	return IssueError{Issue{Code: "parse_error", Path: path, Message: err.Error(), Offset: -1}}
}

func join(base, token string) string {
	esc := strings.ReplaceAll(strings.ReplaceAll(token, "~", "~0"), "/", "~1")
	return base + "/" + esc
}

func pointer(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
