package genopts

import (
	"encoding/json"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"github.com/reoring/genopts/i18n"
)

// ParseSchemaYAML parses and validates a YAML schema document. Key order and
// duplicate-key detection match the JSON path; both formats share one build
// pipeline.
func ParseSchemaYAML(data []byte) (*Schema, error) {
	s, _, err := ParseSchemaYAMLWithDiag(data)
	return s, err
}

// ParseSchemaYAMLWithDiag is ParseSchemaYAML plus non-fatal diagnostics.
func ParseSchemaYAMLWithDiag(data []byte) (*Schema, Diag, error) {
	d := &simpleDiag{}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, d, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err, Offset: -1}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, d, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "empty document", Offset: -1}}
	}
	tree, iss := yamlTree(root.Content[0], "", 0)
	if len(iss) > 0 {
		return nil, d, iss
	}
	s, bIss := buildDocument(tree, d)
	if len(bIss) > 0 {
		return nil, d, bIss
	}
	return s, d, nil
}

const yamlMaxDepth = 128

// yamlTree converts a yaml.Node into the ordered tree shape the JSON scanner
// produces: mappings become ordered maps, sequences []any, numbers
// json.Number.
func yamlTree(n *yaml.Node, path string, depth int) (any, Issues) {
	if depth > yamlMaxDepth {
		return nil, Issues{{Path: pointerOrRoot(path), Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "max depth exceeded", Offset: -1}}
	}
	switch n.Kind {
	case yaml.MappingNode:
		om := orderedmap.New[string, any]()
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			if kn.Kind != yaml.ScalarNode {
				return nil, Issues{{Path: pointerOrRoot(path), Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: fmt.Sprintf("non-scalar mapping key at line %d", kn.Line), Offset: -1}}
			}
			key := kn.Value
			kp := childPath(path, key)
			if _, dup := om.Get(key); dup {
				return nil, Issues{{Path: kp, Code: CodeDuplicateKey, Message: i18n.T(CodeDuplicateKey, nil), Hint: fmt.Sprintf("duplicate key %q at line %d", key, kn.Line), Offset: -1}}
			}
			v, iss := yamlTree(vn, kp, depth+1)
			if len(iss) > 0 {
				return nil, iss
			}
			om.Set(key, v)
		}
		return om, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, iss := yamlTree(c, indexPath(path, i), depth+1)
			if len(iss) > 0 {
				return nil, iss
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(n, path)
	case yaml.AliasNode:
		return yamlTree(n.Alias, path, depth+1)
	default:
		return nil, Issues{{Path: pointerOrRoot(path), Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: fmt.Sprintf("unsupported node at line %d", n.Line), Offset: -1}}
	}
}

func yamlScalar(n *yaml.Node, path string) (any, Issues) {
	switch n.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return n.Value, nil
		}
		return b, nil
	case "!!int":
		iv, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, Issues{{Path: pointerOrRoot(path), Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: fmt.Sprintf("invalid integer %q at line %d", n.Value, n.Line), Offset: -1}}
		}
		return json.Number(strconv.FormatInt(iv, 10)), nil
	case "!!float":
		if _, err := strconv.ParseFloat(n.Value, 64); err != nil {
			return nil, Issues{{Path: pointerOrRoot(path), Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: fmt.Sprintf("invalid number %q at line %d", n.Value, n.Line), Offset: -1}}
		}
		return json.Number(n.Value), nil
	default:
		return n.Value, nil
	}
}

func pointerOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
