package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasrepo/oaserrors"
)

// Parse decodes a document from JSON or YAML text. JSON is tried first since
// every JSON document is also YAML but the JSON decoder is stricter about
// numbers. The root must be a mapping.
func Parse(data []byte) (*Map, error) {
	v, err := ParseValue(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Map)
	if !ok || m == nil {
		return nil, &oaserrors.ParseError{Message: fmt.Sprintf("document root must be a mapping, got %s", kindOf(v))}
	}
	return m, nil
}

// ParseValue decodes any JSON or YAML value. Fragment files may hold a
// sequence or a scalar at their root.
func ParseValue(data []byte) (any, error) {
	if v, err := DecodeJSON(data); err == nil {
		return v, nil
	}
	v, err := DecodeYAML(data)
	if err != nil {
		return nil, &oaserrors.ParseError{Message: "cannot parse as JSON or YAML", Cause: err}
	}
	return v, nil
}

// DecodeYAML decodes YAML text preserving mapping key order. Anchors and
// merge keys are resolved. Timestamps stay strings so that a date written in
// a fragment is written back unchanged. An empty document decodes to nil.
func DecodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, nil
	}
	return fromNode(&root)
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolved alias %q", n.Line, n.Value)
		}
		return fromNode(n.Alias)

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.MappingNode:
		return mappingFromNode(n)

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!timestamp":
			return n.Value, nil
		case "!!str":
			return n.Value, nil
		case "!!null":
			return nil, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %v", n.Line, n.Kind)
}

func mappingFromNode(n *yaml.Node) (*Map, error) {
	out := NewMap()
	explicit := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := n.Content[i]; k.ShortTag() != "!!merge" {
			explicit[k.Value] = true
		}
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.ShortTag() == "!!merge" {
			if err := mergeInto(out, v, explicit); err != nil {
				return nil, err
			}
			continue
		}
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}
		val, err := fromNode(v)
		if err != nil {
			return nil, err
		}
		out.Set(k.Value, val)
	}
	return out, nil
}

// mergeInto applies a YAML merge key. Keys written explicitly in the
// mapping win over merged ones.
func mergeInto(dst *Map, src *yaml.Node, explicit map[string]bool) error {
	if src.Kind == yaml.AliasNode {
		src = src.Alias
	}
	var sources []*yaml.Node
	switch src.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{src}
	case yaml.SequenceNode:
		sources = src.Content
	default:
		return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
	}
	for _, s := range sources {
		v, err := fromNode(s)
		if err != nil {
			return err
		}
		m, ok := v.(*Map)
		if !ok {
			return fmt.Errorf("line %d: merge value must be a mapping", s.Line)
		}
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			if explicit[pair.Key] || Has(dst, pair.Key) {
				continue
			}
			dst.Set(pair.Key, pair.Value)
		}
	}
	return nil
}

// DecodeJSON decodes JSON text preserving object key order. Integral numbers
// that fit become int, everything else float64.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected content after JSON value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 0); err == nil {
			return int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		// string, bool or nil
		return t, nil
	}
}

// MarshalJSON writes v as JSON indented by two spaces, keeping mapping key
// order. The output ends with a newline.
func MarshalJSON(v any) ([]byte, error) {
	var compact bytes.Buffer
	if err := writeJSON(&compact, v); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case *Map:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		first := true
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeJSONScalar(buf, pair.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, pair.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONScalar(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return fmt.Errorf("cannot encode %v as JSON", val)
		}
	}
	return writeJSONScalar(buf, v)
}

func writeJSONScalar(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// MarshalYAML writes v as block-style YAML indented by two spaces, keeping
// mapping key order.
func MarshalYAML(v any) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *Map:
		if val == nil {
			return scalarNode(nil)
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			if err := appendPair(n, pair.Key, pair.Value); err != nil {
				return nil, err
			}
		}
		return n, nil

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			if err := appendPair(n, k, val[k]); err != nil {
				return nil, err
			}
		}
		return n, nil

	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range val {
			c, err := toNode(elem)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	}
	return scalarNode(v)
}

func appendPair(n *yaml.Node, key string, value any) error {
	k, err := scalarNode(key)
	if err != nil {
		return err
	}
	c, err := toNode(value)
	if err != nil {
		return err
	}
	n.Content = append(n.Content, k, c)
	return nil
}

// scalarNode lets the encoder pick the tag and quoting style, so a string
// such as "200" or "true" stays a string when read back.
func scalarNode(v any) (*yaml.Node, error) {
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *Map:
		return "mapping"
	case []any:
		return "sequence"
	default:
		return "scalar"
	}
}
