package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Serialize encodes a node sequence as the persistable document tree:
// a {"type":"doc","content":[...]} object mirroring the in-memory structs.
// Ids are carried through untouched; serialize/deserialize round-trips are
// lossless.
func Serialize(content []*Node) ([]byte, error) {
	doc := &Node{Type: NodeDoc, Content: content}
	return json.Marshal(doc)
}

// Deserialize parses a persisted document tree, validates it against the
// closed node-type set and runs the Repair pass. Unknown node types fail
// with a SchemaError; unknown attrs are preserved opaquely.
func Deserialize(data []byte) ([]*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("{}")) {
		return []*Node{}, nil
	}

	var doc Node
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	normalizeNumbers(&doc)

	content := doc.Content
	if doc.Type != NodeDoc {
		// a bare node sequence is accepted for convenience
		if doc.Type == "" {
			return nil, &SchemaError{Type: doc.Type, Err: ErrUnknownNodeType}
		}
		content = []*Node{&doc}
	}

	for _, n := range content {
		if err := Validate(n); err != nil {
			return nil, err
		}
	}

	repaired := make([]*Node, len(content))
	for i, n := range content {
		repaired[i] = Repair(n)
	}
	return repaired, nil
}

// normalizeNumbers rewrites json.Number attr values into int or float64 so
// attr accessors and round-trip comparisons behave predictably.
func normalizeNumbers(n *Node) {
	for k, v := range n.Attrs {
		n.Attrs[k] = normalizeValue(v)
	}
	for i := range n.Marks {
		for k, v := range n.Marks[i].Attrs {
			n.Marks[i].Attrs[k] = normalizeValue(v)
		}
	}
	for _, child := range n.Content {
		normalizeNumbers(child)
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeValue(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeValue(e)
		}
		return t
	default:
		return v
	}
}
