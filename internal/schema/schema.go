package schema

import (
	"errors"
	"fmt"
)

// NodeType is the closed set of document node kinds. Renderers and the
// mutation engine dispatch on this tag; adding a kind requires updating
// both renderer switches.
type NodeType string

const (
	NodeDoc            NodeType = "doc"
	NodeParagraph      NodeType = "paragraph"
	NodeHeading        NodeType = "heading"
	NodeText           NodeType = "text"
	NodeBulletList     NodeType = "bulletList"
	NodeOrderedList    NodeType = "orderedList"
	NodeListItem       NodeType = "listItem"
	NodeTaskList       NodeType = "taskList"
	NodeTaskItem       NodeType = "taskItem"
	NodeBlockquote     NodeType = "blockquote"
	NodeCodeBlock      NodeType = "codeBlock"
	NodeImage          NodeType = "image"
	NodeHorizontalRule NodeType = "horizontalRule"
	NodeNextPage       NodeType = "nextPage"
	NodeQuestion       NodeType = "questionNode"
)

// MarkType is the closed set of inline text decorations.
type MarkType string

const (
	MarkBold        MarkType = "bold"
	MarkItalic      MarkType = "italic"
	MarkUnderline   MarkType = "underline"
	MarkStrike      MarkType = "strike"
	MarkCode        MarkType = "code"
	MarkHighlight   MarkType = "highlight"
	MarkLink        MarkType = "link"
	MarkSubscript   MarkType = "subscript"
	MarkSuperscript MarkType = "superscript"
)

var (
	ErrUnknownNodeType = errors.New("unknown node type")
	ErrUnknownMarkType = errors.New("unknown mark type")
	ErrMissingAttr     = errors.New("missing required attribute")
	ErrEmptyTextRun    = errors.New("empty text run")
)

// SchemaError reports a malformed node encountered during validation or
// deserialization. The tree is left untouched when one is returned.
type SchemaError struct {
	Type NodeType
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: node %q: %v", e.Type, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Mark is an inline decoration applied to a text run. A run may carry any
// number of marks; order affects visual layering only.
type Mark struct {
	Type  MarkType       `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Node is the atomic unit of the document tree. Attrs holds node-specific
// configuration; unrecognized attrs round-trip opaquely. Content is absent
// for atomic nodes and text runs.
type Node struct {
	Type    NodeType       `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

var blockTypes = map[NodeType]bool{
	NodeParagraph:      true,
	NodeHeading:        true,
	NodeBulletList:     true,
	NodeOrderedList:    true,
	NodeTaskList:       true,
	NodeBlockquote:     true,
	NodeCodeBlock:      true,
	NodeImage:          true,
	NodeHorizontalRule: true,
	NodeNextPage:       true,
	NodeQuestion:       true,
}

var atomTypes = map[NodeType]bool{
	NodeImage:          true,
	NodeHorizontalRule: true,
	NodeNextPage:       true,
	NodeQuestion:       true,
}

var knownTypes = map[NodeType]bool{
	NodeDoc:            true,
	NodeParagraph:      true,
	NodeHeading:        true,
	NodeText:           true,
	NodeBulletList:     true,
	NodeOrderedList:    true,
	NodeListItem:       true,
	NodeTaskList:       true,
	NodeTaskItem:       true,
	NodeBlockquote:     true,
	NodeCodeBlock:      true,
	NodeImage:          true,
	NodeHorizontalRule: true,
	NodeNextPage:       true,
	NodeQuestion:       true,
}

var knownMarks = map[MarkType]bool{
	MarkBold:        true,
	MarkItalic:      true,
	MarkUnderline:   true,
	MarkStrike:      true,
	MarkCode:        true,
	MarkHighlight:   true,
	MarkLink:        true,
	MarkSubscript:   true,
	MarkSuperscript: true,
}

// Known reports whether t belongs to the closed node-type set.
func Known(t NodeType) bool { return knownTypes[t] }

// Atom reports whether nodes of type t are indivisible. Atoms are deleted
// and moved wholly or not at all.
func Atom(t NodeType) bool { return atomTypes[t] }

// Block reports whether t may appear at the top level of a document.
func Block(t NodeType) bool { return blockTypes[t] }

// StringAttr returns a string attribute, or def when absent or mistyped.
func (n *Node) StringAttr(key, def string) string {
	if n.Attrs == nil {
		return def
	}
	if v, ok := n.Attrs[key].(string); ok {
		return v
	}
	return def
}

// IntAttr returns an integer attribute, tolerating the float64 form JSON
// decoding produces.
func (n *Node) IntAttr(key string, def int) int {
	if n.Attrs == nil {
		return def
	}
	switch v := n.Attrs[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// BoolAttr returns a boolean attribute, or def when absent or mistyped.
func (n *Node) BoolAttr(key string, def bool) bool {
	if n.Attrs == nil {
		return def
	}
	if v, ok := n.Attrs[key].(bool); ok {
		return v
	}
	return def
}

// SetAttr writes a single attribute, allocating the map on first use.
func (n *Node) SetAttr(key string, value any) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[key] = value
}

// HasMark reports whether the text run carries the given mark.
func (n *Node) HasMark(t MarkType) bool {
	for _, m := range n.Marks {
		if m.Type == t {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		Type: n.Type,
		Text: n.Text,
	}
	if n.Attrs != nil {
		clone.Attrs = make(map[string]any, len(n.Attrs))
		for k, v := range n.Attrs {
			clone.Attrs[k] = cloneValue(v)
		}
	}
	if n.Marks != nil {
		clone.Marks = make([]Mark, len(n.Marks))
		for i, m := range n.Marks {
			clone.Marks[i] = Mark{Type: m.Type}
			if m.Attrs != nil {
				clone.Marks[i].Attrs = make(map[string]any, len(m.Attrs))
				for k, v := range m.Attrs {
					clone.Marks[i].Attrs[k] = cloneValue(v)
				}
			}
		}
	}
	if n.Content != nil {
		clone.Content = make([]*Node, len(n.Content))
		for i, c := range n.Content {
			clone.Content[i] = c.Clone()
		}
	}
	return clone
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}
