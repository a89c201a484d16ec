// Package doctree gives the flat document node sequence a stable positional
// address space and implements the structural mutations driven by authoring
// gestures: insert, delete and drag-reorder.
//
// Positions are cumulative size offsets, not array indices. A text run
// occupies one unit per rune, an atomic node (question, page break, image,
// horizontal rule) occupies one unit, and a container occupies one opening
// unit, its children, and one closing unit. Offsets therefore stay meaningful
// across nested structures and shift predictably under mutation.
package doctree

import (
	"errors"
	"unicode/utf8"

	"github.com/formdoc/formdoc/internal/schema"
)

var (
	ErrNodeNotFound      = errors.New("doctree: no node at position")
	ErrPositionOutOfRange = errors.New("doctree: position out of range")
	ErrInvalidRange      = errors.New("doctree: invalid range")
)

// Tree is the ordered top-level node sequence of one document. It is owned
// by a single editing session; mutations are applied in gesture order with
// no interleaving.
type Tree struct {
	nodes []*schema.Node
}

// New wraps a top-level node sequence. The caller hands over ownership.
func New(nodes []*schema.Node) *Tree {
	if nodes == nil {
		nodes = []*schema.Node{}
	}
	return &Tree{nodes: nodes}
}

// Parse deserializes a persisted tree (validating and repairing it) and
// wraps the result.
func Parse(data []byte) (*Tree, error) {
	content, err := schema.Deserialize(data)
	if err != nil {
		return nil, err
	}
	return New(content), nil
}

// Nodes exposes the top-level sequence. Callers must not mutate it.
func (t *Tree) Nodes() []*schema.Node { return t.nodes }

// Serialize encodes the tree as the persistable JSON document.
func (t *Tree) Serialize() ([]byte, error) { return schema.Serialize(t.nodes) }

// Size is the total number of position units the document occupies.
func (t *Tree) Size() int {
	size := 0
	for _, n := range t.nodes {
		size += SizeOf(n)
	}
	return size
}

// SizeOf returns the number of position units a node and its subtree occupy.
// Always >= 1; containers are 2 + the sum of their children.
func SizeOf(n *schema.Node) int {
	if n.Type == schema.NodeText {
		if n.Text == "" {
			return 1
		}
		return utf8.RuneCountInString(n.Text)
	}
	if schema.Atom(n.Type) {
		return 1
	}
	size := 2
	for _, child := range n.Content {
		size += SizeOf(child)
	}
	return size
}

// offsets returns the start offset of every top-level node plus the final
// document boundary. len == len(nodes)+1.
func (t *Tree) offsets() []int {
	offs := make([]int, 0, len(t.nodes)+1)
	pos := 0
	for _, n := range t.nodes {
		offs = append(offs, pos)
		pos += SizeOf(n)
	}
	return append(offs, pos)
}

// NodeAt resolves a position to the deepest node whose span contains it.
func (t *Tree) NodeAt(pos int) (*schema.Node, error) {
	if pos < 0 || pos >= t.Size() {
		return nil, ErrNodeNotFound
	}
	return resolve(t.nodes, pos)
}

func resolve(nodes []*schema.Node, pos int) (*schema.Node, error) {
	cur := 0
	for _, n := range nodes {
		size := SizeOf(n)
		if pos < cur+size {
			if pos == cur || n.Type == schema.NodeText || schema.Atom(n.Type) {
				return n, nil
			}
			// interior of a container: descend past the opening unit
			if pos == cur+size-1 {
				return n, nil // closing unit belongs to the container
			}
			return resolve(n.Content, pos-cur-1)
		}
		cur += size
	}
	return nil, ErrNodeNotFound
}

// topLevelAt finds the index of the top-level node whose span [start,
// start+size) contains pos, returning the index and the node's start offset.
func (t *Tree) topLevelAt(pos int) (int, int, bool) {
	cur := 0
	for i, n := range t.nodes {
		size := SizeOf(n)
		if pos >= cur && pos < cur+size {
			return i, cur, true
		}
		cur += size
	}
	return 0, 0, false
}

// boundaryAtOrBefore resolves an arbitrary offset to the nearest top-level
// node boundary at or before it. Offsets past the end clamp to the final
// boundary; negative offsets report failure.
func (t *Tree) boundaryAtOrBefore(pos int) (int, bool) {
	if pos < 0 {
		return 0, false
	}
	offs := t.offsets()
	best := 0
	for _, off := range offs {
		if off <= pos {
			best = off
		}
	}
	return best, true
}

// isBoundary reports whether pos falls exactly between two top-level nodes
// (or at the document edges).
func (t *Tree) isBoundary(pos int) bool {
	for _, off := range t.offsets() {
		if off == pos {
			return true
		}
	}
	return false
}

// InsertAt inserts a node at a top-level boundary, shifting every later
// offset by SizeOf(node). Fails with ErrPositionOutOfRange when pos is
// negative or beyond the document, and with ErrInvalidRange when pos falls
// inside a node.
func (t *Tree) InsertAt(pos int, node *schema.Node) error {
	if pos < 0 || pos > t.Size() {
		return ErrPositionOutOfRange
	}
	if !t.isBoundary(pos) {
		return ErrInvalidRange
	}
	idx := 0
	cur := 0
	for idx < len(t.nodes) && cur < pos {
		cur += SizeOf(t.nodes[idx])
		idx++
	}
	t.nodes = append(t.nodes[:idx], append([]*schema.Node{node}, t.nodes[idx:]...)...)
	return nil
}

// DeleteRange removes all content whose offsets fall in [from, to). The
// range must cover whole nodes: a cut that would split an atomic node or
// cross a container boundary fails with ErrInvalidRange and leaves the tree
// untouched. As the one concession to inline editing, a range that falls
// entirely inside a single text run splices that run's text.
func (t *Tree) DeleteRange(from, to int) error {
	if to < from {
		return ErrInvalidRange
	}
	if from < 0 || to > t.Size() {
		return ErrPositionOutOfRange
	}
	if from == to {
		return nil
	}

	offs := t.offsets()
	startIdx, endIdx := -1, -1
	for i, off := range offs {
		if off == from {
			startIdx = i
		}
		if off == to {
			endIdx = i
		}
	}
	if startIdx >= 0 && endIdx >= startIdx {
		t.nodes = append(t.nodes[:startIdx], t.nodes[endIdx:]...)
		return nil
	}

	return t.spliceText(from, to)
}

// spliceText handles the partial-range case: both endpoints must land inside
// the same text run.
func (t *Tree) spliceText(from, to int) error {
	runFrom, offFrom, err := t.textRunAt(from)
	if err != nil {
		return err
	}
	runTo, offTo, err := t.textRunAt(to - 1)
	if err != nil || runFrom != runTo {
		return ErrInvalidRange
	}

	runes := []rune(runFrom.Text)
	start := from - offFrom
	end := to - offTo
	if start < 0 || end > len(runes) || start >= end {
		return ErrInvalidRange
	}
	remaining := append(append([]rune{}, runes[:start]...), runes[end:]...)
	if len(remaining) == 0 {
		return ErrInvalidRange // deleting a whole run must go through node-aligned delete
	}
	runFrom.Text = string(remaining)
	return nil
}

// textRunAt locates the text run containing pos along with the run's start
// offset.
func (t *Tree) textRunAt(pos int) (*schema.Node, int, error) {
	node, off, ok := findText(t.nodes, pos, 0)
	if !ok {
		return nil, 0, ErrInvalidRange
	}
	return node, off, nil
}

func findText(nodes []*schema.Node, pos, base int) (*schema.Node, int, bool) {
	cur := base
	for _, n := range nodes {
		size := SizeOf(n)
		if pos >= cur && pos < cur+size {
			if n.Type == schema.NodeText {
				return n, cur, true
			}
			if schema.Atom(n.Type) {
				return nil, 0, false
			}
			return findText(n.Content, pos, cur+1)
		}
		cur += size
	}
	return nil, 0, false
}

// Clone deep-copies the tree, used to keep mutations all-or-nothing.
func (t *Tree) Clone() *Tree {
	nodes := make([]*schema.Node, len(t.nodes))
	for i, n := range t.nodes {
		nodes[i] = n.Clone()
	}
	return &Tree{nodes: nodes}
}

// Questions walks the top-level sequence and returns the typed attrs of
// every question node in document order.
func (t *Tree) Questions() []schema.QuestionAttrs {
	var qs []schema.QuestionAttrs
	for _, n := range t.nodes {
		if n.Type == schema.NodeQuestion {
			qs = append(qs, n.Question())
		}
	}
	return qs
}
