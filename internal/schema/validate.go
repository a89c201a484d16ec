package schema

import (
	"fmt"

	"github.com/google/uuid"
)

// Validate checks a node and its subtree against the closed type set.
// Structural problems that Repair can fix (missing question ids, empty
// options on choice questions) are not errors here.
func Validate(n *Node) error {
	if !Known(n.Type) {
		return &SchemaError{Type: n.Type, Err: ErrUnknownNodeType}
	}

	switch n.Type {
	case NodeText:
		if n.Text == "" {
			return &SchemaError{Type: n.Type, Err: ErrEmptyTextRun}
		}
		for _, m := range n.Marks {
			if !knownMarks[m.Type] {
				return &SchemaError{Type: n.Type, Err: fmt.Errorf("%w: %q", ErrUnknownMarkType, m.Type)}
			}
		}
	case NodeHeading:
		level := n.IntAttr("level", 1)
		if level < 1 || level > 6 {
			return &SchemaError{Type: n.Type, Err: fmt.Errorf("heading level %d out of range", level)}
		}
	case NodeImage:
		if n.StringAttr("src", "") == "" {
			return &SchemaError{Type: n.Type, Err: fmt.Errorf("%w: src", ErrMissingAttr)}
		}
	case NodeQuestion:
		q := n.Question()
		if !knownQuestionType(q.Type) {
			return &SchemaError{Type: n.Type, Err: fmt.Errorf("unknown question type %q", q.Type)}
		}
	}

	if Atom(n.Type) && n.Type != NodeImage && len(n.Content) > 0 && n.Type != NodeQuestion {
		return &SchemaError{Type: n.Type, Err: fmt.Errorf("atomic node carries content")}
	}

	for _, child := range n.Content {
		if err := Validate(child); err != nil {
			return err
		}
	}
	return nil
}

// Repair is the self-healing pass run on every deserialized tree: it
// assigns missing question ids and restores the options invariant (choice
// questions always carry at least one option). It is pure with respect to
// its input; the returned node is a patched deep copy.
func Repair(n *Node) *Node {
	clone := n.Clone()
	repairInPlace(clone)
	return clone
}

func repairInPlace(n *Node) {
	if n.Type == NodeQuestion {
		q := n.Question()
		changed := false
		if q.ID == "" {
			q.ID = uuid.New().String()
			changed = true
		}
		if q.Label == "" {
			q.Label = DefaultQuestionLabel
			changed = true
		}
		if q.Type.Choice() && len(q.Options) == 0 {
			q.Options = []string{"Option 1", "Option 2"}
			changed = true
		}
		if changed {
			n.SetQuestion(q)
		}
	}
	for _, child := range n.Content {
		repairInPlace(child)
	}
}
