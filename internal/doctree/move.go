package doctree

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/formdoc/formdoc/internal/schema"
)

// ErrStaleMove reports a drop that no longer corresponds to a valid node:
// the tree changed between drag start and drop, or the drag payload was
// invalid to begin with. Callers treat it as a cancelled gesture, never as
// a user-facing error.
var ErrStaleMove = errors.New("doctree: stale move target")

// MoveToken is the two-phase gesture handle: BeginMove captures the dragged
// node's offsets at gesture start, CompleteMove resolves the drop against
// the tree as it is then. The token carries no reference into the tree.
type MoveToken struct {
	FromPos   int
	NodeStart int
	NodeSize  int
}

// BeginMove starts a drag at fromPos. The position must resolve to a
// top-level node; otherwise the gesture is rejected before any state is
// captured.
func (t *Tree) BeginMove(fromPos int) (MoveToken, error) {
	if fromPos < 0 || fromPos > t.Size() {
		return MoveToken{}, ErrPositionOutOfRange
	}
	_, start, ok := t.topLevelAt(fromPos)
	if !ok {
		return MoveToken{}, ErrStaleMove
	}
	node := t.nodeStartingAt(start)
	return MoveToken{FromPos: fromPos, NodeStart: start, NodeSize: SizeOf(node)}, nil
}

// CompleteMove relocates the dragged node to the drop position as one
// logical transaction. The drop offset is resolved to the nearest top-level
// boundary at or before it. Moving downward the target is adjusted left by
// the node's size, since deleting the node first shifts all later offsets.
// Any failure leaves the tree exactly as it was.
func (t *Tree) CompleteMove(tok MoveToken, dropPos int) error {
	node := t.nodeStartingAt(tok.NodeStart)
	if node == nil || SizeOf(node) != tok.NodeSize {
		logrus.Debugf("move: token no longer matches tree (start=%d size=%d), dropping gesture", tok.NodeStart, tok.NodeSize)
		return ErrStaleMove
	}

	toPos, ok := t.boundaryAtOrBefore(dropPos)
	if !ok || dropPos > t.Size() {
		logrus.Debugf("move: drop position %d unresolvable, dropping gesture", dropPos)
		return ErrStaleMove
	}

	// dropping inside the dragged node itself is a no-op cancellation
	if toPos > tok.NodeStart && toPos < tok.NodeStart+tok.NodeSize {
		return nil
	}

	adjusted := toPos
	if toPos > tok.NodeStart {
		adjusted -= tok.NodeSize
	}
	if adjusted == tok.NodeStart {
		return nil // moving onto its own position leaves the tree untouched
	}

	// apply delete+insert on a working copy of the top-level sequence;
	// swap in only when both steps succeed
	work := &Tree{nodes: append([]*schema.Node{}, t.nodes...)}
	moved := work.nodeStartingAt(tok.NodeStart)
	if err := work.DeleteRange(tok.NodeStart, tok.NodeStart+tok.NodeSize); err != nil {
		logrus.Errorf("move: delete failed: %v", err)
		return ErrStaleMove
	}
	if err := work.InsertAt(adjusted, moved); err != nil {
		logrus.Errorf("move: insert failed: %v", err)
		return ErrStaleMove
	}
	t.nodes = work.nodes
	return nil
}

// Move is the one-shot form used by the HTTP move operation, where capture
// and drop happen against the same tree state.
func (t *Tree) Move(fromPos, dropPos int) error {
	tok, err := t.BeginMove(fromPos)
	if err != nil {
		return err
	}
	return t.CompleteMove(tok, dropPos)
}

func (t *Tree) nodeStartingAt(start int) *schema.Node {
	cur := 0
	for _, n := range t.nodes {
		if cur == start {
			return n
		}
		cur += SizeOf(n)
	}
	return nil
}
