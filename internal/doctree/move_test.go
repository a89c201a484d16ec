package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formdoc/formdoc/internal/schema"
)

// buildMoveTree lays out a document whose offsets match the classic
// downward-move scenario: a node of size 4 starting at offset 10 moved to
// drop position 20 in a document of total size 30.
func buildMoveTree(t *testing.T) *Tree {
	t.Helper()
	tree := New([]*schema.Node{
		paragraph("12345678"),                // [0, 10)
		paragraph("56"),                      // [10, 14) <- the dragged node
		paragraph("7890"),                    // [14, 20)
		question("q1", schema.QuestionShort), // [20, 21)
		paragraph("abcdefg"),                 // [21, 30)
	})
	require.Equal(t, 30, tree.Size())
	return tree
}

func TestMove_DownwardAdjustment(t *testing.T) {
	tree := buildMoveTree(t)
	dragged := tree.Nodes()[1]

	tok, err := tree.BeginMove(10)
	require.NoError(t, err)
	assert.Equal(t, 10, tok.NodeStart)
	assert.Equal(t, 4, tok.NodeSize)

	require.NoError(t, tree.CompleteMove(tok, 20))

	// the dragged node lands immediately before what previously started at 20
	assert.Equal(t, 30, tree.Size())
	nodes := tree.Nodes()
	assert.Same(t, nodes[2], dragged)
	assert.Equal(t, schema.NodeQuestion, nodes[3].Type)

	// its new start offset is the adjusted target 20 - 4 = 16
	offs := 0
	for _, n := range nodes[:2] {
		offs += SizeOf(n)
	}
	assert.Equal(t, 16, offs)
}

func TestMove_Upward_NoAdjustment(t *testing.T) {
	tree := buildMoveTree(t)
	tok, err := tree.BeginMove(21)
	require.NoError(t, err)
	require.NoError(t, tree.CompleteMove(tok, 0))

	assert.Equal(t, "abcdefg", tree.Nodes()[0].Content[0].Text)
	assert.Equal(t, 30, tree.Size())
}

func TestMove_ToOwnPosition_IsNoOp(t *testing.T) {
	tree := buildMoveTree(t)
	before, err := tree.Serialize()
	require.NoError(t, err)

	for _, drop := range []int{10, 11, 13, 14} {
		tok, err := tree.BeginMove(10)
		require.NoError(t, err)
		require.NoError(t, tree.CompleteMove(tok, drop))

		after, err := tree.Serialize()
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after), "drop at %d must not change the tree", drop)
	}
}

func TestMove_StaleToken(t *testing.T) {
	tree := buildMoveTree(t)
	tok, err := tree.BeginMove(10)
	require.NoError(t, err)

	// the tree shifts under the gesture
	require.NoError(t, tree.DeleteRange(0, 10))
	before, _ := tree.Serialize()

	err = tree.CompleteMove(tok, 4)
	assert.ErrorIs(t, err, ErrStaleMove)

	after, _ := tree.Serialize()
	assert.Equal(t, string(before), string(after))
}

func TestMove_InvalidDrop(t *testing.T) {
	tree := buildMoveTree(t)
	tok, err := tree.BeginMove(10)
	require.NoError(t, err)

	before, _ := tree.Serialize()
	assert.ErrorIs(t, tree.CompleteMove(tok, -3), ErrStaleMove)
	assert.ErrorIs(t, tree.CompleteMove(tok, 99), ErrStaleMove)
	after, _ := tree.Serialize()
	assert.Equal(t, string(before), string(after))
}

func TestMove_BeginOutOfRange(t *testing.T) {
	tree := buildMoveTree(t)
	_, err := tree.BeginMove(-1)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
	_, err = tree.BeginMove(31)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
	_, err = tree.BeginMove(30)
	assert.ErrorIs(t, err, ErrStaleMove)
}

func TestMove_DropInsideNodeResolvesToBoundary(t *testing.T) {
	tree := buildMoveTree(t)
	tok, err := tree.BeginMove(20) // the question node
	require.NoError(t, err)

	// drop lands mid-paragraph; resolves back to that paragraph's start
	require.NoError(t, tree.CompleteMove(tok, 12))
	assert.Equal(t, schema.NodeQuestion, tree.Nodes()[1].Type)
}

func TestMove_OneShot(t *testing.T) {
	tree := New([]*schema.Node{
		question("q1", schema.QuestionShort), // [0, 1)
		question("q2", schema.QuestionShort), // [1, 2)
		question("q3", schema.QuestionShort), // [2, 3)
	})
	require.NoError(t, tree.Move(0, 3))
	ids := []string{}
	for _, q := range tree.Questions() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"q2", "q3", "q1"}, ids)
}
