package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formdoc/formdoc/internal/schema"
)

func text(s string) *schema.Node {
	return &schema.Node{Type: schema.NodeText, Text: s}
}

func paragraph(s string) *schema.Node {
	return &schema.Node{Type: schema.NodeParagraph, Content: []*schema.Node{text(s)}}
}

func question(id string, t schema.QuestionType) *schema.Node {
	n := &schema.Node{Type: schema.NodeQuestion}
	q := schema.QuestionAttrs{ID: id, Label: "Q " + id, Type: t}
	if t.Choice() {
		q.Options = []string{"A", "B"}
	}
	n.SetQuestion(q)
	return n
}

func TestSizeOf(t *testing.T) {
	tests := []struct {
		name string
		node *schema.Node
		want int
	}{
		{"atomic question", question("q", schema.QuestionShort), 1},
		{"page break", &schema.Node{Type: schema.NodeNextPage}, 1},
		{"image", &schema.Node{Type: schema.NodeImage, Attrs: map[string]any{"src": "x.png"}}, 1},
		{"empty paragraph", &schema.Node{Type: schema.NodeParagraph}, 2},
		{"paragraph with text", paragraph("hello"), 7},
		{"unicode text", paragraph("héllo"), 7},
		{"nested list", &schema.Node{Type: schema.NodeBulletList, Content: []*schema.Node{
			{Type: schema.NodeListItem, Content: []*schema.Node{paragraph("ab")}},
		}}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SizeOf(tt.node))
			assert.GreaterOrEqual(t, SizeOf(tt.node), 1)
		})
	}
}

func TestSizeOf_ContainerInvariant(t *testing.T) {
	container := &schema.Node{Type: schema.NodeBlockquote, Content: []*schema.Node{
		paragraph("one"), paragraph("two"), question("q1", schema.QuestionLong),
	}}
	sum := 0
	for _, child := range container.Content {
		sum += SizeOf(child)
	}
	assert.Equal(t, 2+sum, SizeOf(container))
}

func TestNodeAt(t *testing.T) {
	tree := New([]*schema.Node{
		paragraph("hi"),                     // [0, 4)
		question("q1", schema.QuestionShort), // [4, 5)
		&schema.Node{Type: schema.NodeNextPage}, // [5, 6)
	})
	require.Equal(t, 6, tree.Size())

	n, err := tree.NodeAt(0)
	require.NoError(t, err)
	assert.Equal(t, schema.NodeParagraph, n.Type)

	n, err = tree.NodeAt(1)
	require.NoError(t, err)
	assert.Equal(t, schema.NodeText, n.Type)

	n, err = tree.NodeAt(4)
	require.NoError(t, err)
	assert.Equal(t, schema.NodeQuestion, n.Type)

	n, err = tree.NodeAt(5)
	require.NoError(t, err)
	assert.Equal(t, schema.NodeNextPage, n.Type)

	_, err = tree.NodeAt(6)
	assert.ErrorIs(t, err, ErrNodeNotFound)
	_, err = tree.NodeAt(-1)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestInsertAt(t *testing.T) {
	tree := New([]*schema.Node{paragraph("hi"), question("q1", schema.QuestionShort)})
	size := tree.Size() // 5

	err := tree.InsertAt(4, &schema.Node{Type: schema.NodeNextPage})
	require.NoError(t, err)
	assert.Equal(t, size+1, tree.Size())
	assert.Equal(t, schema.NodeNextPage, tree.Nodes()[1].Type)

	// bounds
	assert.ErrorIs(t, tree.InsertAt(-1, paragraph("x")), ErrPositionOutOfRange)
	assert.ErrorIs(t, tree.InsertAt(tree.Size()+1, paragraph("x")), ErrPositionOutOfRange)

	// interior of a node is not a valid insertion point
	assert.ErrorIs(t, tree.InsertAt(2, paragraph("x")), ErrInvalidRange)
}

func TestDeleteRange(t *testing.T) {
	build := func() *Tree {
		return New([]*schema.Node{
			paragraph("hi"),                      // [0, 4)
			question("q1", schema.QuestionShort),  // [4, 5)
			question("q2", schema.QuestionShort),  // [5, 6)
		})
	}

	t.Run("whole node", func(t *testing.T) {
		tree := build()
		require.NoError(t, tree.DeleteRange(4, 5))
		require.Len(t, tree.Nodes(), 2)
		assert.Equal(t, "q2", tree.Nodes()[1].Question().ID)
	})

	t.Run("multiple nodes", func(t *testing.T) {
		tree := build()
		require.NoError(t, tree.DeleteRange(0, 5))
		require.Len(t, tree.Nodes(), 1)
		assert.Equal(t, "q2", tree.Nodes()[0].Question().ID)
	})

	t.Run("reversed range", func(t *testing.T) {
		tree := build()
		assert.ErrorIs(t, tree.DeleteRange(5, 4), ErrInvalidRange)
		assert.Len(t, tree.Nodes(), 3)
	})

	t.Run("out of range", func(t *testing.T) {
		tree := build()
		assert.ErrorIs(t, tree.DeleteRange(0, 99), ErrPositionOutOfRange)
	})

	t.Run("splitting an atom is refused", func(t *testing.T) {
		tree := build()
		err := tree.DeleteRange(3, 5) // cuts into the paragraph and q1
		assert.ErrorIs(t, err, ErrInvalidRange)
		assert.Len(t, tree.Nodes(), 3)
	})

	t.Run("splice inside one text run", func(t *testing.T) {
		tree := New([]*schema.Node{paragraph("hello")}) // text occupies [1, 6)
		require.NoError(t, tree.DeleteRange(2, 4))
		assert.Equal(t, "hlo", tree.Nodes()[0].Content[0].Text)
	})

	t.Run("empty range is a no-op", func(t *testing.T) {
		tree := build()
		require.NoError(t, tree.DeleteRange(4, 4))
		assert.Len(t, tree.Nodes(), 3)
	})
}

func TestParse_RejectsCorruptTree(t *testing.T) {
	_, err := Parse([]byte(`{"type":"doc","content":[{"type":"mystery"}]}`))
	assert.Error(t, err)

	tree, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Size())
}

func TestQuestions_DocumentOrder(t *testing.T) {
	tree := New([]*schema.Node{
		question("q1", schema.QuestionShort),
		paragraph("between"),
		question("q2", schema.QuestionCheckbox),
	})
	qs := tree.Questions()
	require.Len(t, qs, 2)
	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, "q2", qs[1].ID)
	assert.Equal(t, []string{"A", "B"}, qs[1].Options)
}
