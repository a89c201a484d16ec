package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formdoc/formdoc/internal/schema"
)

func pageBreak() *schema.Node {
	return &schema.Node{Type: schema.NodeNextPage}
}

func TestSplitPages(t *testing.T) {
	q1 := question("q1", schema.QuestionShort)
	q2 := question("q2", schema.QuestionLong)

	tests := []struct {
		name      string
		content   []*schema.Node
		wantPages int
		wantSizes []int
	}{
		{"no markers", []*schema.Node{q1, q2}, 1, []int{2}},
		{"one marker", []*schema.Node{q1, pageBreak(), q2}, 2, []int{1, 1}},
		{"trailing marker yields empty page", []*schema.Node{q1, pageBreak()}, 2, []int{1, 0}},
		{"leading marker yields empty page", []*schema.Node{pageBreak(), q1}, 2, []int{0, 1}},
		{"adjacent markers", []*schema.Node{pageBreak(), pageBreak()}, 3, []int{0, 0, 0}},
		{"empty content", nil, 1, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := SplitPages(tt.content)
			require.Len(t, pages, tt.wantPages)
			for i, p := range pages {
				assert.Len(t, p, tt.wantSizes[i])
			}
		})
	}
}

func TestSplitPages_Invariants(t *testing.T) {
	content := []*schema.Node{
		question("q1", schema.QuestionShort),
		paragraph("intro"),
		pageBreak(),
		question("q2", schema.QuestionLong),
		pageBreak(),
	}

	pages := SplitPages(content)

	markers := 0
	var withoutMarkers []*schema.Node
	for _, n := range content {
		if n.Type == schema.NodeNextPage {
			markers++
			continue
		}
		withoutMarkers = append(withoutMarkers, n)
	}

	assert.Len(t, pages, markers+1)

	var flattened []*schema.Node
	for _, p := range pages {
		flattened = append(flattened, p...)
	}
	assert.Equal(t, withoutMarkers, flattened)
}

func TestSplitPages_Scenario(t *testing.T) {
	// [Q1(short), nextPage, Q2(long)] -> [[Q1], [Q2]]
	q1 := question("q1", schema.QuestionShort)
	q2 := question("q2", schema.QuestionLong)
	pages := SplitPages([]*schema.Node{q1, pageBreak(), q2})

	require.Len(t, pages, 2)
	assert.Equal(t, []*schema.Node(pages[0]), []*schema.Node{q1})
	assert.Equal(t, []*schema.Node(pages[1]), []*schema.Node{q2})

	nav := NewNav(0, len(pages))
	assert.False(t, nav.HasPrevious())
	assert.True(t, nav.HasNext())
	assert.False(t, nav.Last())

	nav = nav.Next()
	assert.True(t, nav.HasPrevious())
	assert.False(t, nav.HasNext())
	assert.True(t, nav.Last())
}

func TestNav_Clamped(t *testing.T) {
	assert.Equal(t, 0, NewNav(-5, 3).PageIndex)
	assert.Equal(t, 2, NewNav(99, 3).PageIndex)
	assert.Equal(t, 0, NewNav(0, 0).PageIndex)
	assert.Equal(t, 2, NewNav(2, 3).Next().PageIndex)
	assert.Equal(t, 0, NewNav(0, 3).Previous().PageIndex)
}

func TestNewBlock(t *testing.T) {
	for _, kind := range []string{
		"paragraph", "heading1", "heading2", "bulletList", "orderedList",
		"blockquote", "codeBlock", "horizontalRule", "nextPage",
		"short", "long", "multipleChoice", "checkbox",
	} {
		n, err := NewBlock(kind)
		require.NoError(t, err, kind)
		require.NotNil(t, n)
	}

	n, err := NewBlock("multipleChoice")
	require.NoError(t, err)
	q := n.Question()
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, []string{"Option 1", "Option 2"}, q.Options)

	_, err = NewBlock("widget")
	assert.Error(t, err)
}
