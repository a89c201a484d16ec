package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formdoc/formdoc/internal/answers"
	"github.com/formdoc/formdoc/internal/schema"
)

func text(s string, marks ...schema.Mark) *schema.Node {
	return &schema.Node{Type: schema.NodeText, Text: s, Marks: marks}
}

func paragraph(children ...*schema.Node) *schema.Node {
	return &schema.Node{Type: schema.NodeParagraph, Content: children}
}

func question(t *testing.T, qt schema.QuestionType, id string, mut func(*schema.QuestionAttrs)) *schema.Node {
	t.Helper()
	n := schema.NewQuestionNode(qt)
	q := n.Question()
	q.ID = id
	if mut != nil {
		mut(&q)
	}
	n.SetQuestion(q)
	return n
}

func TestMarked_AppliesEveryMark(t *testing.T) {
	n := text("hi",
		schema.Mark{Type: schema.MarkBold},
		schema.Mark{Type: schema.MarkItalic},
		schema.Mark{Type: schema.MarkCode},
	)
	assert.Equal(t, "<strong><em><code>hi</code></em></strong>", marked(n))
}

func TestMarked_AttrMarks(t *testing.T) {
	link := text("docs", schema.Mark{Type: schema.MarkLink, Attrs: map[string]any{"href": "https://example.com"}})
	assert.Equal(t, `<a href="https://example.com">docs</a>`, marked(link))

	plain := text("note", schema.Mark{Type: schema.MarkHighlight})
	assert.Equal(t, `<mark style="background-color: yellow">note</mark>`, marked(plain))

	tinted := text("note", schema.Mark{Type: schema.MarkHighlight, Attrs: map[string]any{"color": "#fde"}})
	assert.Contains(t, marked(tinted), "background-color: #fde")
}

func TestRespondent_EscapesContent(t *testing.T) {
	out := Respondent([]*schema.Node{paragraph(text(`<script>alert("x")</script>`))}, answers.NewSheet(nil))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRespondent_StaticBlocks(t *testing.T) {
	nodes := []*schema.Node{
		{Type: schema.NodeHeading, Attrs: map[string]any{"level": 2}, Content: []*schema.Node{text("Title")}},
		{Type: schema.NodeBulletList, Content: []*schema.Node{
			{Type: schema.NodeListItem, Content: []*schema.Node{paragraph(text("one"))}},
		}},
		{Type: schema.NodeCodeBlock, Attrs: map[string]any{"language": "go"}, Content: []*schema.Node{text("x := 1")}},
		{Type: schema.NodeHorizontalRule},
		{Type: schema.NodeNextPage},
	}
	out := Respondent(nodes, answers.NewSheet(nil))

	assert.Contains(t, out, "<h2>Title</h2>")
	assert.Contains(t, out, "<ul><li><p>one</p></li></ul>")
	assert.Contains(t, out, `<code class="language-go">x := 1</code>`)
	assert.Contains(t, out, "<hr>")
	// page markers are consumed by pagination, never shown
	assert.NotContains(t, out, "next-page")
}

func TestRespondent_QuestionControls(t *testing.T) {
	nodes := []*schema.Node{
		question(t, schema.QuestionShort, "q1", func(q *schema.QuestionAttrs) {
			q.Label = "Name"
			q.Placeholder = "Jane Doe"
			q.Required = true
		}),
		question(t, schema.QuestionLong, "q2", func(q *schema.QuestionAttrs) {
			q.Label = "Bio"
		}),
		question(t, schema.QuestionMultipleChoice, "q3", func(q *schema.QuestionAttrs) {
			q.Options = []string{"red", "blue"}
		}),
		question(t, schema.QuestionCheckbox, "q4", func(q *schema.QuestionAttrs) {
			q.Options = []string{"A", "B"}
		}),
	}

	var qs []schema.QuestionAttrs
	for _, n := range nodes {
		qs = append(qs, n.Question())
	}
	sheet := answers.NewSheet(qs)
	require.NoError(t, sheet.Set("q1", "Ada"))
	require.NoError(t, sheet.Set("q3", "blue"))
	require.NoError(t, sheet.Toggle("q4", "B"))

	out := Respondent(nodes, sheet)

	assert.Contains(t, out, `<input type="text" name="q1" placeholder="Jane Doe" value="Ada" required>`)
	assert.Contains(t, out, `<textarea name="q2"`)
	assert.Contains(t, out, `<input type="radio" name="q3" value="blue" checked>`)
	assert.Contains(t, out, `<input type="radio" name="q3" value="red">`)
	assert.Contains(t, out, `<input type="checkbox" name="q4[]" value="B" checked>`)
	assert.Contains(t, out, `<input type="checkbox" name="q4[]" value="A">`)
}

func TestAuthoring_BlockOffsets(t *testing.T) {
	nodes := []*schema.Node{
		paragraph(text("12345678")), // size 10
		{Type: schema.NodeHorizontalRule},
		paragraph(text("ab")),
	}
	out := Authoring(nodes)

	assert.Contains(t, out, `data-pos="0"`)
	assert.Contains(t, out, `data-pos="10"`)
	assert.Contains(t, out, `data-pos="11"`)
}

func TestAuthoring_QuestionEditor(t *testing.T) {
	n := question(t, schema.QuestionMultipleChoice, "q1", func(q *schema.QuestionAttrs) {
		q.Label = "Pick one"
		q.Options = []string{"left", "right"}
		q.Required = true
	})
	out := Authoring([]*schema.Node{n})

	assert.Contains(t, out, `data-id="q1"`)
	assert.Contains(t, out, `data-qtype="multipleChoice"`)
	assert.Contains(t, out, `data-required="true"`)
	assert.Contains(t, out, `value="Pick one"`)
	assert.Contains(t, out, `<li><input value="left"></li>`)
	assert.Contains(t, out, `data-control="radio"`)
}

func TestAuthoring_NextPageDivider(t *testing.T) {
	out := Authoring([]*schema.Node{{Type: schema.NodeNextPage}})
	assert.Contains(t, out, "next-page-divider")
}
