package render

import (
	"fmt"
	"strings"

	"github.com/formdoc/formdoc/internal/doctree"
	"github.com/formdoc/formdoc/internal/schema"
)

// Authoring renders the tree as the editable view: each block carries its
// start offset as a drag payload and question nodes become their editing
// widgets. The offset attribute is what the drag gesture captures as
// fromPos.
func Authoring(nodes []*schema.Node) string {
	var sb strings.Builder
	pos := 0
	for _, n := range nodes {
		fmt.Fprintf(&sb, `<div class="block" draggable="true" data-pos="%d">`, pos)
		authoringNode(&sb, n)
		sb.WriteString("</div>")
		pos += doctree.SizeOf(n)
	}
	return sb.String()
}

func authoringNode(sb *strings.Builder, n *schema.Node) {
	switch n.Type {
	case schema.NodeParagraph:
		sb.WriteString("<p" + alignStyle(n) + ` contenteditable="true">`)
		inline(sb, n.Content)
		sb.WriteString("</p>")
	case schema.NodeHeading:
		level := n.IntAttr("level", 1)
		fmt.Fprintf(sb, "<h%d%s contenteditable=\"true\">", level, alignStyle(n))
		inline(sb, n.Content)
		fmt.Fprintf(sb, "</h%d>", level)
	case schema.NodeBulletList:
		sb.WriteString("<ul>")
		for _, item := range n.Content {
			authoringNode(sb, item)
		}
		sb.WriteString("</ul>")
	case schema.NodeOrderedList:
		sb.WriteString("<ol>")
		for _, item := range n.Content {
			authoringNode(sb, item)
		}
		sb.WriteString("</ol>")
	case schema.NodeListItem:
		sb.WriteString(`<li contenteditable="true">`)
		for _, child := range n.Content {
			authoringNode(sb, child)
		}
		sb.WriteString("</li>")
	case schema.NodeTaskList:
		sb.WriteString(`<ul class="task-list">`)
		for _, item := range n.Content {
			authoringNode(sb, item)
		}
		sb.WriteString("</ul>")
	case schema.NodeTaskItem:
		checked := ""
		if n.BoolAttr("checked", false) {
			checked = " checked"
		}
		fmt.Fprintf(sb, `<li><input type="checkbox"%s> `, checked)
		for _, child := range n.Content {
			authoringNode(sb, child)
		}
		sb.WriteString("</li>")
	case schema.NodeBlockquote:
		sb.WriteString("<blockquote>")
		for _, child := range n.Content {
			authoringNode(sb, child)
		}
		sb.WriteString("</blockquote>")
	case schema.NodeCodeBlock:
		fmt.Fprintf(sb, `<pre contenteditable="true"><code>%s</code></pre>`, esc(codeText(n)))
	case schema.NodeImage:
		fmt.Fprintf(sb, `<img src="%s" alt="%s">`, esc(n.StringAttr("src", "")), esc(n.StringAttr("alt", "")))
	case schema.NodeHorizontalRule:
		sb.WriteString("<hr>")
	case schema.NodeNextPage:
		sb.WriteString(`<div class="next-page-divider"><span>Next Page</span></div>`)
	case schema.NodeQuestion:
		authoringQuestion(sb, n.Question())
	case schema.NodeText:
		sb.WriteString(marked(n))
	case schema.NodeDoc:
		for _, child := range n.Content {
			authoringNode(sb, child)
		}
	}
}

// authoringQuestion renders the editing widget for a question: the prompt
// is an input writing back to the label attr, and the per-type body edits
// placeholder text or the options list.
func authoringQuestion(sb *strings.Builder, q schema.QuestionAttrs) {
	required := ""
	if q.Required {
		required = ` data-required="true"`
	}
	fmt.Fprintf(sb, `<div class="question-editor" data-id="%s" data-qtype="%s"%s>`, esc(q.ID), esc(string(q.Type)), required)
	fmt.Fprintf(sb, `<input class="question-label" value="%s" placeholder="Question prompt...">`, esc(q.Label))

	switch q.Type {
	case schema.QuestionShort:
		fmt.Fprintf(sb, `<input class="question-placeholder" value="%s" placeholder="Placeholder (optional)">`, esc(q.Placeholder))
	case schema.QuestionLong:
		fmt.Fprintf(sb, `<textarea class="question-placeholder" rows="3" placeholder="Placeholder (optional)">%s</textarea>`, esc(q.Placeholder))
	case schema.QuestionMultipleChoice:
		sb.WriteString(`<ul class="option-editor" data-control="radio">`)
		for _, opt := range q.Options {
			fmt.Fprintf(sb, `<li><input value="%s"></li>`, esc(opt))
		}
		sb.WriteString("</ul>")
	case schema.QuestionCheckbox:
		sb.WriteString(`<ul class="option-editor" data-control="checkbox">`)
		for _, opt := range q.Options {
			fmt.Fprintf(sb, `<li><input value="%s"></li>`, esc(opt))
		}
		sb.WriteString("</ul>")
	}

	sb.WriteString("</div>")
}
