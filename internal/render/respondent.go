package render

import (
	"fmt"
	"strings"

	"github.com/formdoc/formdoc/internal/answers"
	"github.com/formdoc/formdoc/internal/schema"
)

// Respondent renders a node sequence (typically one page) as the read-only
// form view. Question nodes become input controls named by question id so
// submitted values key the answer-capture overlay; everything else renders
// as static content.
func Respondent(nodes []*schema.Node, sheet *answers.Sheet) string {
	var sb strings.Builder
	for _, n := range nodes {
		respondentNode(&sb, n, sheet)
	}
	return sb.String()
}

func respondentNode(sb *strings.Builder, n *schema.Node, sheet *answers.Sheet) {
	switch n.Type {
	case schema.NodeParagraph:
		sb.WriteString("<p" + alignStyle(n) + ">")
		inline(sb, n.Content)
		sb.WriteString("</p>")
	case schema.NodeHeading:
		level := n.IntAttr("level", 1)
		fmt.Fprintf(sb, "<h%d%s>", level, alignStyle(n))
		inline(sb, n.Content)
		fmt.Fprintf(sb, "</h%d>", level)
	case schema.NodeBulletList:
		sb.WriteString("<ul>")
		for _, item := range n.Content {
			respondentNode(sb, item, sheet)
		}
		sb.WriteString("</ul>")
	case schema.NodeOrderedList:
		sb.WriteString("<ol>")
		for _, item := range n.Content {
			respondentNode(sb, item, sheet)
		}
		sb.WriteString("</ol>")
	case schema.NodeListItem:
		sb.WriteString("<li>")
		for _, child := range n.Content {
			respondentNode(sb, child, sheet)
		}
		sb.WriteString("</li>")
	case schema.NodeTaskList:
		sb.WriteString(`<ul class="task-list">`)
		for _, item := range n.Content {
			respondentNode(sb, item, sheet)
		}
		sb.WriteString("</ul>")
	case schema.NodeTaskItem:
		checked := ""
		if n.BoolAttr("checked", false) {
			checked = " checked"
		}
		fmt.Fprintf(sb, `<li><input type="checkbox" disabled%s> `, checked)
		for _, child := range n.Content {
			respondentNode(sb, child, sheet)
		}
		sb.WriteString("</li>")
	case schema.NodeBlockquote:
		sb.WriteString("<blockquote>")
		for _, child := range n.Content {
			respondentNode(sb, child, sheet)
		}
		sb.WriteString("</blockquote>")
	case schema.NodeCodeBlock:
		lang := n.StringAttr("language", "")
		if lang != "" {
			fmt.Fprintf(sb, `<pre><code class="language-%s">%s</code></pre>`, esc(lang), esc(codeText(n)))
		} else {
			fmt.Fprintf(sb, "<pre><code>%s</code></pre>", esc(codeText(n)))
		}
	case schema.NodeImage:
		fmt.Fprintf(sb, `<img src="%s" alt="%s">`, esc(n.StringAttr("src", "")), esc(n.StringAttr("alt", "")))
	case schema.NodeHorizontalRule:
		sb.WriteString("<hr>")
	case schema.NodeNextPage:
		// page breaks never reach a rendered page
	case schema.NodeQuestion:
		respondentQuestion(sb, n.Question(), sheet)
	case schema.NodeText:
		sb.WriteString(marked(n))
	case schema.NodeDoc:
		for _, child := range n.Content {
			respondentNode(sb, child, sheet)
		}
	}
}

func respondentQuestion(sb *strings.Builder, q schema.QuestionAttrs, sheet *answers.Sheet) {
	required := ""
	if q.Required {
		required = " required"
	}

	fmt.Fprintf(sb, `<div class="question" data-id="%s"><label>%s</label>`, esc(q.ID), esc(q.Label))

	switch q.Type {
	case schema.QuestionShort:
		fmt.Fprintf(sb, `<input type="text" name="%s" placeholder="%s" value="%s"%s>`,
			esc(q.ID), esc(q.Placeholder), esc(sheet.Text(q.ID)), required)
	case schema.QuestionLong:
		fmt.Fprintf(sb, `<textarea name="%s" placeholder="%s" rows="3"%s>%s</textarea>`,
			esc(q.ID), esc(q.Placeholder), required, esc(sheet.Text(q.ID)))
	case schema.QuestionMultipleChoice:
		for _, opt := range q.Options {
			checked := ""
			if sheet.Text(q.ID) == opt {
				checked = " checked"
			}
			fmt.Fprintf(sb, `<label><input type="radio" name="%s" value="%s"%s%s> %s</label>`,
				esc(q.ID), esc(opt), checked, required, esc(opt))
		}
	case schema.QuestionCheckbox:
		for _, opt := range q.Options {
			checked := ""
			if sheet.Selected(q.ID, opt) {
				checked = " checked"
			}
			fmt.Fprintf(sb, `<label><input type="checkbox" name="%s[]" value="%s"%s> %s</label>`,
				esc(q.ID), esc(opt), checked, esc(opt))
		}
	}

	sb.WriteString("</div>")
}
