// Package render projects the document tree into HTML twice: an editable
// authoring view and a read-only respondent view. Both views dispatch on
// the node type tag and must interpret every node type identically in
// structure; they differ only in interactivity. Adding a node type means
// extending both switches.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/formdoc/formdoc/internal/schema"
)

func esc(s string) string { return html.EscapeString(s) }

// inline renders a node's inline content (text runs with their marks).
func inline(sb *strings.Builder, content []*schema.Node) {
	for _, n := range content {
		if n.Type != schema.NodeText {
			continue
		}
		sb.WriteString(marked(n))
	}
}

// marked wraps a text run in one tag per mark. Every mark applies;
// nesting order only layers the visuals.
func marked(n *schema.Node) string {
	out := esc(n.Text)
	for i := len(n.Marks) - 1; i >= 0; i-- {
		m := n.Marks[i]
		switch m.Type {
		case schema.MarkBold:
			out = "<strong>" + out + "</strong>"
		case schema.MarkItalic:
			out = "<em>" + out + "</em>"
		case schema.MarkUnderline:
			out = "<u>" + out + "</u>"
		case schema.MarkStrike:
			out = "<s>" + out + "</s>"
		case schema.MarkCode:
			out = "<code>" + out + "</code>"
		case schema.MarkHighlight:
			color := "yellow"
			if c, ok := m.Attrs["color"].(string); ok && c != "" {
				color = c
			}
			out = fmt.Sprintf(`<mark style="background-color: %s">%s</mark>`, esc(color), out)
		case schema.MarkLink:
			href := ""
			if h, ok := m.Attrs["href"].(string); ok {
				href = h
			}
			out = fmt.Sprintf(`<a href="%s">%s</a>`, esc(href), out)
		case schema.MarkSubscript:
			out = "<sub>" + out + "</sub>"
		case schema.MarkSuperscript:
			out = "<sup>" + out + "</sup>"
		}
	}
	return out
}

func alignStyle(n *schema.Node) string {
	if a := n.StringAttr("textAlign", ""); a != "" {
		return fmt.Sprintf(` style="text-align: %s"`, esc(a))
	}
	return ""
}

func codeText(n *schema.Node) string {
	var sb strings.Builder
	for _, c := range n.Content {
		if c.Type == schema.NodeText {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}
