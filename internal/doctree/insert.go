package doctree

import (
	"fmt"

	"github.com/formdoc/formdoc/internal/schema"
)

// NewBlock constructs the node a slash-command inserts. kind names a
// palette entry; for question kinds use NewQuestionNode via "short",
// "long", "multipleChoice" or "checkbox".
func NewBlock(kind string) (*schema.Node, error) {
	switch kind {
	case "paragraph":
		return &schema.Node{Type: schema.NodeParagraph}, nil
	case "heading1":
		return &schema.Node{Type: schema.NodeHeading, Attrs: map[string]any{"level": 1}}, nil
	case "heading2":
		return &schema.Node{Type: schema.NodeHeading, Attrs: map[string]any{"level": 2}}, nil
	case "bulletList":
		return &schema.Node{Type: schema.NodeBulletList, Content: []*schema.Node{
			{Type: schema.NodeListItem, Content: []*schema.Node{{Type: schema.NodeParagraph}}},
		}}, nil
	case "orderedList":
		return &schema.Node{Type: schema.NodeOrderedList, Content: []*schema.Node{
			{Type: schema.NodeListItem, Content: []*schema.Node{{Type: schema.NodeParagraph}}},
		}}, nil
	case "blockquote":
		return &schema.Node{Type: schema.NodeBlockquote, Content: []*schema.Node{{Type: schema.NodeParagraph}}}, nil
	case "codeBlock":
		return &schema.Node{Type: schema.NodeCodeBlock, Attrs: map[string]any{"language": nil}}, nil
	case "horizontalRule":
		return &schema.Node{Type: schema.NodeHorizontalRule}, nil
	case "nextPage":
		return &schema.Node{Type: schema.NodeNextPage}, nil
	case "short", "long", "multipleChoice", "checkbox":
		return schema.NewQuestionNode(schema.QuestionType(kind)), nil
	}
	return nil, fmt.Errorf("doctree: unknown block kind %q", kind)
}
