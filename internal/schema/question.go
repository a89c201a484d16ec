package schema

import (
	"github.com/google/uuid"
)

// QuestionType discriminates the question variants. It decides both the
// authoring widget and the respondent input control.
type QuestionType string

const (
	QuestionShort          QuestionType = "short"
	QuestionLong           QuestionType = "long"
	QuestionMultipleChoice QuestionType = "multipleChoice"
	QuestionCheckbox       QuestionType = "checkbox"
)

const (
	DefaultQuestionLabel = "Untitled question"

	attrID            = "id"
	attrLabel         = "label"
	attrType          = "type"
	attrPlaceholder   = "placeholder"
	attrOptions       = "options"
	attrRequired      = "required"
	attrDefaultAnswer = "defaultAnswer"
)

// Choice reports whether the question carries an options list.
func (t QuestionType) Choice() bool {
	return t == QuestionMultipleChoice || t == QuestionCheckbox
}

func knownQuestionType(t QuestionType) bool {
	switch t {
	case QuestionShort, QuestionLong, QuestionMultipleChoice, QuestionCheckbox:
		return true
	}
	return false
}

// QuestionAttrs is the typed view over a questionNode's attrs. The ID is
// assigned once and never regenerated; it keys the submission payload.
type QuestionAttrs struct {
	ID            string       `json:"id"`
	Label         string       `json:"label"`
	Type          QuestionType `json:"type"`
	Placeholder   string       `json:"placeholder,omitempty"`
	Options       []string     `json:"options,omitempty"`
	Required      bool         `json:"required,omitempty"`
	DefaultAnswer string       `json:"defaultAnswer,omitempty"`
}

// Question extracts the typed question attrs from a questionNode. Missing
// fields fall back to their authoring defaults; call Repair first to make
// the options invariant hold.
func (n *Node) Question() QuestionAttrs {
	q := QuestionAttrs{
		ID:            n.StringAttr(attrID, ""),
		Label:         n.StringAttr(attrLabel, DefaultQuestionLabel),
		Type:          QuestionType(n.StringAttr(attrType, string(QuestionShort))),
		Placeholder:   n.StringAttr(attrPlaceholder, ""),
		Required:      n.BoolAttr(attrRequired, false),
		DefaultAnswer: n.StringAttr(attrDefaultAnswer, ""),
	}
	if raw, ok := n.Attrs[attrOptions].([]any); ok {
		for _, o := range raw {
			if s, ok := o.(string); ok {
				q.Options = append(q.Options, s)
			}
		}
	} else if opts, ok := n.Attrs[attrOptions].([]string); ok {
		q.Options = append(q.Options, opts...)
	}
	return q
}

// SetQuestion writes the typed attrs back onto the node, preserving any
// unrecognized attrs already present.
func (n *Node) SetQuestion(q QuestionAttrs) {
	n.SetAttr(attrID, q.ID)
	n.SetAttr(attrLabel, q.Label)
	n.SetAttr(attrType, string(q.Type))
	n.SetAttr(attrPlaceholder, q.Placeholder)
	n.SetAttr(attrRequired, q.Required)
	n.SetAttr(attrDefaultAnswer, q.DefaultAnswer)
	if q.Type.Choice() {
		opts := make([]any, len(q.Options))
		for i, o := range q.Options {
			opts[i] = o
		}
		n.SetAttr(attrOptions, opts)
	} else {
		delete(n.Attrs, attrOptions)
	}
}

// NewQuestionNode builds a questionNode with a fresh id and the authoring
// defaults filled in, mirroring the insert palette.
func NewQuestionNode(t QuestionType) *Node {
	q := QuestionAttrs{
		ID:    uuid.New().String(),
		Label: DefaultQuestionLabel,
		Type:  t,
	}
	if t.Choice() {
		q.Options = []string{"Option 1", "Option 2"}
	}
	n := &Node{Type: NodeQuestion}
	n.SetQuestion(q)
	return n
}
