// Package answers maintains respondent input state keyed by question id,
// decoupled from the authoring document schema, and assembles the
// submission payload.
package answers

import (
	"errors"
	"fmt"

	"github.com/formdoc/formdoc/internal/schema"
)

var (
	ErrUnknownQuestion = errors.New("answers: unknown question id")
	ErrNotCheckbox     = errors.New("answers: toggle on a non-checkbox question")
)

type entry struct {
	qtype    schema.QuestionType
	text     string
	selected []string
}

// Sheet holds the current answer per question id. Values start as "" for
// text-like questions (prefilled from defaultAnswer when set) and as an
// empty selection for checkboxes. A sheet belongs to one respondent
// session; no locking.
type Sheet struct {
	entries map[string]*entry
	order   []string
}

// NewSheet initializes answer state for the given questions in document
// order.
func NewSheet(questions []schema.QuestionAttrs) *Sheet {
	s := &Sheet{entries: make(map[string]*entry, len(questions))}
	for _, q := range questions {
		if _, ok := s.entries[q.ID]; ok {
			continue
		}
		e := &entry{qtype: q.Type}
		if q.Type != schema.QuestionCheckbox && q.DefaultAnswer != "" {
			e.text = q.DefaultAnswer
		}
		if q.Type == schema.QuestionCheckbox {
			e.selected = []string{}
		}
		s.entries[q.ID] = e
		s.order = append(s.order, q.ID)
	}
	return s
}

// Set replaces the value for a text-like question. For checkboxes it
// replaces the whole selection; use Toggle for membership changes.
func (s *Sheet) Set(id, value string) error {
	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
	}
	if e.qtype == schema.QuestionCheckbox {
		e.selected = []string{value}
		return nil
	}
	e.text = value
	return nil
}

// SetSelection replaces a checkbox question's selected options wholesale.
func (s *Sheet) SetSelection(id string, options []string) error {
	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
	}
	if e.qtype != schema.QuestionCheckbox {
		return ErrNotCheckbox
	}
	e.selected = append([]string{}, options...)
	return nil
}

// Toggle flips an option's membership in a checkbox selection: present
// options are removed, absent ones appended.
func (s *Sheet) Toggle(id, option string) error {
	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
	}
	if e.qtype != schema.QuestionCheckbox {
		return ErrNotCheckbox
	}
	for i, o := range e.selected {
		if o == option {
			e.selected = append(e.selected[:i], e.selected[i+1:]...)
			return nil
		}
	}
	e.selected = append(e.selected, option)
	return nil
}

// Text returns the current text value for a question (empty when unset or
// for checkbox questions).
func (s *Sheet) Text(id string) string {
	if e, ok := s.entries[id]; ok {
		return e.text
	}
	return ""
}

// Selection returns the currently selected options of a checkbox question.
func (s *Sheet) Selection(id string) []string {
	if e, ok := s.entries[id]; ok {
		return e.selected
	}
	return nil
}

// Selected reports whether an option is currently part of a checkbox
// selection.
func (s *Sheet) Selected(id, option string) bool {
	for _, o := range s.Selection(id) {
		if o == option {
			return true
		}
	}
	return false
}
