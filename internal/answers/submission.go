package answers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/formdoc/formdoc/internal/schema"
)

// ErrRequiredUnanswered is returned by BuildSubmission when required
// questions are left blank. Enforcement happens here, centrally, rather
// than relying on per-field input markings.
var ErrRequiredUnanswered = errors.New("answers: required questions unanswered")

// Answer is one entry of the submission payload. Question metadata is
// copied from the question node at submit time; later edits to the form
// never reach past submissions.
type Answer struct {
	ID       string              `json:"id"`
	Type     schema.QuestionType `json:"type"`
	Question string              `json:"question"`
	Answer   string              `json:"answer"`
	Options  []string            `json:"options,omitempty"`
}

// BuildSubmission assembles the payload for the given questions in
// document order. Checkbox selections are JSON-encoded into the answer
// string so the field type stays uniform; options are included only for
// choice-based questions.
func BuildSubmission(questions []schema.QuestionAttrs, sheet *Sheet) ([]Answer, error) {
	var missing []string
	payload := make([]Answer, 0, len(questions))

	for _, q := range questions {
		a := Answer{
			ID:       q.ID,
			Type:     q.Type,
			Question: q.Label,
		}
		if q.Type.Choice() {
			a.Options = append([]string{}, q.Options...)
		}

		if q.Type == schema.QuestionCheckbox {
			selection := sheet.Selection(q.ID)
			if selection == nil {
				selection = []string{}
			}
			encoded, err := json.Marshal(selection)
			if err != nil {
				return nil, fmt.Errorf("answers: encode selection for %q: %w", q.ID, err)
			}
			a.Answer = string(encoded)
			if q.Required && len(selection) == 0 {
				missing = append(missing, q.ID)
			}
		} else {
			a.Answer = sheet.Text(q.ID)
			if q.Required && strings.TrimSpace(a.Answer) == "" {
				missing = append(missing, q.ID)
			}
		}

		payload = append(payload, a)
	}

	if len(missing) > 0 {
		return nil, &RequiredError{IDs: missing}
	}
	return payload, nil
}

// RequiredError lists every required question left unanswered, so the
// respondent view can flag them all at once.
type RequiredError struct {
	IDs []string
}

func (e *RequiredError) Error() string {
	return fmt.Sprintf("%v: %s", ErrRequiredUnanswered, strings.Join(e.IDs, ", "))
}

func (e *RequiredError) Unwrap() error { return ErrRequiredUnanswered }
