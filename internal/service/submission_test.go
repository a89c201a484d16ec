package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formdoc/formdoc/internal/answers"
	"github.com/formdoc/formdoc/internal/queue"
	"github.com/formdoc/formdoc/internal/schema"
	"github.com/formdoc/formdoc/internal/store"
	"github.com/formdoc/formdoc/internal/tester"
)

// publishSurvey creates and publishes a two-page survey, returning both
// services sharing one cache and the form id.
func publishSurvey(t *testing.T, owner uuid.UUID) (*FormService, *SubmissionService, uuid.UUID) {
	t.Helper()
	tester.RemoveDBFile()
	tester.Setup()

	gorm := store.NewGormStore(tester.TestDB())
	formCache := tester.Cache()
	forms := NewFormService("nop", gorm, formCache, queue.NewNopPublisher())
	subs := NewSubmissionService(gorm, formCache, queue.NewNopPublisher())

	form, err := forms.CreateForm(context.TODO(), owner, "Feedback")
	require.NoError(t, err)
	id := uuid.MustParse(form.ID)

	name := questionNode("q-name", schema.QuestionShort)
	q := name.Question()
	q.Label = "Your name"
	q.Required = true
	name.SetQuestion(q)

	toppings := questionNode("q-top", schema.QuestionCheckbox)
	q = toppings.Question()
	q.Label = "Toppings"
	q.Options = []string{"A", "B", "C"}
	toppings.SetQuestion(q)

	_, err = forms.SaveContent(context.TODO(), owner, id, serialize(t,
		paragraphNode("welcome"),
		name,
		&schema.Node{Type: schema.NodeNextPage},
		toppings,
	))
	require.NoError(t, err)

	_, err = forms.Publish(context.TODO(), owner, id, "")
	require.NoError(t, err)

	return forms, subs, id
}

func TestSubmissionService_RenderPage(t *testing.T) {
	owner := uuid.New()
	_, subs, id := publishSurvey(t, owner)

	view, err := subs.RenderPage(context.TODO(), id, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "Feedback", view.Title)
	assert.Equal(t, 2, view.Nav.PageCount)
	assert.Contains(t, view.HTML, "welcome")
	assert.Contains(t, view.HTML, `name="q-name"`)
	assert.NotContains(t, view.HTML, "q-top")

	// out-of-range pages clamp to the last page
	view, err = subs.RenderPage(context.TODO(), id, 9, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Nav.PageIndex)
	assert.Contains(t, view.HTML, "q-top")

	_, err = subs.RenderPage(context.TODO(), uuid.New(), 0, nil)
	assert.ErrorIs(t, err, ErrNotPublished)
}

func TestSubmissionService_Submit(t *testing.T) {
	owner := uuid.New()
	_, subs, id := publishSurvey(t, owner)

	// required question missing
	_, err := subs.Submit(context.TODO(), id, "", map[string][]string{
		"q-top": {"A"},
	})
	require.ErrorIs(t, err, answers.ErrRequiredUnanswered)

	var re *answers.RequiredError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, []string{"q-name"}, re.IDs)

	submission, err := subs.Submit(context.TODO(), id, "", map[string][]string{
		"q-name": {"Ada"},
		"q-top":  {"A", "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", submission.FormVersion)

	list, err := subs.ListSubmissions(context.TODO(), owner, id)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, payload, err := subs.GetSubmission(context.TODO(), owner, uuid.MustParse(submission.ID))
	require.NoError(t, err)
	require.Len(t, payload, 2)
	assert.Equal(t, "Ada", payload[0].Answer)
	assert.Equal(t, `["A","C"]`, payload[1].Answer)

	count, err := subs.CountSubmissions(context.TODO(), owner, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSubmissionService_OwnerGate(t *testing.T) {
	owner := uuid.New()
	_, subs, id := publishSurvey(t, owner)

	_, err := subs.Submit(context.TODO(), id, "", map[string][]string{
		"q-name": {"Ada"},
	})
	require.NoError(t, err)

	// submissions are visible only to the form owner
	_, err = subs.ListSubmissions(context.TODO(), uuid.New(), id)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestSubmissionService_DraftEditsStayInvisible(t *testing.T) {
	owner := uuid.New()
	forms, subs, id := publishSurvey(t, owner)

	// edit the draft after publishing
	_, err := forms.SaveContent(context.TODO(), owner, id, serialize(t, paragraphNode("draft only")))
	require.NoError(t, err)

	view, err := subs.RenderPage(context.TODO(), id, 0, nil)
	require.NoError(t, err)
	assert.NotContains(t, view.HTML, "draft only")
	assert.Contains(t, view.HTML, "welcome")
}
