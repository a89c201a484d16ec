package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formdoc/formdoc/internal/compress"
	"github.com/formdoc/formdoc/internal/queue"
	"github.com/formdoc/formdoc/internal/schema"
	"github.com/formdoc/formdoc/internal/store"
	"github.com/formdoc/formdoc/internal/tester"
)

func newFormService() *FormService {
	return NewFormService(compress.CodecNop, store.NewGormStore(tester.TestDB()), tester.Cache(), queue.NewNopPublisher())
}

func textNode(s string) *schema.Node {
	return &schema.Node{Type: schema.NodeText, Text: s}
}

func paragraphNode(s string) *schema.Node {
	return &schema.Node{Type: schema.NodeParagraph, Content: []*schema.Node{textNode(s)}}
}

func questionNode(id string, qt schema.QuestionType) *schema.Node {
	n := schema.NewQuestionNode(qt)
	q := n.Question()
	q.ID = id
	n.SetQuestion(q)
	return n
}

func serialize(t *testing.T, nodes ...*schema.Node) []byte {
	t.Helper()
	data, err := schema.Serialize(nodes)
	require.NoError(t, err)
	return data
}

func TestFormService_CreateAndGet(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newFormService()
	owner := uuid.New()

	form, err := svc.CreateForm(context.TODO(), owner, "")
	require.NoError(t, err)
	assert.Equal(t, "Untitled form", form.Title)

	id := uuid.MustParse(form.ID)
	got, tree, err := svc.GetForm(context.TODO(), owner, id)
	require.NoError(t, err)
	assert.Equal(t, form.ID, got.ID)
	assert.Empty(t, tree.Nodes())

	// another user cannot read the draft
	_, _, err = svc.GetForm(context.TODO(), uuid.New(), id)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, _, err = svc.GetForm(context.TODO(), owner, uuid.New())
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestFormService_SaveContent_Heals(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newFormService()
	owner := uuid.New()

	form, err := svc.CreateForm(context.TODO(), owner, "Survey")
	require.NoError(t, err)
	id := uuid.MustParse(form.ID)

	// a choice question arriving with no options gets defaults on save
	broken := questionNode("q1", schema.QuestionMultipleChoice)
	broken.SetAttr("options", []any{})

	_, err = svc.SaveContent(context.TODO(), owner, id, serialize(t, paragraphNode("intro"), broken))
	require.NoError(t, err)

	_, tree, err := svc.GetForm(context.TODO(), owner, id)
	require.NoError(t, err)

	questions := tree.Questions()
	require.Len(t, questions, 1)
	assert.Equal(t, []string{"Option 1", "Option 2"}, questions[0].Options)
}

func TestFormService_MoveNode(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newFormService()
	owner := uuid.New()

	form, err := svc.CreateForm(context.TODO(), owner, "Survey")
	require.NoError(t, err)
	id := uuid.MustParse(form.ID)

	_, err = svc.SaveContent(context.TODO(), owner, id,
		serialize(t, paragraphNode("aa"), paragraphNode("bb"), paragraphNode("cc")))
	require.NoError(t, err)

	// move the first block to the end; each paragraph occupies 4 units
	tree, err := svc.MoveNode(context.TODO(), owner, id, 0, 12)
	require.NoError(t, err)

	var texts []string
	for _, n := range tree.Nodes() {
		texts = append(texts, n.Content[0].Text)
	}
	assert.Equal(t, []string{"bb", "cc", "aa"}, texts)

	// a stale or unresolvable move leaves the document untouched
	tree, err = svc.MoveNode(context.TODO(), owner, id, 1, 8)
	require.NoError(t, err)
	texts = texts[:0]
	for _, n := range tree.Nodes() {
		texts = append(texts, n.Content[0].Text)
	}
	assert.Equal(t, []string{"bb", "cc", "aa"}, texts)
}

func TestFormService_InsertAndDeleteBlocks(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newFormService()
	owner := uuid.New()

	form, err := svc.CreateForm(context.TODO(), owner, "Survey")
	require.NoError(t, err)
	id := uuid.MustParse(form.ID)

	tree, err := svc.InsertBlock(context.TODO(), owner, id, 0, "short")
	require.NoError(t, err)
	require.Len(t, tree.Nodes(), 1)
	assert.Equal(t, schema.NodeQuestion, tree.Nodes()[0].Type)

	tree, err = svc.InsertBlock(context.TODO(), owner, id, 0, "paragraph")
	require.NoError(t, err)
	require.Len(t, tree.Nodes(), 2)

	// drop the leading paragraph (container size 2)
	tree, err = svc.DeleteBlocks(context.TODO(), owner, id, 0, 2)
	require.NoError(t, err)
	require.Len(t, tree.Nodes(), 1)
	assert.Equal(t, schema.NodeQuestion, tree.Nodes()[0].Type)
}

func TestFormService_PublishVersions(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newFormService()
	owner := uuid.New()

	form, err := svc.CreateForm(context.TODO(), owner, "Survey")
	require.NoError(t, err)
	id := uuid.MustParse(form.ID)

	_, err = svc.SaveContent(context.TODO(), owner, id, serialize(t, paragraphNode("hello")))
	require.NoError(t, err)

	first, err := svc.Publish(context.TODO(), owner, id, "")
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", first.Version)

	second, err := svc.Publish(context.TODO(), owner, id, "")
	require.NoError(t, err)
	assert.Equal(t, "0.1.1", second.Version)

	// explicit versions must move forward
	_, err = svc.Publish(context.TODO(), owner, id, "0.0.5")
	assert.Error(t, err)

	third, err := svc.Publish(context.TODO(), owner, id, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", third.Version)

	versions, err := svc.ListVersions(context.TODO(), owner, id)
	require.NoError(t, err)
	require.Len(t, versions, 3)

	got, _, err := svc.GetForm(context.TODO(), owner, id)
	require.NoError(t, err)
	assert.True(t, got.Published)
}

func TestFormService_Unpublish(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newFormService()
	sub := NewSubmissionService(store.NewGormStore(tester.TestDB()), tester.Cache(), queue.NewNopPublisher())
	owner := uuid.New()

	form, err := svc.CreateForm(context.TODO(), owner, "Survey")
	require.NoError(t, err)
	id := uuid.MustParse(form.ID)

	_, err = svc.Publish(context.TODO(), owner, id, "")
	require.NoError(t, err)

	require.NoError(t, svc.Unpublish(context.TODO(), owner, id))

	_, _, err = sub.GetPublishedForm(context.TODO(), id)
	assert.ErrorIs(t, err, ErrNotPublished)

	got, _, err := svc.GetForm(context.TODO(), owner, id)
	require.NoError(t, err)
	assert.False(t, got.Published)
}

func TestFormService_GzipContent(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := NewFormService(compress.CodecGzip, store.NewGormStore(tester.TestDB()), tester.Cache(), queue.NewNopPublisher())
	owner := uuid.New()

	form, err := svc.CreateForm(context.TODO(), owner, "Survey")
	require.NoError(t, err)
	id := uuid.MustParse(form.ID)

	_, err = svc.SaveContent(context.TODO(), owner, id, serialize(t, paragraphNode("compressed")))
	require.NoError(t, err)

	_, tree, err := svc.GetForm(context.TODO(), owner, id)
	require.NoError(t, err)
	require.Len(t, tree.Nodes(), 1)
	assert.Equal(t, "compressed", tree.Nodes()[0].Content[0].Text)
}
