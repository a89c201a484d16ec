package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/formdoc/formdoc/internal/answers"
	"github.com/formdoc/formdoc/internal/cache"
	"github.com/formdoc/formdoc/internal/doctree"
	"github.com/formdoc/formdoc/internal/model"
	"github.com/formdoc/formdoc/internal/queue"
	"github.com/formdoc/formdoc/internal/render"
	"github.com/formdoc/formdoc/internal/schema"
	"github.com/formdoc/formdoc/internal/store"
)

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(store store.Store, cache cache.FormCache, publisher queue.Publisher) *SubmissionService {
	return &SubmissionService{
		store:     store,
		cache:     cache,
		publisher: publisher,
	}
}

// SubmissionService serves the respondent side: published forms, paged
// rendering, and answer capture. Reads go through the cache; the store is
// only hit on a miss.
type SubmissionService struct {
	store     store.Store
	cache     cache.FormCache
	publisher queue.Publisher
}

// GetPublishedForm returns the latest live snapshot with its tree decoded.
func (s *SubmissionService) GetPublishedForm(ctx context.Context, id uuid.UUID) (*model.PublishedForm, *doctree.Tree, error) {
	form, err := s.cache.GetPublishedForm(ctx, id)
	if err != nil {
		logrus.Warnf("cache read failed for form %s: %v", id, err)
	}

	if form == nil {
		form, err = s.store.GetLatestPublishedForm(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrNotPublished
			}
			return nil, nil, err
		}

		if err := s.cache.SetPublishedForm(ctx, id, form); err != nil {
			logrus.Warnf("cache fill failed for form %s: %v", id, err)
		}
	}

	if form.Unpublished {
		return nil, nil, ErrNotPublished
	}

	tree, err := decodeTree(form.Compression, form.Content)
	if err != nil {
		return nil, nil, err
	}

	return form, tree, nil
}

// PageView is one rendered page of a published form.
type PageView struct {
	Title string
	HTML  string
	Nav   doctree.Nav
}

// RenderPage renders the requested page with the sheet's current values
// filled in. The page index is clamped into range.
func (s *SubmissionService) RenderPage(ctx context.Context, id uuid.UUID, page int, sheet *answers.Sheet) (*PageView, error) {
	form, tree, err := s.GetPublishedForm(ctx, id)
	if err != nil {
		return nil, err
	}

	if sheet == nil {
		sheet = answers.NewSheet(tree.Questions())
	}

	pages := doctree.SplitPages(tree.Nodes())
	nav := doctree.NewNav(page, len(pages))

	return &PageView{
		Title: form.Title,
		HTML:  render.Respondent(pages[nav.PageIndex], sheet),
		Nav:   nav,
	}, nil
}

// NewSheet builds an empty answer sheet for the published form.
func (s *SubmissionService) NewSheet(ctx context.Context, id uuid.UUID) (*answers.Sheet, []schema.QuestionAttrs, error) {
	_, tree, err := s.GetPublishedForm(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	questions := tree.Questions()
	return answers.NewSheet(questions), questions, nil
}

// Submit validates the respondent's values against the published form and
// stores the submission. values maps question ids to submitted field
// values; checkbox questions submit one value per selected option.
func (s *SubmissionService) Submit(ctx context.Context, id uuid.UUID, submitterID string, values map[string][]string) (*model.Submission, error) {
	form, tree, err := s.GetPublishedForm(ctx, id)
	if err != nil {
		return nil, err
	}

	questions := tree.Questions()
	sheet := answers.NewSheet(questions)

	for _, q := range questions {
		vals, ok := values[q.ID]
		if !ok {
			continue
		}

		if q.Type == schema.QuestionCheckbox {
			if err := sheet.SetSelection(q.ID, vals); err != nil {
				return nil, err
			}
		} else if len(vals) > 0 {
			if err := sheet.Set(q.ID, vals[0]); err != nil {
				return nil, err
			}
		}
	}

	payload, err := answers.BuildSubmission(questions, sheet)
	if err != nil {
		return nil, err
	}

	content, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	submission := &model.Submission{
		ID:          uuid.New().String(),
		FormID:      form.ID,
		FormVersion: form.Version,
		SubmitterID: submitterID,
		Content:     string(content),
	}

	if err := s.store.Transaction(ctx, func(tx store.Store) error {
		return tx.CreateSubmission(ctx, submission)
	}); err != nil {
		return nil, err
	}

	if _, err := s.cache.IncrSubmissionCount(ctx, id); err != nil {
		logrus.Warnf("submission counter failed for form %s: %v", id, err)
	}

	if err := s.publisher.Publish(ctx, queue.Event{
		Kind:        queue.EventSubmissionCreated,
		FormID:      form.ID,
		FormVersion: form.Version,
		ObjectID:    submission.ID,
		At:          time.Now(),
	}); err != nil {
		logrus.Errorf("error publishing event: %v", err)
	}

	return submission, nil
}

// ListSubmissions returns a form's submissions to its owner, oldest first.
func (s *SubmissionService) ListSubmissions(ctx context.Context, actor, formID uuid.UUID) ([]*model.Submission, error) {
	if err := s.checkOwner(ctx, actor, formID); err != nil {
		return nil, err
	}

	return s.store.ListSubmissions(ctx, formID)
}

// GetSubmission returns one submission with its answers decoded.
func (s *SubmissionService) GetSubmission(ctx context.Context, actor, id uuid.UUID) (*model.Submission, []answers.Answer, error) {
	submission, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSubmissionNotFound
		}
		return nil, nil, err
	}

	formID, err := uuid.Parse(submission.FormID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkOwner(ctx, actor, formID); err != nil {
		return nil, nil, err
	}

	var payload []answers.Answer
	if err := json.Unmarshal([]byte(submission.Content), &payload); err != nil {
		return nil, nil, ErrContentCorrupted
	}

	return submission, payload, nil
}

// CountSubmissions returns the stored submission count for the owner.
func (s *SubmissionService) CountSubmissions(ctx context.Context, actor, formID uuid.UUID) (int64, error) {
	if err := s.checkOwner(ctx, actor, formID); err != nil {
		return 0, err
	}

	return s.store.CountSubmissions(ctx, formID)
}

func (s *SubmissionService) checkOwner(ctx context.Context, actor, formID uuid.UUID) error {
	form, err := s.store.GetForm(ctx, formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFormNotFound
		}
		return err
	}

	if form.OwnerID != actor.String() {
		return ErrNotOwner
	}

	return nil
}
