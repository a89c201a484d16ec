package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/formdoc/formdoc/internal/model"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateForm(ctx context.Context, form *model.Form) error {
	return g.db.WithContext(ctx).Create(form).Error
}

func (g *GormStore) GetForm(ctx context.Context, id uuid.UUID) (*model.Form, error) {
	var form model.Form
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (g *GormStore) ListForms(ctx context.Context, ownerID uuid.UUID) ([]*model.Form, int64, error) {
	var forms []*model.Form
	err := g.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at desc").Find(&forms).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = g.db.WithContext(ctx).Model(&model.Form{}).Where("owner_id = ?", ownerID).Count(&total).Error
	return forms, total, err
}

func (g *GormStore) UpdateForm(ctx context.Context, form *model.Form) error {
	return g.db.WithContext(ctx).Save(form).Error
}

func (g *GormStore) DeleteForm(ctx context.Context, id uuid.UUID) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Form{}).Error
}

func (g *GormStore) EraseForm(ctx context.Context, id uuid.UUID) error {
	return g.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&model.Form{}).Error
}

// PublishForm stores a new snapshot and marks older ones retired.
// NOTE: should run in a transaction
func (g *GormStore) PublishForm(ctx context.Context, form *model.PublishedForm) error {
	logrus.Infof("Publishing form %s version %s", form.ID, form.Version)

	err := g.db.WithContext(ctx).Model(&model.PublishedForm{}).
		Where("id = ? AND version <> ?", form.ID, form.Version).
		Update("unpublished", true).Error
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Create(form).Error
}

func (g *GormStore) GetPublishedFormByVersion(ctx context.Context, id uuid.UUID, version string) (*model.PublishedForm, error) {
	var form model.PublishedForm
	err := g.db.WithContext(ctx).Where("id = ? AND version = ?", id, version).First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (g *GormStore) GetLatestPublishedForm(ctx context.Context, id uuid.UUID) (*model.PublishedForm, error) {
	var form model.PublishedForm
	err := g.db.WithContext(ctx).
		Where("id = ? AND unpublished = ?", id, false).
		Order("created_at desc").
		First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (g *GormStore) ListPublishedVersions(ctx context.Context, id uuid.UUID) ([]*model.PublishedForm, error) {
	var forms []*model.PublishedForm
	err := g.db.WithContext(ctx).Where("id = ?", id).Order("created_at desc").Find(&forms).Error
	return forms, err
}

func (g *GormStore) UnpublishForm(ctx context.Context, id uuid.UUID) error {
	return g.db.WithContext(ctx).Model(&model.PublishedForm{}).
		Where("id = ?", id).
		Update("unpublished", true).Error
}

func (g *GormStore) ListLiveFormIDs(ctx context.Context) ([]uuid.UUID, error) {
	var raw []string
	err := g.db.WithContext(ctx).Model(&model.PublishedForm{}).
		Where("unpublished = ?", false).
		Distinct("id").
		Pluck("id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (g *GormStore) CreateSubmission(ctx context.Context, submission *model.Submission) error {
	return g.db.WithContext(ctx).Create(submission).Error
}

func (g *GormStore) GetSubmission(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	var submission model.Submission
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (g *GormStore) ListSubmissions(ctx context.Context, formID uuid.UUID) ([]*model.Submission, error) {
	var submissions []*model.Submission
	err := g.db.WithContext(ctx).Where("form_id = ?", formID).Order("created_at asc").Find(&submissions).Error
	return submissions, err
}

func (g *GormStore) CountSubmissions(ctx context.Context, formID uuid.UUID) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Submission{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
