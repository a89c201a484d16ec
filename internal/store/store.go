package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/formdoc/formdoc/internal/model"
)

type Store interface {
	FormStore
	PublishedFormStore
	SubmissionStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type FormStore interface {
	// CreateForm creates a new draft form.
	CreateForm(ctx context.Context, form *model.Form) error
	// GetForm retrieves a form by ID.
	GetForm(ctx context.Context, id uuid.UUID) (*model.Form, error)
	// ListForms retrieves the forms owned by a user.
	ListForms(ctx context.Context, ownerID uuid.UUID) ([]*model.Form, int64, error)
	// UpdateForm updates a form.
	UpdateForm(ctx context.Context, form *model.Form) error
	// DeleteForm soft-deletes a form by ID.
	DeleteForm(ctx context.Context, id uuid.UUID) error
	// EraseForm permanently removes a form by ID.
	EraseForm(ctx context.Context, id uuid.UUID) error
	// PublishForm creates a new published snapshot.
	PublishForm(ctx context.Context, form *model.PublishedForm) error
}

type PublishedFormStore interface {
	// GetPublishedFormByVersion retrieves one published snapshot.
	GetPublishedFormByVersion(ctx context.Context, id uuid.UUID, version string) (*model.PublishedForm, error)
	// GetLatestPublishedForm retrieves the newest live snapshot.
	GetLatestPublishedForm(ctx context.Context, id uuid.UUID) (*model.PublishedForm, error)
	// ListPublishedVersions retrieves every snapshot of a form, newest first.
	ListPublishedVersions(ctx context.Context, id uuid.UUID) ([]*model.PublishedForm, error)
	// UnpublishForm retires all live snapshots of a form.
	UnpublishForm(ctx context.Context, id uuid.UUID) error
	// ListLiveFormIDs returns the ids of forms with a live snapshot.
	ListLiveFormIDs(ctx context.Context) ([]uuid.UUID, error)
}

type SubmissionStore interface {
	// CreateSubmission stores a respondent's answers.
	CreateSubmission(ctx context.Context, submission *model.Submission) error
	// GetSubmission retrieves a submission by ID.
	GetSubmission(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	// ListSubmissions retrieves the submissions for a form, oldest first.
	ListSubmissions(ctx context.Context, formID uuid.UUID) ([]*model.Submission, error)
	// CountSubmissions counts the submissions for a form.
	CountSubmissions(ctx context.Context, formID uuid.UUID) (int64, error)
}
