package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/formdoc/formdoc/internal/cache"
	"github.com/formdoc/formdoc/internal/compress"
	"github.com/formdoc/formdoc/internal/doctree"
	"github.com/formdoc/formdoc/internal/model"
	"github.com/formdoc/formdoc/internal/queue"
	"github.com/formdoc/formdoc/internal/schema"
	"github.com/formdoc/formdoc/internal/store"
)

const initialVersion = "0.1.0"

// NewFormService creates a new FormService.
func NewFormService(compression string, store store.Store, cache cache.FormCache, publisher queue.Publisher) *FormService {
	return &FormService{
		compression: compression,
		store:       store,
		cache:       cache,
		publisher:   publisher,
	}
}

// FormService owns the authoring side: drafts, structural edits, and
// publishing. Every operation checks that the actor owns the form.
type FormService struct {
	compression string
	store       store.Store
	cache       cache.FormCache
	publisher   queue.Publisher
}

// CreateForm creates a new draft with an empty document.
func (s *FormService) CreateForm(ctx context.Context, ownerID uuid.UUID, title string) (*model.Form, error) {
	content, err := schema.Serialize(nil)
	if err != nil {
		return nil, err
	}

	encoded, err := s.encode(content)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = "Untitled form"
	}

	form := &model.Form{
		ID:          uuid.New().String(),
		OwnerID:     ownerID.String(),
		Title:       title,
		Content:     encoded,
		Compression: s.compression,
	}

	if err := s.store.CreateForm(ctx, form); err != nil {
		return nil, err
	}

	return form, nil
}

// GetForm returns the draft with its content decoded.
func (s *FormService) GetForm(ctx context.Context, actor, id uuid.UUID) (*model.Form, *doctree.Tree, error) {
	form, err := s.ownedForm(ctx, s.store, actor, id)
	if err != nil {
		return nil, nil, err
	}

	tree, err := decodeTree(form.Compression, form.Content)
	if err != nil {
		return nil, nil, err
	}

	return form, tree, nil
}

// ListForms returns the actor's drafts, newest first.
func (s *FormService) ListForms(ctx context.Context, actor uuid.UUID) ([]*model.Form, int64, error) {
	return s.store.ListForms(ctx, actor)
}

// SaveContent replaces the draft document. The incoming tree is validated
// and self-healed before it is stored.
func (s *FormService) SaveContent(ctx context.Context, actor, id uuid.UUID, content []byte) (*doctree.Tree, error) {
	tree, err := doctree.Parse(content)
	if err != nil {
		return nil, err
	}

	var saved *doctree.Tree
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		form, err := s.ownedForm(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		if err := s.saveTree(ctx, tx, form, tree); err != nil {
			return err
		}

		saved = tree
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// SaveTitle renames the draft.
func (s *FormService) SaveTitle(ctx context.Context, actor, id uuid.UUID, title string) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		form, err := s.ownedForm(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		form.Title = title
		return tx.UpdateForm(ctx, form)
	})
}

// InsertBlock adds a new block of the given kind at a top-level boundary.
func (s *FormService) InsertBlock(ctx context.Context, actor, id uuid.UUID, pos int, kind string) (*doctree.Tree, error) {
	node, err := doctree.NewBlock(kind)
	if err != nil {
		return nil, err
	}

	var tree *doctree.Tree
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		form, err := s.ownedForm(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		tree, err = decodeTree(form.Compression, form.Content)
		if err != nil {
			return err
		}

		if err := tree.InsertAt(pos, node); err != nil {
			return err
		}

		return s.saveTree(ctx, tx, form, tree)
	})
	if err != nil {
		return nil, err
	}

	return tree, nil
}

// DeleteBlocks removes the nodes covering [from, to).
func (s *FormService) DeleteBlocks(ctx context.Context, actor, id uuid.UUID, from, to int) (*doctree.Tree, error) {
	var tree *doctree.Tree
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		form, err := s.ownedForm(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		tree, err = decodeTree(form.Compression, form.Content)
		if err != nil {
			return err
		}

		if err := tree.DeleteRange(from, to); err != nil {
			return err
		}

		return s.saveTree(ctx, tx, form, tree)
	})
	if err != nil {
		return nil, err
	}

	return tree, nil
}

// MoveNode relocates the block at fromPos to dropPos. A move that no
// longer applies, because the document changed under the drag or the drop
// resolves inside the dragged block, leaves the document untouched rather
// than failing the request.
func (s *FormService) MoveNode(ctx context.Context, actor, id uuid.UUID, fromPos, dropPos int) (*doctree.Tree, error) {
	var tree *doctree.Tree
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		form, err := s.ownedForm(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		tree, err = decodeTree(form.Compression, form.Content)
		if err != nil {
			return err
		}

		if err := tree.Move(fromPos, dropPos); err != nil {
			if isPositionalError(err) {
				logrus.Warnf("move dropped for form %s: %v", id, err)
				return nil
			}
			return err
		}

		return s.saveTree(ctx, tx, form, tree)
	})
	if err != nil {
		return nil, err
	}

	return tree, nil
}

func isPositionalError(err error) bool {
	return errors.Is(err, doctree.ErrStaleMove) ||
		errors.Is(err, doctree.ErrPositionOutOfRange) ||
		errors.Is(err, doctree.ErrInvalidRange)
}

// Publish snapshots the draft under the next version. When version is
// empty the previous version's patch number is bumped; otherwise it must
// be a semver greater than the current one.
func (s *FormService) Publish(ctx context.Context, actor, id uuid.UUID, version string) (*model.PublishedForm, error) {
	var published *model.PublishedForm

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		form, err := s.ownedForm(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		next, err := s.nextVersion(ctx, tx, id, version)
		if err != nil {
			return err
		}

		published = &model.PublishedForm{
			ID:          form.ID,
			Version:     next,
			OwnerID:     form.OwnerID,
			Title:       form.Title,
			Content:     form.Content,
			Compression: form.Compression,
		}

		if err := tx.PublishForm(ctx, published); err != nil {
			return err
		}

		form.Published = true
		return tx.UpdateForm(ctx, form)
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPublishedForm(ctx, id, published); err != nil {
		logrus.Errorf("error updating cache: %v", err)
	}

	if err := s.publisher.Publish(ctx, queue.Event{
		Kind:        queue.EventFormPublished,
		FormID:      published.ID,
		FormVersion: published.Version,
		At:          time.Now(),
	}); err != nil {
		logrus.Errorf("error publishing event: %v", err)
	}

	return published, nil
}

func (s *FormService) nextVersion(ctx context.Context, tx store.Store, id uuid.UUID, requested string) (string, error) {
	latest, err := tx.GetLatestPublishedForm(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	if latest == nil {
		if requested == "" {
			return initialVersion, nil
		}
		v, err := semver.NewVersion(requested)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}

	current, err := semver.NewVersion(latest.Version)
	if err != nil {
		return "", err
	}

	if requested == "" {
		next := current.IncPatch()
		return next.String(), nil
	}

	v, err := semver.NewVersion(requested)
	if err != nil {
		return "", err
	}
	if !v.GreaterThan(current) {
		return "", fmt.Errorf("version %s must be greater than current version %s", v, current)
	}

	return v.String(), nil
}

// Unpublish takes the form offline. Existing submissions are kept.
func (s *FormService) Unpublish(ctx context.Context, actor, id uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		form, err := s.ownedForm(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		if err := tx.UnpublishForm(ctx, id); err != nil {
			return err
		}

		form.Published = false
		return tx.UpdateForm(ctx, form)
	})
	if err != nil {
		return err
	}

	if err := s.cache.DeletePublishedForm(ctx, id); err != nil {
		logrus.Errorf("error evicting cache: %v", err)
	}

	return nil
}

// ListVersions returns every published snapshot of the form, newest first.
func (s *FormService) ListVersions(ctx context.Context, actor, id uuid.UUID) ([]*model.PublishedForm, error) {
	if _, err := s.ownedForm(ctx, s.store, actor, id); err != nil {
		return nil, err
	}

	return s.store.ListPublishedVersions(ctx, id)
}

// DeleteForm soft-deletes the draft and takes it offline.
func (s *FormService) DeleteForm(ctx context.Context, actor, id uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := s.ownedForm(ctx, tx, actor, id); err != nil {
			return err
		}

		if err := tx.UnpublishForm(ctx, id); err != nil {
			return err
		}

		return tx.DeleteForm(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := s.cache.DeletePublishedForm(ctx, id); err != nil {
		logrus.Errorf("error evicting cache: %v", err)
	}

	return nil
}

func (s *FormService) ownedForm(ctx context.Context, tx store.Store, actor, id uuid.UUID) (*model.Form, error) {
	form, err := tx.GetForm(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	if form.OwnerID != actor.String() {
		return nil, ErrNotOwner
	}

	return form, nil
}

func (s *FormService) saveTree(ctx context.Context, tx store.Store, form *model.Form, tree *doctree.Tree) error {
	data, err := tree.Serialize()
	if err != nil {
		return err
	}

	encoded, err := s.encode(data)
	if err != nil {
		return err
	}

	form.Content = encoded
	form.Compression = s.compression
	return tx.UpdateForm(ctx, form)
}

func (s *FormService) encode(data []byte) (string, error) {
	codec, err := compress.FromName(s.compression)
	if err != nil {
		return "", err
	}

	encoded, err := codec.Encode(data)
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

func decodeTree(compression, content string) (*doctree.Tree, error) {
	codec, err := compress.FromName(compression)
	if err != nil {
		return nil, err
	}

	data, err := codec.Decode([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentCorrupted, err)
	}

	tree, err := doctree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentCorrupted, err)
	}

	return tree, nil
}
