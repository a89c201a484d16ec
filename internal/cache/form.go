package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/formdoc/formdoc/internal/compress"
	"github.com/formdoc/formdoc/internal/model"
)

const publishedFormTTL = time.Hour

const submissionCountHash = "form:submission:count"

func publishedFormKey(id string) string {
	return "form:published:" + id
}

// FormCache fronts the published-form table. Respondent reads hit the
// cache first; publishing and unpublishing write through it.
type FormCache interface {
	// GetPublishedForm returns the cached snapshot, or nil on a miss.
	GetPublishedForm(ctx context.Context, id uuid.UUID) (*model.PublishedForm, error)
	// SetPublishedForm caches a snapshot.
	SetPublishedForm(ctx context.Context, id uuid.UUID, form *model.PublishedForm) error
	// DeletePublishedForm evicts a snapshot.
	DeletePublishedForm(ctx context.Context, id uuid.UUID) error
	// IncrSubmissionCount bumps the live submission counter for a form.
	IncrSubmissionCount(ctx context.Context, id uuid.UUID) (int64, error)
	// SetSubmissionCount overwrites the counter, used when re-syncing from the store.
	SetSubmissionCount(ctx context.Context, id uuid.UUID, count int64) error
}

var _ FormCache = (*RedisFormCache)(nil)

type RedisFormCache struct {
	client *redis.Client
	codec  compress.Codec
}

func NewRedisFormCache(client *redis.Client) *RedisFormCache {
	return &RedisFormCache{client: client, codec: compress.NewGzip()}
}

func (r *RedisFormCache) GetPublishedForm(ctx context.Context, id uuid.UUID) (*model.PublishedForm, error) {
	res := r.client.Get(ctx, publishedFormKey(id.String()))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	buf, err = r.codec.Decode(buf)
	if err != nil {
		return nil, err
	}

	form := &model.PublishedForm{}
	if err := json.Unmarshal(buf, form); err != nil {
		return nil, err
	}

	return form, nil
}

func (r *RedisFormCache) SetPublishedForm(ctx context.Context, id uuid.UUID, form *model.PublishedForm) error {
	marshal, err := json.Marshal(form)
	if err != nil {
		return err
	}

	encoded, err := r.codec.Encode(marshal)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, publishedFormKey(id.String()), encoded, publishedFormTTL).Err()
}

func (r *RedisFormCache) DeletePublishedForm(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, publishedFormKey(id.String())).Err()
}

func (r *RedisFormCache) IncrSubmissionCount(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.client.HIncrBy(ctx, submissionCountHash, id.String(), 1).Result()
}

func (r *RedisFormCache) SetSubmissionCount(ctx context.Context, id uuid.UUID, count int64) error {
	return r.client.HSet(ctx, submissionCountHash, id.String(), count).Err()
}
