package jobs

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/formdoc/formdoc/internal/cache"
	"github.com/formdoc/formdoc/internal/store"
)

// CountSyncJob overwrites the cached submission counters with the store's
// counts. The live counters drift when cache writes fail mid-submission.
type CountSyncJob struct {
	store store.Store
	cache cache.FormCache
}

func NewCountSyncJob(store store.Store, cache cache.FormCache) *CountSyncJob {
	return &CountSyncJob{store: store, cache: cache}
}

func (j *CountSyncJob) Name() string { return "count_sync" }

func (j *CountSyncJob) Schedule() string { return "@every 5m" }

func (j *CountSyncJob) Run() {
	ctx := context.Background()

	ids, err := j.store.ListLiveFormIDs(ctx)
	if err != nil {
		logrus.Errorf("count sync: listing live forms: %v", err)
		return
	}

	for _, id := range ids {
		count, err := j.store.CountSubmissions(ctx, id)
		if err != nil {
			logrus.Warnf("count sync: counting form %s: %v", id, err)
			continue
		}

		if err := j.cache.SetSubmissionCount(ctx, id, count); err != nil {
			logrus.Warnf("count sync: writing counter for form %s: %v", id, err)
		}
	}
}
