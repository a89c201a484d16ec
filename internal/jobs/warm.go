package jobs

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/formdoc/formdoc/internal/cache"
	"github.com/formdoc/formdoc/internal/store"
)

// CacheWarmJob refills the published-form cache before entries expire,
// so respondent reads keep hitting the cache on busy forms.
type CacheWarmJob struct {
	store store.Store
	cache cache.FormCache
}

func NewCacheWarmJob(store store.Store, cache cache.FormCache) *CacheWarmJob {
	return &CacheWarmJob{store: store, cache: cache}
}

func (j *CacheWarmJob) Name() string { return "cache_warm" }

func (j *CacheWarmJob) Schedule() string { return "@every 30m" }

func (j *CacheWarmJob) Run() {
	ctx := context.Background()

	ids, err := j.store.ListLiveFormIDs(ctx)
	if err != nil {
		logrus.Errorf("cache warm: listing live forms: %v", err)
		return
	}

	for _, id := range ids {
		form, err := j.store.GetLatestPublishedForm(ctx, id)
		if err != nil {
			logrus.Warnf("cache warm: loading form %s: %v", id, err)
			continue
		}

		if err := j.cache.SetPublishedForm(ctx, id, form); err != nil {
			logrus.Warnf("cache warm: caching form %s: %v", id, err)
		}
	}

	logrus.Infof("cache warm: refreshed %d forms", len(ids))
}
