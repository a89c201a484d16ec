// Package jobs runs the periodic maintenance tasks behind the server:
// keeping the published-form cache warm and re-syncing the submission
// counters against the store.
package jobs

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"

	"github.com/formdoc/formdoc/internal/cache"
	"github.com/formdoc/formdoc/internal/store"
)

type CronJob interface {
	Name() string
	Schedule() string
	Run()
}

// Runner schedules the maintenance jobs. A job still running when its
// next tick fires is skipped, never run twice concurrently.
type Runner struct {
	cron    *cron.Cron
	jobs    []CronJob
	running mapset.Set[string]
	mu      sync.Mutex
}

func NewRunner(store store.Store, cache cache.FormCache) *Runner {
	return &Runner{
		cron:    cron.New(),
		running: mapset.NewSet[string](),
		jobs: []CronJob{
			NewCacheWarmJob(store, cache),
			NewCountSyncJob(store, cache),
		},
	}
}

func (r *Runner) Start() error {
	for _, job := range r.jobs {
		job := job
		err := r.cron.AddFunc(job.Schedule(), func() {
			r.mu.Lock()
			if r.running.Contains(job.Name()) {
				r.mu.Unlock()
				logrus.Warnf("job %s is still running, skipping tick", job.Name())
				return
			}
			r.running.Add(job.Name())
			r.mu.Unlock()

			defer func() {
				r.mu.Lock()
				defer r.mu.Unlock()
				r.running.Remove(job.Name())
			}()

			job.Run()
		})
		if err != nil {
			return err
		}
	}

	r.cron.Start()
	return nil
}

func (r *Runner) Stop() {
	logrus.Infof("stopping all jobs")
	r.cron.Stop()
}
