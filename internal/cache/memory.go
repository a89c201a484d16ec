package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/formdoc/formdoc/internal/model"
)

var _ FormCache = (*MemoryFormCache)(nil)

// MemoryFormCache is the fallback when no redis address is configured.
// It is also what the test suite runs against.
type MemoryFormCache struct {
	mu     sync.RWMutex
	forms  map[string]*model.PublishedForm
	counts map[string]int64
}

func NewMemoryFormCache() *MemoryFormCache {
	return &MemoryFormCache{
		forms:  make(map[string]*model.PublishedForm),
		counts: make(map[string]int64),
	}
}

func (m *MemoryFormCache) GetPublishedForm(ctx context.Context, id uuid.UUID) (*model.PublishedForm, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	form, ok := m.forms[id.String()]
	if !ok {
		return nil, nil
	}

	clone := *form
	return &clone, nil
}

func (m *MemoryFormCache) SetPublishedForm(ctx context.Context, id uuid.UUID, form *model.PublishedForm) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *form
	m.forms[id.String()] = &clone
	return nil
}

func (m *MemoryFormCache) DeletePublishedForm(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.forms, id.String())
	return nil
}

func (m *MemoryFormCache) IncrSubmissionCount(ctx context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[id.String()]++
	return m.counts[id.String()], nil
}

func (m *MemoryFormCache) SetSubmissionCount(ctx context.Context, id uuid.UUID, count int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[id.String()] = count
	return nil
}
