package records

import (
	"context"
	"sort"
	"sync"
	"time"
)

// repoMock is an in-memory repo used by store and aggregator tests.
// Guarded by a mutex since subscription goroutines query it
// concurrently with test writes.
type repoMock struct {
	mu      sync.RWMutex
	records map[string]*WorkoutRecord
}

func NewMockRepo() *repoMock {
	return &repoMock{
		records: make(map[string]*WorkoutRecord),
	}
}

func (r *repoMock) Add(_ context.Context, record WorkoutRecord) (*WorkoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = &record
	return &record, nil
}

func (r *repoMock) Get(_ context.Context, owner, id string) (*WorkoutRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok || record.Owner != owner {
		return nil, ErrRecordNotFound
	}
	recordCopy := *record
	return &recordCopy, nil
}

func (r *repoMock) Delete(_ context.Context, owner, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok || record.Owner != owner {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

func (r *repoMock) List(_ context.Context, filter Filter) ([]WorkoutRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make([]WorkoutRecord, 0)
	for _, record := range r.records {
		if filter.Matches(record) {
			found = append(found, *record)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if filter.Order == OrderDesc {
			return found[i].CreatedAt.After(found[j].CreatedAt)
		}
		return found[i].CreatedAt.Before(found[j].CreatedAt)
	})

	if filter.Limit > 0 && len(found) > filter.Limit {
		found = found[:filter.Limit]
	}

	return found, nil
}

func (r *repoMock) FindJournal(_ context.Context, owner, date string) (*WorkoutRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.records {
		if record.Owner == owner && record.Kind == KindJournal && record.Date == date {
			recordCopy := *record
			return &recordCopy, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *repoMock) UpdateJournal(_ context.Context, owner, id, content string, createdAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok || record.Owner != owner || record.Kind != KindJournal {
		return ErrRecordNotFound
	}
	record.Content = content
	record.CreatedAt = createdAt
	return nil
}
