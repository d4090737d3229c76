package plan

import (
	"context"
	"sync"

	"github.com/trisport/coachd/internal/records"
)

// RecentContextTracker follows the newest generated primary workout of
// one owner through a live store subscription. The tracked record feeds
// the previous-workout block of the generation prompt, so a freshly
// saved plan immediately shapes the next one. Read-only: the tracker
// never writes to the store.
type RecentContextTracker struct {
	mu          sync.RWMutex
	current     *records.WorkoutRecord
	unsubscribe records.UnsubscribeFunc
}

func NewRecentContextTracker(
	ctx context.Context,
	store recordStore,
	owner string,
) (*RecentContextTracker, error) {
	t := &RecentContextTracker{}

	unsubscribe, err := store.Subscribe(ctx, owner, records.Filter{
		Kinds: []records.Kind{records.KindGeneratedPrimary},
		Order: records.OrderDesc,
		Limit: 1,
	}, t.onChange)
	if err != nil {
		return nil, err
	}

	t.unsubscribe = unsubscribe
	return t, nil
}

func (t *RecentContextTracker) onChange(found []records.WorkoutRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(found) == 0 {
		t.current = nil
		return
	}
	newest := found[0]
	t.current = &newest
}

// Current returns a copy of the newest generated primary workout, or
// nil when the owner has none.
func (t *RecentContextTracker) Current() *records.WorkoutRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return nil
	}
	current := *t.current
	return &current
}

func (t *RecentContextTracker) Close() {
	t.unsubscribe()
}
