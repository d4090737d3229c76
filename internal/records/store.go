package records

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/trisport/coachd/internal/telemetry/metrics"
	"github.com/trisport/coachd/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// ErrStoreUnavailable is returned when a store operation is attempted
// without an established owner identity.
var ErrStoreUnavailable = errors.New("record store unavailable, no owner identity")

type repo interface {
	Add(ctx context.Context, record WorkoutRecord) (*WorkoutRecord, error)
	Get(ctx context.Context, owner, id string) (*WorkoutRecord, error)
	Delete(ctx context.Context, owner, id string) (bool, error)
	List(ctx context.Context, filter Filter) ([]WorkoutRecord, error)
	FindJournal(ctx context.Context, owner, date string) (*WorkoutRecord, error)
	UpdateJournal(ctx context.Context, owner, id, content string, createdAt time.Time) error
}

// OnChangeFunc receives the current matching result set of a live
// query, first immediately on subscribe and then after every write
// that affects the match.
type OnChangeFunc func(records []WorkoutRecord)

// UnsubscribeFunc stops delivery and releases the subscription's
// goroutine. Safe to call more than once.
type UnsubscribeFunc func()

type subscription struct {
	id      int64
	filter  Filter
	onEvent chan struct{}
}

// Store is the typed CRUD and live-query facade over the workout
// record collection. Writes go through the repo, change notification
// is in-process: the store is the only writer, so every successful
// write re-delivers to the subscriptions whose filter matches the
// affected record.
//
// Each subscription gets a dedicated delivery goroutine, so deliveries
// within one subscription are strictly ordered while separate
// subscriptions stay independent. Redeliveries may coalesce when
// writes outpace the consumer.
type Store struct {
	repo    repo
	metrics *metrics.Manager

	mu        sync.Mutex
	subs      map[int64]*subscription
	nextSubID int64
}

func NewStore(repo repo, metricsManager *metrics.Manager) *Store {
	return &Store{
		repo:    repo,
		metrics: metricsManager,
		subs:    make(map[int64]*subscription),
	}
}

// Subscribe registers a live query scoped to owner. The onChange
// callback fires once with the current matching set, then again after
// every affecting write, always from the same goroutine.
func (s *Store) Subscribe(
	ctx context.Context,
	owner string,
	filter Filter,
	onChange OnChangeFunc,
) (UnsubscribeFunc, error) {
	if owner == "" {
		return nil, ErrStoreUnavailable
	}
	filter.Owner = owner

	sub := &subscription{
		filter: filter,
		// buffer of one: a kick during delivery marks one more
		// redelivery, further kicks coalesce into it
		onEvent: make(chan struct{}, 1),
	}

	s.mu.Lock()
	s.nextSubID++
	sub.id = s.nextSubID
	s.subs[sub.id] = sub
	s.mu.Unlock()
	s.metrics.GaugeLiveSubscriptions.Inc()

	done := make(chan struct{})
	go s.deliverLoop(ctx, sub, onChange, done)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.removeSub(sub.id)
			close(done)
		})
	}
	return unsubscribe, nil
}

func (s *Store) deliverLoop(
	ctx context.Context,
	sub *subscription,
	onChange OnChangeFunc,
	done <-chan struct{},
) {
	deliver := func() {
		found, err := s.repo.List(ctx, sub.filter)
		if err != nil {
			log.Errorf("record store, subscription %d query: %s", sub.id, err)
			return
		}
		onChange(found)
	}

	// initial delivery of the current matching set
	deliver()

	for {
		select {
		case <-sub.onEvent:
			// unsubscribe wins over a pending kick
			select {
			case <-done:
				return
			default:
			}
			deliver()
		case <-done:
			return
		case <-ctx.Done():
			s.removeSub(sub.id)
			return
		}
	}
}

func (s *Store) removeSub(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return
	}
	delete(s.subs, id)
	s.metrics.GaugeLiveSubscriptions.Dec()
}

// notify kicks every subscription whose filter matches the affected
// record. Non-blocking: an already pending kick covers this change too.
func (s *Store) notify(record *WorkoutRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if !sub.filter.Matches(record) {
			continue
		}
		select {
		case sub.onEvent <- struct{}{}:
		default:
		}
	}
}

// Create persists a new record for owner, assigning an id and, when
// zero, the creation timestamp.
func (s *Store) Create(ctx context.Context, owner string, record WorkoutRecord) (_ *WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.records.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("record.kind", string(record.Kind)))

	if owner == "" {
		return nil, ErrStoreUnavailable
	}

	record.Owner = owner
	record.ID = uuid.NewString()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	added, err := s.repo.Add(ctx, record)
	if err != nil {
		return nil, err
	}

	if added.Kind == KindLogged {
		s.metrics.CounterLoggedWorkouts.Inc()
	}

	s.notify(added)
	return added, nil
}

// UpsertJournal writes the journal entry for (owner, date): a point
// lookup immediately before the write decides between update and
// insert. Two concurrent upserts for the same date converge to one
// record in practice, but the lookup-then-write is not a transaction,
// a duplicate under a tight race is an accepted bounded risk.
func (s *Store) UpsertJournal(ctx context.Context, owner, date, content string) (_ *WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.records.upsertJournal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date))

	if owner == "" {
		return nil, ErrStoreUnavailable
	}

	existing, err := s.repo.FindJournal(ctx, owner, date)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	if existing == nil {
		created, err := s.Create(ctx, owner, WorkoutRecord{
			Kind:    KindJournal,
			Date:    date,
			Content: content,
		})
		if err != nil {
			return nil, err
		}
		s.metrics.CounterJournalUpserts.Inc()
		return created, nil
	}

	now := time.Now()
	if err := s.repo.UpdateJournal(ctx, owner, existing.ID, content, now); err != nil {
		return nil, err
	}
	existing.Content = content
	existing.CreatedAt = now

	s.metrics.CounterJournalUpserts.Inc()
	s.notify(existing)
	return existing, nil
}

// DeleteByID removes a record. Deleting a nonexistent id is not an
// error.
func (s *Store) DeleteByID(ctx context.Context, owner, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.records.deleteByID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("record.id", id))

	if owner == "" {
		return ErrStoreUnavailable
	}

	record, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil
		}
		return err
	}

	deleted, err := s.repo.Delete(ctx, owner, id)
	if err != nil {
		return err
	}
	if deleted {
		s.notify(record)
	}
	return nil
}

// DeleteMany removes all records matching the filter as it stood when
// the call began: records added afterwards are not touched. Individual
// delete failures are aggregated and reported together, completed
// deletes are not rolled back.
func (s *Store) DeleteMany(ctx context.Context, owner string, filter Filter) (deleted int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.records.deleteMany")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if owner == "" {
		return 0, ErrStoreUnavailable
	}
	filter.Owner = owner

	// snapshot of matches at call time
	snapshot, err := s.repo.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	var errs error
	for i := range snapshot {
		ok, err := s.repo.Delete(ctx, owner, snapshot[i].ID)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if ok {
			deleted++
			s.notify(&snapshot[i])
		}
	}

	span.SetAttributes(attribute.Int("deleted", deleted))
	return deleted, errs
}

// List runs a one-shot owner-scoped query.
func (s *Store) List(ctx context.Context, owner string, filter Filter) ([]WorkoutRecord, error) {
	if owner == "" {
		return nil, ErrStoreUnavailable
	}
	filter.Owner = owner
	return s.repo.List(ctx, filter)
}

// FindJournal returns the journal entry for (owner, date), or
// ErrRecordNotFound.
func (s *Store) FindJournal(ctx context.Context, owner, date string) (*WorkoutRecord, error) {
	if owner == "" {
		return nil, ErrStoreUnavailable
	}
	return s.repo.FindJournal(ctx, owner, date)
}
