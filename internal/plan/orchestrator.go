package plan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/trisport/coachd/internal/records"
	"github.com/trisport/coachd/internal/telemetry/metrics"
	"github.com/trisport/coachd/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type recordStore interface {
	Create(ctx context.Context, owner string, record records.WorkoutRecord) (*records.WorkoutRecord, error)
	Subscribe(ctx context.Context, owner string, filter records.Filter, onChange records.OnChangeFunc) (records.UnsubscribeFunc, error)
}

type generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// State is the generation lifecycle phase of an orchestrator. Requests
// move idle -> validating -> requesting -> succeeded | failed, and a
// new request restarts the cycle from whatever state it finds.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateRequesting State = "requesting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// ValidationError rejects a generation request before the generator is
// called. Its message is meant for the user, not the logs.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrNoPlanToSave is returned by Save when there is no successfully
// generated, still unsaved plan.
var ErrNoPlanToSave = errors.New("no generated plan to save")

// GenerationRequest carries the inputs of one generation attempt. Both
// snapshots are frozen onto the saved records verbatim.
type GenerationRequest struct {
	Profile    records.ProfileSnapshot    `json:"profile"`
	DailyState records.DailyStateSnapshot `json:"dailyState"`
	// Feedback, when set, is the user's verbatim reaction to the previous
	// attempt and is the only thing distinguishing a regeneration from a
	// fresh generation.
	Feedback string `json:"feedback,omitempty"`
}

// Status is the externally visible orchestrator state: the phase, the
// raw generated plan when succeeded, and the user-facing error when
// failed.
type Status struct {
	State State  `json:"state"`
	Plan  string `json:"plan,omitempty"`
	Error string `json:"error,omitempty"`
}

// Orchestrator drives workout plan generation for a single owner. A
// successful generation is held in memory, nothing is persisted until
// the user explicitly saves, and saving splits the markdown into the
// primary and optional strength records.
type Orchestrator struct {
	owner     string
	store     recordStore
	generator generator
	recent    *RecentContextTracker
	metrics   *metrics.Manager

	mu      sync.Mutex
	state   State
	plan    string
	lastErr string
	request GenerationRequest
}

func NewOrchestrator(
	ctx context.Context,
	store recordStore,
	gen generator,
	owner string,
	metricsManager *metrics.Manager,
) (*Orchestrator, error) {
	recent, err := NewRecentContextTracker(ctx, store, owner)
	if err != nil {
		return nil, fmt.Errorf("create recent context tracker: %w", err)
	}
	return &Orchestrator{
		owner:     owner,
		store:     store,
		generator: gen,
		recent:    recent,
		metrics:   metricsManager,
		state:     StateIdle,
	}, nil
}

// Generate runs one generation attempt: validate the daily inputs, then
// build the prompt and call the generator. A validation or generator
// failure leaves the orchestrator failed with a user-facing message and
// is never retried on its own. Attempts are serialized per owner.
func (o *Orchestrator) Generate(ctx context.Context, request GenerationRequest) (_ Status, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plan.orchestrator.generate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("sport", request.Profile.Sport),
		attribute.Bool("with.feedback", request.Feedback != ""),
	)

	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateValidating
	o.plan = ""
	o.lastErr = ""

	if err := validateRequest(request); err != nil {
		o.state = StateFailed
		o.lastErr = err.Error()
		return o.statusLocked(), err
	}

	o.state = StateRequesting
	prompt := BuildPrompt(request.Profile, request.DailyState, o.recent.Current(), request.Feedback)

	generated, err := o.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Errorf("plan orchestrator, owner %s: %s", o.owner, err)
		o.state = StateFailed
		o.lastErr = err.Error()
		return o.statusLocked(), err
	}

	o.state = StateSucceeded
	o.plan = generated
	o.request = request
	o.metrics.CounterGeneratedPlans.Inc()

	return o.statusLocked(), nil
}

func validateRequest(request GenerationRequest) error {
	if request.DailyState.RecentPerformance == "" {
		return &ValidationError{
			Message: fmt.Sprintf("Please select your recent performance metric for %s.", request.Profile.Sport),
		}
	}
	if request.DailyState.SessionFocus == "" {
		return &ValidationError{
			Message: "Please select a primary workout focus.",
		}
	}
	return nil
}

// Status returns the current phase and, when succeeded, the raw
// unsaved plan.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.statusLocked()
}

func (o *Orchestrator) statusLocked() Status {
	return Status{
		State: o.state,
		Plan:  o.plan,
		Error: o.lastErr,
	}
}

// Recent returns the newest previously saved generated primary workout,
// or nil when there is none.
func (o *Orchestrator) Recent() *records.WorkoutRecord {
	return o.recent.Current()
}

// Save splits the held plan and persists it: always the primary record,
// plus a strength record when the plan contains a complementary lifting
// section. Both share the creation timestamp, the calendar date and the
// frozen snapshots of the generation request. The held plan is released
// on success and the orchestrator returns to idle.
func (o *Orchestrator) Save(ctx context.Context) (saved []records.WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plan.orchestrator.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateSucceeded || o.plan == "" {
		return nil, ErrNoPlanToSave
	}

	split := Split(o.plan)
	now := time.Now()
	date := now.Format("2006-01-02")
	profile := o.request.Profile
	dailyState := o.request.DailyState

	primary, err := o.store.Create(ctx, o.owner, records.WorkoutRecord{
		Kind:       records.KindGeneratedPrimary,
		CreatedAt:  now,
		Date:       date,
		Sport:      profile.Sport,
		PlanText:   split.Primary,
		Profile:    &profile,
		DailyState: &dailyState,
	})
	if err != nil {
		return nil, fmt.Errorf("persist primary plan: %w", err)
	}
	saved = append(saved, *primary)

	if split.HasStrength() {
		strength, err := o.store.Create(ctx, o.owner, records.WorkoutRecord{
			Kind:       records.KindGeneratedStrength,
			CreatedAt:  now,
			Date:       date,
			Sport:      records.SportStrength,
			PlanText:   split.Strength,
			Profile:    &profile,
			DailyState: &dailyState,
		})
		if err != nil {
			// the primary half is already in, report the failure and
			// leave the plan held so the user can retry the save
			return nil, fmt.Errorf("persist strength plan: %w", err)
		}
		saved = append(saved, *strength)
	}

	span.SetAttributes(attribute.Int("records.saved", len(saved)))

	o.state = StateIdle
	o.plan = ""
	o.lastErr = ""
	return saved, nil
}

// Close releases the recent-context subscription.
func (o *Orchestrator) Close() {
	o.recent.Close()
}
