package plan

import (
	"context"
	"sync"

	"github.com/trisport/coachd/internal/records"
	"github.com/trisport/coachd/internal/telemetry/metrics"
)

// Service hands out one generation orchestrator per owner, created
// lazily on the first plan operation and kept for the life of the
// service so the recent-context subscription stays warm between
// requests.
type Service struct {
	// baseCtx outlives any single request, orchestrator subscriptions
	// are bound to it instead of the request context
	baseCtx   context.Context
	store     recordStore
	generator generator
	metrics   *metrics.Manager

	mu            sync.Mutex
	orchestrators map[string]*Orchestrator
}

func NewService(
	baseCtx context.Context,
	store recordStore,
	gen generator,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		baseCtx:       baseCtx,
		store:         store,
		generator:     gen,
		metrics:       metricsManager,
		orchestrators: make(map[string]*Orchestrator),
	}
}

func (s *Service) orchestratorFor(owner string) (*Orchestrator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if orchestrator, ok := s.orchestrators[owner]; ok {
		return orchestrator, nil
	}
	orchestrator, err := NewOrchestrator(s.baseCtx, s.store, s.generator, owner, s.metrics)
	if err != nil {
		return nil, err
	}
	s.orchestrators[owner] = orchestrator
	return orchestrator, nil
}

func (s *Service) Generate(ctx context.Context, owner string, request GenerationRequest) (Status, error) {
	orchestrator, err := s.orchestratorFor(owner)
	if err != nil {
		return Status{}, err
	}
	return orchestrator.Generate(ctx, request)
}

// Status reports the owner's generation state. An owner that never
// generated anything is simply idle, no orchestrator gets created for
// the lookup.
func (s *Service) Status(owner string) Status {
	s.mu.Lock()
	orchestrator, ok := s.orchestrators[owner]
	s.mu.Unlock()
	if !ok {
		return Status{State: StateIdle}
	}
	return orchestrator.Status()
}

func (s *Service) Recent(owner string) (*records.WorkoutRecord, error) {
	orchestrator, err := s.orchestratorFor(owner)
	if err != nil {
		return nil, err
	}
	return orchestrator.Recent(), nil
}

func (s *Service) Save(ctx context.Context, owner string) ([]records.WorkoutRecord, error) {
	orchestrator, err := s.orchestratorFor(owner)
	if err != nil {
		return nil, err
	}
	return orchestrator.Save(ctx)
}

// Close releases every orchestrator's subscription.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, orchestrator := range s.orchestrators {
		orchestrator.Close()
		delete(s.orchestrators, owner)
	}
}
