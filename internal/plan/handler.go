package plan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trisport/coachd/internal/auth"
	"github.com/trisport/coachd/internal/records"
	"github.com/trisport/coachd/internal/telemetry/tracing"
	"github.com/trisport/coachd/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=plan_test

type planService interface {
	Generate(ctx context.Context, owner string, request GenerationRequest) (Status, error)
	Status(owner string) Status
	Recent(owner string) (*records.WorkoutRecord, error)
	Save(ctx context.Context, owner string) ([]records.WorkoutRecord, error)
}

type Handler struct {
	service planService
}

func NewHandler(service planService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	planRouter := router.PathPrefix("/plan").Subrouter()
	planRouter.HandleFunc("/generate", handler.handleGenerate).Methods("POST", "OPTIONS").Name("plan-generate")
	planRouter.HandleFunc("/feedback", handler.handleFeedback).Methods("POST", "OPTIONS").Name("plan-feedback")
	planRouter.HandleFunc("/current", handler.handleCurrent).Methods("GET").Name("plan-current")
	planRouter.HandleFunc("/save", handler.handleSave).Methods("POST", "OPTIONS").Name("plan-save")
	planRouter.HandleFunc("/recent", handler.handleRecent).Methods("GET").Name("plan-recent")
}

func (handler *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	handler.generate(w, r, false)
}

// handleFeedback regenerates with the user's verbatim reaction to the
// previous attempt folded into the prompt.
func (handler *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	handler.generate(w, r, true)
}

func (handler *Handler) generate(w http.ResponseWriter, r *http.Request, feedbackRequired bool) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "planHandler.generate")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var request GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Errorf("generate plan, unmarshal json params: %s", err)
		http.Error(w, "generate plan failed", http.StatusBadRequest)
		return
	}
	if feedbackRequired && request.Feedback == "" {
		http.Error(w, "feedback empty", http.StatusBadRequest)
		return
	}

	status, err := handler.service.Generate(ctx, owner, request)
	if err != nil {
		var validationErr *ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeStatus(w, status, http.StatusBadRequest)
		case errors.Is(err, ErrGenerationFailed):
			log.Errorf("generate plan for %s: %s", owner, err)
			writeStatus(w, status, http.StatusBadGateway)
		default:
			log.Errorf("generate plan for %s: %s", owner, err)
			http.Error(w, "generate plan failed", http.StatusInternalServerError)
		}
		return
	}

	span.SetAttributes(attribute.Int("plan.chars", len(status.Plan)))
	writeStatus(w, status, http.StatusOK)
}

func (handler *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "planHandler.current")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	writeStatus(w, handler.service.Status(owner), http.StatusOK)
}

func (handler *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "planHandler.save")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	saved, err := handler.service.Save(ctx, owner)
	if err != nil {
		if errors.Is(err, ErrNoPlanToSave) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		log.Errorf("save plan for %s: %s", owner, err)
		http.Error(w, "save plan failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("records.saved", len(saved)))

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("marshal saved plan records: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusCreated)
}

func (handler *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "planHandler.recent")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	recent, err := handler.service.Recent(owner)
	if err != nil {
		log.Errorf("get recent plan for %s: %s", owner, err)
		http.Error(w, "get recent plan failed", http.StatusInternalServerError)
		return
	}
	if recent == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	recentJson, err := json.Marshal(recent)
	if err != nil {
		log.Errorf("marshal recent plan record: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, recentJson)
}

func writeStatus(w http.ResponseWriter, status Status, code int) {
	statusJson, err := json.Marshal(status)
	if err != nil {
		log.Errorf("marshal plan status: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statusJson, code)
}
