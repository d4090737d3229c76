package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/trisport/coachd/internal/auth"
	"github.com/trisport/coachd/internal/telemetry/tracing"
	"github.com/trisport/coachd/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=records_test

type recordsStore interface {
	Create(ctx context.Context, owner string, record WorkoutRecord) (*WorkoutRecord, error)
	UpsertJournal(ctx context.Context, owner, date, content string) (*WorkoutRecord, error)
	DeleteByID(ctx context.Context, owner, id string) error
	DeleteMany(ctx context.Context, owner string, filter Filter) (int, error)
	List(ctx context.Context, owner string, filter Filter) ([]WorkoutRecord, error)
	FindJournal(ctx context.Context, owner, date string) (*WorkoutRecord, error)
	Subscribe(ctx context.Context, owner string, filter Filter, onChange OnChangeFunc) (UnsubscribeFunc, error)
}

type Handler struct {
	store recordsStore
}

func NewHandler(store recordsStore) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	recordsRouter := router.PathPrefix("/records").Subrouter()
	recordsRouter.HandleFunc("", handler.handleLogWorkout).Methods("POST", "OPTIONS").Name("log-workout")
	recordsRouter.HandleFunc("/history", handler.handleHistory).Methods("GET").Name("records-history")
	recordsRouter.HandleFunc("/day/{date}", handler.handleDay).Methods("GET").Name("records-day")
	recordsRouter.HandleFunc("/journal", handler.handleUpsertJournal).Methods("PUT", "OPTIONS").Name("journal-upsert")
	recordsRouter.HandleFunc("/generated", handler.handleClearGenerated).Methods("DELETE", "OPTIONS").Name("clear-generated")
	recordsRouter.HandleFunc("/stream", handler.handleStream).Methods("GET").Name("records-stream")
	recordsRouter.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("record-delete")
}

func (handler *Handler) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recordsHandler.logWorkout")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var record WorkoutRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Errorf("log workout, unmarshal json params: %s", err)
		http.Error(w, "add workout record failed", http.StatusBadRequest)
		return
	}

	// the only kind a client may create directly
	record.Kind = KindLogged
	if err := record.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid record")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.store.Create(ctx, owner, record)
	if err != nil {
		log.Errorf("log workout: %s", err)
		http.Error(w, "add workout record failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("record.id", added.ID))

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added record: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recordsHandler.history")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	found, err := handler.store.List(ctx, owner, Filter{
		Kinds: GeneratedKinds,
		Order: OrderDesc,
	})
	if err != nil {
		log.Errorf("get records history: %s", err)
		http.Error(w, "get history failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("records", len(found)))

	foundJson, err := json.Marshal(found)
	if err != nil {
		log.Errorf("marshal records history: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, foundJson)
}

type dayResponse struct {
	Records []WorkoutRecord `json:"records"`
	Journal *WorkoutRecord  `json:"journal,omitempty"`
}

func (handler *Handler) handleDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recordsHandler.day")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	date := mux.Vars(r)["date"]
	if !ValidDate(date) {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("date", date))

	found, err := handler.store.List(ctx, owner, Filter{
		Kinds: []Kind{KindLogged, KindGeneratedPrimary, KindGeneratedStrength},
		Date:  date,
		Order: OrderAsc,
	})
	if err != nil {
		log.Errorf("get day records: %s", err)
		http.Error(w, "get day records failed", http.StatusInternalServerError)
		return
	}

	resp := dayResponse{Records: found}
	journal, err := handler.store.FindJournal(ctx, owner, date)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		log.Errorf("get day journal: %s", err)
		http.Error(w, "get day records failed", http.StatusInternalServerError)
		return
	}
	resp.Journal = journal

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal day records: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handleUpsertJournal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recordsHandler.upsertJournal")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var journalReq struct {
		Date    string `json:"date"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&journalReq); err != nil {
		log.Errorf("upsert journal, unmarshal json params: %s", err)
		http.Error(w, "save journal failed", http.StatusBadRequest)
		return
	}

	if !ValidDate(journalReq.Date) {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if journalReq.Content == "" {
		http.Error(w, "journal content empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("date", journalReq.Date))

	saved, err := handler.store.UpsertJournal(ctx, owner, journalReq.Date, journalReq.Content)
	if err != nil {
		log.Errorf("upsert journal: %s", err)
		http.Error(w, "save journal failed", http.StatusInternalServerError)
		return
	}

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("marshal saved journal: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, savedJson)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recordsHandler.delete")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "record id empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("record.id", id))

	if err := handler.store.DeleteByID(ctx, owner, id); err != nil {
		log.Errorf("delete record %s: %s", id, err)
		http.Error(w, "delete record failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "deleted")
}

func (handler *Handler) handleClearGenerated(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recordsHandler.clearGenerated")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	deleted, err := handler.store.DeleteMany(ctx, owner, Filter{
		Kinds: GeneratedKinds,
	})
	if err != nil {
		log.Errorf("clear generated history: %s", err)
		http.Error(w, "clear generated history failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("deleted", deleted))
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"deleted": %d}`, deleted))
}

// handleStream exposes a live query over server-sent events: the
// current matching set is sent immediately, then re-sent after every
// affecting write, until the client disconnects.
func (handler *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recordsHandler.stream")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	events := make(chan []WorkoutRecord)
	onChange := func(found []WorkoutRecord) {
		select {
		case events <- found:
		case <-ctx.Done():
		}
	}

	unsubscribe, err := handler.store.Subscribe(ctx, owner, filter, onChange)
	if err != nil {
		log.Errorf("records stream, subscribe: %s", err)
		http.Error(w, "subscribe failed", http.StatusInternalServerError)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case found := <-events:
			foundJson, err := json.Marshal(found)
			if err != nil {
				log.Errorf("records stream, marshal: %s", err)
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", foundJson); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func filterFromQuery(r *http.Request) (Filter, error) {
	var filter Filter

	if kindsParam := r.URL.Query().Get("kinds"); kindsParam != "" {
		for _, kindStr := range strings.Split(kindsParam, ",") {
			kind := Kind(strings.TrimSpace(kindStr))
			if !ValidKind(kind) {
				return Filter{}, fmt.Errorf("invalid record kind: %q", kind)
			}
			filter.Kinds = append(filter.Kinds, kind)
		}
	}

	filter.Date = r.URL.Query().Get("date")
	filter.DateFrom = r.URL.Query().Get("from")
	filter.DateTo = r.URL.Query().Get("to")
	for _, date := range []string{filter.Date, filter.DateFrom, filter.DateTo} {
		if date != "" && !ValidDate(date) {
			return Filter{}, fmt.Errorf("invalid date: %q, expected YYYY-MM-DD", date)
		}
	}

	switch order := r.URL.Query().Get("order"); order {
	case "", "asc":
		filter.Order = OrderAsc
	case "desc":
		filter.Order = OrderDesc
	default:
		return Filter{}, fmt.Errorf("invalid order: %q", order)
	}

	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 0 {
			return Filter{}, fmt.Errorf("invalid limit: %q", limitParam)
		}
		filter.Limit = limit
	}

	return filter, nil
}
