package calendar

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/trisport/coachd/internal/auth"
	"github.com/trisport/coachd/internal/records"
	"github.com/trisport/coachd/internal/telemetry/tracing"
	"github.com/trisport/coachd/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	store recordStore
}

func NewHandler(store recordStore) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	calendarRouter := router.PathPrefix("/calendar").Subrouter()
	calendarRouter.HandleFunc("/{year}/{month}", handler.handleGetMonth).
		Methods("GET").Name("calendar-month")
	calendarRouter.HandleFunc("/{year}/{month}/stream", handler.handleStreamMonth).
		Methods("GET").Name("calendar-month-stream")
}

func yearAndMonth(r *http.Request) (int, int, error) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("invalid year: %q", vars["year"])
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil || !ValidMonth(month) {
		return 0, 0, fmt.Errorf("invalid month: %q", vars["month"])
	}
	return year, month, nil
}

func (handler *Handler) handleGetMonth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "calendarHandler.month")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	year, month, err := yearAndMonth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("year", year))
	span.SetAttributes(attribute.Int("month", month))

	from, to := MonthRange(year, month)
	found, err := handler.store.List(ctx, owner, records.Filter{
		DateFrom: from,
		DateTo:   to,
		Order:    records.OrderAsc,
	})
	if err != nil {
		log.Errorf("get calendar month: %s", err)
		http.Error(w, "get calendar failed", http.StatusInternalServerError)
		return
	}

	view := BuildMonthView(year, month, found)
	viewJson, err := json.Marshal(view)
	if err != nil {
		log.Errorf("marshal calendar month: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, viewJson)
}

// handleStreamMonth keeps a live month view open over server-sent
// events, rebuilt and re-sent on every affecting write.
func (handler *Handler) handleStreamMonth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "calendarHandler.streamMonth")
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

	year, month, err := yearAndMonth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	events := make(chan MonthView)
	aggregator := NewAggregator(handler.store, owner, func(view MonthView) {
		select {
		case events <- view:
		case <-ctx.Done():
		}
	})
	defer aggregator.Close()

	if err := aggregator.SetMonth(ctx, year, month); err != nil {
		log.Errorf("calendar stream, subscribe: %s", err)
		http.Error(w, "subscribe failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case view := <-events:
			viewJson, err := json.Marshal(view)
			if err != nil {
				log.Errorf("calendar stream, marshal: %s", err)
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", viewJson); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
