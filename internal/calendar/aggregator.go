package calendar

import (
	"context"
	"sync"

	"github.com/trisport/coachd/internal/records"
)

type recordStore interface {
	List(ctx context.Context, owner string, filter records.Filter) ([]records.WorkoutRecord, error)
	Subscribe(ctx context.Context, owner string, filter records.Filter, onChange records.OnChangeFunc) (records.UnsubscribeFunc, error)
}

// DayIndicators are the three independent summary categories a
// calendar day can show. A day may show several at once.
type DayIndicators struct {
	PrimarySport bool `json:"primarySport"`
	Strength     bool `json:"strength"`
	Journal      bool `json:"journal"`
}

type DaySummary struct {
	Records    []records.WorkoutRecord `json:"records"`
	Indicators DayIndicators           `json:"indicators"`
}

type MonthView struct {
	Year         int                   `json:"year"`
	Month        int                   `json:"month"`
	DaysInMonth  int                   `json:"daysInMonth"`
	FirstWeekday int                   `json:"firstWeekday"`
	Days         map[string]DaySummary `json:"days"`
}

// Classify derives the day indicators from the records of one day.
func Classify(dayRecords []records.WorkoutRecord) DayIndicators {
	var indicators DayIndicators
	for i := range dayRecords {
		r := &dayRecords[i]
		switch r.Kind {
		case records.KindGeneratedPrimary:
			indicators.PrimarySport = true
		case records.KindGeneratedStrength:
			indicators.Strength = true
		case records.KindLogged:
			if records.PrimarySports[r.Sport] {
				indicators.PrimarySport = true
			}
			if r.Sport == records.SportStrength {
				indicators.Strength = true
			}
		case records.KindJournal:
			indicators.Journal = true
		}
	}
	return indicators
}

// BuildMonthView buckets a month's records by their logical day and
// classifies each day's indicators.
func BuildMonthView(year, month int, monthRecords []records.WorkoutRecord) MonthView {
	byDay := make(map[string][]records.WorkoutRecord)
	for _, r := range monthRecords {
		byDay[r.Date] = append(byDay[r.Date], r)
	}

	days := make(map[string]DaySummary, len(byDay))
	for date, dayRecords := range byDay {
		days[date] = DaySummary{
			Records:    dayRecords,
			Indicators: Classify(dayRecords),
		}
	}

	return MonthView{
		Year:         year,
		Month:        month,
		DaysInMonth:  DaysInMonth(year, month),
		FirstWeekday: FirstWeekday(year, month),
		Days:         days,
	}
}

// Aggregator keeps a live month view for one owner: a date-range
// subscription over the record store, rebuilt on every delivery.
// Switching the month discards the prior subscription before opening
// the new one, so stale-scope updates never reach the view.
type Aggregator struct {
	store    recordStore
	owner    string
	onUpdate func(MonthView)

	mu          sync.Mutex
	year, month int
	current     MonthView
	unsubscribe records.UnsubscribeFunc
}

// NewAggregator creates an aggregator for owner. The optional onUpdate
// callback fires after every rebuild, from the subscription's delivery
// goroutine.
func NewAggregator(store recordStore, owner string, onUpdate func(MonthView)) *Aggregator {
	return &Aggregator{
		store:    store,
		owner:    owner,
		onUpdate: onUpdate,
	}
}

// SetMonth switches the aggregator to a month, month is 1 based. The
// prior month's subscription is released first.
func (a *Aggregator) SetMonth(ctx context.Context, year, month int) error {
	a.mu.Lock()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.year, a.month = year, month
	a.mu.Unlock()

	from, to := MonthRange(year, month)
	unsubscribe, err := a.store.Subscribe(ctx, a.owner, records.Filter{
		DateFrom: from,
		DateTo:   to,
		Order:    records.OrderAsc,
	}, func(found []records.WorkoutRecord) {
		a.rebuild(year, month, found)
	})
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.unsubscribe = unsubscribe
	a.mu.Unlock()
	return nil
}

func (a *Aggregator) rebuild(year, month int, found []records.WorkoutRecord) {
	view := BuildMonthView(year, month, found)

	a.mu.Lock()
	if year != a.year || month != a.month {
		// stale delivery from a discarded month subscription
		a.mu.Unlock()
		return
	}
	a.current = view
	a.mu.Unlock()

	if a.onUpdate != nil {
		a.onUpdate(view)
	}
}

// Current returns the latest rebuilt month view.
func (a *Aggregator) Current() MonthView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Close releases the active subscription.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}
