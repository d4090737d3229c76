package records

import (
	"errors"
	"fmt"
	"time"
)

// Kind discriminates the record variants kept in the single per-owner
// workout collection.
type Kind string

const (
	KindGeneratedPrimary  Kind = "generated_primary"
	KindGeneratedStrength Kind = "generated_strength"
	KindLogged            Kind = "logged"
	KindJournal           Kind = "journal"
)

const (
	SportSwimming = "Swimming"
	SportRunning  = "Running"
	SportCycling  = "Cycling"
	SportStrength = "Strength"
	SportOther    = "Other"
)

// PrimarySports are the endurance disciplines that count towards the
// calendar's primary-sport day indicator.
var PrimarySports = map[string]bool{
	SportSwimming: true,
	SportRunning:  true,
	SportCycling:  true,
}

var GeneratedKinds = []Kind{KindGeneratedPrimary, KindGeneratedStrength}

func ValidKind(k Kind) bool {
	switch k {
	case KindGeneratedPrimary, KindGeneratedStrength, KindLogged, KindJournal:
		return true
	}
	return false
}

// ProfileSnapshot is the sport profile frozen onto a generated record
// at the moment of generation.
type ProfileSnapshot struct {
	Sport             string          `json:"sport"`
	SportGoal         string          `json:"sportGoal"`
	SkillLevel        string          `json:"skillLevel"`
	SessionsPerWeek   int             `json:"sessionsPerWeek"`
	SessionDurationMin int            `json:"sessionDurationMinutes"`
	StrengthGoal      string          `json:"strengthGoal"`
	Equipment         map[string]bool `json:"equipment"`
	WearableDevice    string          `json:"wearableDevice"`
}

// DailyStateSnapshot is the day-to-day physiological input frozen onto
// a generated record.
type DailyStateSnapshot struct {
	DesiredDistance   string  `json:"desiredDistance"`
	SessionFocus      string  `json:"sessionFocus"`
	RecentPerformance string  `json:"recentPerformance"`
	RestingHeartRate  int     `json:"restingHeartRate"`
	SleepHours        float64 `json:"sleepHours"`
	SleepScore        int     `json:"sleepScore"`
	EnergyScore       int     `json:"energyScore"`
}

// WorkoutRecord is the single polymorphic entity of the store, tagged
// by Kind. Which fields are set depends on the kind, see Validate.
type WorkoutRecord struct {
	ID        string    `json:"id"`
	Owner     string    `json:"ownerId"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	// Date is the logical calendar day (YYYY-MM-DD) the record applies
	// to, independent of CreatedAt.
	Date string `json:"date"`

	// generated_* and logged
	Sport string `json:"sport,omitempty"`

	// generated_*
	PlanText   string              `json:"planText,omitempty"`
	Profile    *ProfileSnapshot    `json:"profileSnapshot,omitempty"`
	DailyState *DailyStateSnapshot `json:"dailyStateSnapshot,omitempty"`

	// logged
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	PerceivedEffort int    `json:"perceivedEffort,omitempty"`
	DistanceOrLoad  string `json:"distanceOrLoad,omitempty"`
	Notes           string `json:"notes,omitempty"`

	// journal
	Content string `json:"content,omitempty"`
}

var dateFormat = "2006-01-02"

func ValidDate(date string) bool {
	_, err := time.Parse(dateFormat, date)
	return err == nil
}

func (r *WorkoutRecord) Validate() error {
	if !ValidKind(r.Kind) {
		return fmt.Errorf("invalid record kind: %q", r.Kind)
	}
	if r.Date == "" || !ValidDate(r.Date) {
		return errors.New("invalid record date, expected YYYY-MM-DD")
	}

	switch r.Kind {
	case KindGeneratedPrimary, KindGeneratedStrength:
		if r.Sport == "" {
			return errors.New("generated record requires a sport")
		}
		if r.PlanText == "" {
			return errors.New("generated record requires plan text")
		}
	case KindLogged:
		if r.Sport == "" {
			return errors.New("logged workout requires a sport")
		}
		if r.DurationMinutes <= 0 {
			return errors.New("logged workout requires a positive duration")
		}
		if r.PerceivedEffort < 1 || r.PerceivedEffort > 10 {
			return errors.New("perceived effort must be between 1 and 10")
		}
	case KindJournal:
		if r.Content == "" {
			return errors.New("journal entry requires content")
		}
	}

	return nil
}

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Filter narrows a store query. The owner scope is always applied, the
// rest is optional: a one-of kind set, an exact date or a [From, To]
// date range, ordering by CreatedAt, and a result limit.
type Filter struct {
	Owner    string
	Kinds    []Kind
	Date     string
	DateFrom string
	DateTo   string
	Order    Order
	Limit    int
}

// Matches reports whether a record falls within the filter scope. Limit
// and Order do not participate, they shape the result set, not the
// per-record match.
func (f Filter) Matches(r *WorkoutRecord) bool {
	if f.Owner != r.Owner {
		return false
	}
	if len(f.Kinds) > 0 {
		var found bool
		for _, k := range f.Kinds {
			if r.Kind == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Date != "" && r.Date != f.Date {
		return false
	}
	if f.DateFrom != "" && r.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && r.Date > f.DateTo {
		return false
	}
	return true
}
