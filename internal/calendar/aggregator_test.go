package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/trisport/coachd/internal/records"
	"github.com/trisport/coachd/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testOwner = "owner-1"

func newTestStore() *records.Store {
	return records.NewStore(records.NewMockRepo(), metrics.NewTestManager())
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		records  []records.WorkoutRecord
		expected DayIndicators
	}{
		{
			name:     "empty day",
			expected: DayIndicators{},
		},
		{
			name: "logged run is primary sport",
			records: []records.WorkoutRecord{
				{Kind: records.KindLogged, Sport: records.SportRunning},
			},
			expected: DayIndicators{PrimarySport: true},
		},
		{
			name: "generated primary",
			records: []records.WorkoutRecord{
				{Kind: records.KindGeneratedPrimary, Sport: records.SportSwimming},
			},
			expected: DayIndicators{PrimarySport: true},
		},
		{
			name: "logged strength",
			records: []records.WorkoutRecord{
				{Kind: records.KindLogged, Sport: records.SportStrength},
			},
			expected: DayIndicators{Strength: true},
		},
		{
			name: "generated strength",
			records: []records.WorkoutRecord{
				{Kind: records.KindGeneratedStrength, Sport: records.SportStrength},
			},
			expected: DayIndicators{Strength: true},
		},
		{
			name: "journal only",
			records: []records.WorkoutRecord{
				{Kind: records.KindJournal, Content: "rest day"},
			},
			expected: DayIndicators{Journal: true},
		},
		{
			name: "logged other sport sets nothing",
			records: []records.WorkoutRecord{
				{Kind: records.KindLogged, Sport: records.SportOther},
			},
			expected: DayIndicators{},
		},
		{
			name: "all three at once",
			records: []records.WorkoutRecord{
				{Kind: records.KindLogged, Sport: records.SportCycling},
				{Kind: records.KindGeneratedStrength, Sport: records.SportStrength},
				{Kind: records.KindJournal, Content: "big day"},
			},
			expected: DayIndicators{PrimarySport: true, Strength: true, Journal: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.records))
		})
	}
}

func TestBuildMonthView_bucketing(t *testing.T) {
	monthRecords := []records.WorkoutRecord{
		{ID: "r1", Kind: records.KindLogged, Sport: records.SportRunning, Date: "2024-06-01"},
		{ID: "r2", Kind: records.KindJournal, Content: "note", Date: "2024-06-02"},
	}

	view := BuildMonthView(2024, 6, monthRecords)
	assert.Equal(t, 2024, view.Year)
	assert.Equal(t, 6, view.Month)
	assert.Equal(t, 30, view.DaysInMonth)
	require.Len(t, view.Days, 2)

	day1 := view.Days["2024-06-01"]
	assert.Equal(t, DayIndicators{PrimarySport: true}, day1.Indicators)
	require.Len(t, day1.Records, 1)
	assert.Equal(t, "r1", day1.Records[0].ID)

	day2 := view.Days["2024-06-02"]
	assert.Equal(t, DayIndicators{Journal: true}, day2.Indicators)
}

func TestAggregator_liveMonthView(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	_, err := store.Create(ctx, testOwner, records.WorkoutRecord{
		Kind:            records.KindLogged,
		Date:            "2024-06-01",
		Sport:           records.SportRunning,
		DurationMinutes: 40,
		PerceivedEffort: 5,
	})
	require.NoError(t, err)

	updates := make(chan MonthView, 16)
	aggregator := NewAggregator(store, testOwner, func(view MonthView) {
		updates <- view
	})
	defer aggregator.Close()

	require.NoError(t, aggregator.SetMonth(ctx, 2024, 6))

	view := nextUpdate(t, updates)
	require.Len(t, view.Days, 1)
	assert.True(t, view.Days["2024-06-01"].Indicators.PrimarySport)

	// a write in the month triggers a rebuild
	_, err = store.UpsertJournal(ctx, testOwner, "2024-06-02", "easy day")
	require.NoError(t, err)

	view = nextUpdate(t, updates)
	require.Len(t, view.Days, 2)
	assert.True(t, view.Days["2024-06-02"].Indicators.Journal)
	assert.Equal(t, view, aggregator.Current())

	// a write outside the month does not
	_, err = store.UpsertJournal(ctx, testOwner, "2024-07-15", "next month")
	require.NoError(t, err)
	assertNoUpdate(t, updates)
}

func TestAggregator_setMonthResubscribes(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	_, err := store.UpsertJournal(ctx, testOwner, "2024-06-02", "june")
	require.NoError(t, err)
	_, err = store.UpsertJournal(ctx, testOwner, "2024-07-02", "july")
	require.NoError(t, err)

	updates := make(chan MonthView, 16)
	aggregator := NewAggregator(store, testOwner, func(view MonthView) {
		updates <- view
	})
	defer aggregator.Close()

	require.NoError(t, aggregator.SetMonth(ctx, 2024, 6))
	view := nextUpdate(t, updates)
	require.Len(t, view.Days, 1)
	assert.Contains(t, view.Days, "2024-06-02")

	require.NoError(t, aggregator.SetMonth(ctx, 2024, 7))
	view = nextUpdate(t, updates)
	require.Len(t, view.Days, 1)
	assert.Contains(t, view.Days, "2024-07-02")

	// the june subscription is gone: a june write delivers nothing
	_, err = store.UpsertJournal(ctx, testOwner, "2024-06-20", "stale scope")
	require.NoError(t, err)
	assertNoUpdate(t, updates)

	// while a july write still does
	_, err = store.UpsertJournal(ctx, testOwner, "2024-07-20", "fresh scope")
	require.NoError(t, err)
	view = nextUpdate(t, updates)
	assert.Len(t, view.Days, 2)
}

func nextUpdate(t *testing.T, updates <-chan MonthView) MonthView {
	t.Helper()
	select {
	case view := <-updates:
		return view
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for month view update")
		return MonthView{}
	}
}

func assertNoUpdate(t *testing.T, updates <-chan MonthView) {
	t.Helper()
	select {
	case <-updates:
		t.Fatal("unexpected month view update")
	case <-time.After(150 * time.Millisecond):
	}
}
