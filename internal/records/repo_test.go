//go:build integration_test || all_tests

package records

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/trisport/coachd/internal/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deleteAll(ctx context.Context, repo *Repo) (int64, error) {
	tag, err := repo.db.Exec(ctx, `DELETE FROM workout_record`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func testRepoSetup(t *testing.T) (*Repo, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "coachd",
		TracingEnabled: false,
	})
	require.NoError(t, err)

	return NewRepo(dbPool), func() {
		dbPool.Close()
	}
}

func testRecord(owner string, kind Kind, date string) WorkoutRecord {
	rec := WorkoutRecord{
		ID:        uuid.NewString(),
		Owner:     owner,
		Kind:      kind,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Date:      date,
	}
	switch kind {
	case KindGeneratedPrimary:
		rec.Sport = SportRunning
		rec.PlanText = "## Warm-up\n10 min jog"
		rec.Profile = &ProfileSnapshot{
			Sport:      SportRunning,
			SportGoal:  "10k under 45",
			SkillLevel: "intermediate",
			Equipment:  map[string]bool{"gpsWatch": true},
		}
		rec.DailyState = &DailyStateSnapshot{
			SessionFocus:      "Endurance",
			RecentPerformance: "On track",
			SleepHours:        7.5,
		}
	case KindGeneratedStrength:
		rec.Sport = SportStrength
		rec.PlanText = "## Complimentary Lifting\nsquats"
	case KindLogged:
		rec.Sport = SportCycling
		rec.DurationMinutes = 60
		rec.PerceivedEffort = 6
		rec.DistanceOrLoad = "30k"
	case KindJournal:
		rec.Content = "felt good"
	}
	return rec
}

func TestRepo_BasicCRUD(t *testing.T) {
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	ctx := context.Background()
	deleted, err := deleteAll(ctx, repo)
	require.NoError(t, err)
	t.Logf("test setup, deleted records: %d", deleted)

	owner := "integration-owner"

	rec1 := testRecord(owner, KindGeneratedPrimary, "2024-06-01")
	rec2 := testRecord(owner, KindLogged, "2024-06-02")

	added1, err := repo.Add(ctx, rec1)
	require.NoError(t, err)
	require.NotNil(t, added1)
	added2, err := repo.Add(ctx, rec2)
	require.NoError(t, err)
	require.NotNil(t, added2)

	retrieved1, err := repo.Get(ctx, owner, rec1.ID)
	require.NoError(t, err)
	assert.Equal(t, rec1.PlanText, retrieved1.PlanText)
	require.NotNil(t, retrieved1.Profile)
	assert.Equal(t, rec1.Profile.SportGoal, retrieved1.Profile.SportGoal)
	assert.True(t, retrieved1.Profile.Equipment["gpsWatch"])
	require.NotNil(t, retrieved1.DailyState)
	assert.Equal(t, rec1.DailyState.SessionFocus, retrieved1.DailyState.SessionFocus)

	// owner scoping
	_, err = repo.Get(ctx, "somebody-else", rec1.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	all, err := repo.List(ctx, Filter{Owner: owner})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyLogged, err := repo.List(ctx, Filter{Owner: owner, Kinds: []Kind{KindLogged}})
	require.NoError(t, err)
	require.Len(t, onlyLogged, 1)
	assert.Equal(t, rec2.ID, onlyLogged[0].ID)

	byDate, err := repo.List(ctx, Filter{Owner: owner, Date: "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, rec1.ID, byDate[0].ID)

	inRange, err := repo.List(ctx, Filter{Owner: owner, DateFrom: "2024-06-01", DateTo: "2024-06-30"})
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	desc, err := repo.List(ctx, Filter{Owner: owner, Order: OrderDesc, Limit: 1})
	require.NoError(t, err)
	require.Len(t, desc, 1)

	wasDeleted, err := repo.Delete(ctx, owner, rec1.ID)
	require.NoError(t, err)
	assert.True(t, wasDeleted)

	// deleting again reports no row removed, but no error
	wasDeleted, err = repo.Delete(ctx, owner, rec1.ID)
	require.NoError(t, err)
	assert.False(t, wasDeleted)

	_, err = repo.Get(ctx, owner, rec1.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRepo_Journal(t *testing.T) {
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	ctx := context.Background()
	deleted, err := deleteAll(ctx, repo)
	require.NoError(t, err)
	t.Logf("test setup, deleted records: %d", deleted)

	owner := "integration-owner"
	date := "2024-06-05"

	_, err = repo.FindJournal(ctx, owner, date)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	journal := testRecord(owner, KindJournal, date)
	_, err = repo.Add(ctx, journal)
	require.NoError(t, err)

	found, err := repo.FindJournal(ctx, owner, date)
	require.NoError(t, err)
	assert.Equal(t, journal.ID, found.ID)
	assert.Equal(t, "felt good", found.Content)

	updatedAt := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.UpdateJournal(ctx, owner, journal.ID, "actually tired", updatedAt))

	found, err = repo.FindJournal(ctx, owner, date)
	require.NoError(t, err)
	assert.Equal(t, "actually tired", found.Content)

	assert.ErrorIs(t,
		repo.UpdateJournal(ctx, owner, uuid.NewString(), "nope", updatedAt),
		ErrRecordNotFound,
	)
}
