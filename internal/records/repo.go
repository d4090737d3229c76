package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/trisport/coachd/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrRecordNotFound = errors.New("workout record not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, record WorkoutRecord) (_ *WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("record.kind", string(record.Kind)))

	profileJson, err := json.Marshal(record.Profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile snapshot: %w", err)
	}
	dailyStateJson, err := json.Marshal(record.DailyState)
	if err != nil {
		return nil, fmt.Errorf("marshal daily state snapshot: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`INSERT INTO workout_record
				(id, owner_id, kind, created_at, date, sport, plan_text,
				 profile_snapshot, daily_state_snapshot,
				 duration_minutes, perceived_effort, distance_or_load, notes, content)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		record.ID, record.Owner, record.Kind, record.CreatedAt, record.Date,
		record.Sport, record.PlanText, profileJson, dailyStateJson,
		record.DurationMinutes, record.PerceivedEffort, record.DistanceOrLoad,
		record.Notes, record.Content,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, errors.New("unexpected error [no rows affected]")
	}

	span.SetAttributes(attribute.String("record.id", record.ID))
	return &record, nil
}

func (r *Repo) Get(ctx context.Context, owner, id string) (_ *WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("record.id", id))

	rows, err := r.db.Query(
		ctx,
		selectColumns+`WHERE owner_id = $1 AND id = $2;`,
		owner, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	found, err := r.rows2records(rows)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, ErrRecordNotFound
	}
	return &found[0], nil
}

// Delete removes a record by id. Deleting a nonexistent id is not an
// error, the reported bool tells whether a row was actually removed.
func (r *Repo) Delete(ctx context.Context, owner, id string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("record.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_record WHERE owner_id = $1 AND id = $2;`,
		owner, id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) List(ctx context.Context, filter Filter) (_ []WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("filter.kinds", len(filter.Kinds)))
	span.SetAttributes(attribute.String("filter.date", filter.Date))
	span.SetAttributes(attribute.Int("filter.limit", filter.Limit))

	kinds := make([]string, 0, len(filter.Kinds))
	for _, k := range filter.Kinds {
		kinds = append(kinds, string(k))
	}

	query := selectColumns + `
			WHERE owner_id = $1
			AND (cardinality($2::text[]) = 0 OR kind = ANY($2))
			AND ($3::text = '' OR date = $3)
			AND ($4::text = '' OR date >= $4)
			AND ($5::text = '' OR date <= $5)
		ORDER BY created_at `
	if filter.Order == OrderDesc {
		query += "DESC"
	} else {
		query += "ASC"
	}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	query += ";"

	rows, err := r.db.Query(
		ctx, query,
		filter.Owner, kinds, filter.Date, filter.DateFrom, filter.DateTo,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	found, err := r.rows2records(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2records: %w", err)
	}
	return found, nil
}

// FindJournal returns the journal entry for (owner, date), or
// ErrRecordNotFound when none exists yet.
func (r *Repo) FindJournal(ctx context.Context, owner, date string) (_ *WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.findJournal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date))

	rows, err := r.db.Query(
		ctx,
		selectColumns+`WHERE owner_id = $1 AND kind = $2 AND date = $3 LIMIT 1;`,
		owner, KindJournal, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	found, err := r.rows2records(rows)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrRecordNotFound
	}
	return &found[0], nil
}

func (r *Repo) UpdateJournal(ctx context.Context, owner, id, content string, createdAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.updateJournal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("record.id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_record SET content = $1, created_at = $2
			WHERE owner_id = $3 AND id = $4 AND kind = $5;`,
		content, createdAt, owner, id, KindJournal,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

const selectColumns = `
		SELECT
			id, owner_id, kind, created_at, date, sport, plan_text,
			profile_snapshot, daily_state_snapshot,
			duration_minutes, perceived_effort, distance_or_load, notes, content
		FROM workout_record
	`

func (r *Repo) rows2records(rows pgx.Rows) ([]WorkoutRecord, error) {
	var found []WorkoutRecord
	for rows.Next() {
		var rec WorkoutRecord
		var profileBytes, dailyStateBytes []byte
		if err := rows.Scan(
			&rec.ID, &rec.Owner, &rec.Kind, &rec.CreatedAt, &rec.Date,
			&rec.Sport, &rec.PlanText, &profileBytes, &dailyStateBytes,
			&rec.DurationMinutes, &rec.PerceivedEffort, &rec.DistanceOrLoad,
			&rec.Notes, &rec.Content,
		); err != nil {
			return nil, err
		}

		if len(profileBytes) > 0 && string(profileBytes) != "null" {
			rec.Profile = &ProfileSnapshot{}
			if err := json.Unmarshal(profileBytes, rec.Profile); err != nil {
				return nil, fmt.Errorf("unmarshal profile snapshot for record %s: %w", rec.ID, err)
			}
		}
		if len(dailyStateBytes) > 0 && string(dailyStateBytes) != "null" {
			rec.DailyState = &DailyStateSnapshot{}
			if err := json.Unmarshal(dailyStateBytes, rec.DailyState); err != nil {
				return nil, fmt.Errorf("unmarshal daily state snapshot for record %s: %w", rec.ID, err)
			}
		}

		found = append(found, rec)
	}

	if found == nil {
		found = make([]WorkoutRecord, 0)
	}

	return found, nil
}
