package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"medication-reminder/internal/domain/adherence"
)

type AdherenceRepo struct {
	db *sql.DB
}

func NewAdherenceRepo(db *sql.DB) *AdherenceRepo {
	return &AdherenceRepo{db: db}
}

func (r *AdherenceRepo) Get(ctx context.Context, medicationID, userID string, scheduledAt time.Time) (adherence.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, medication_id, user_id, scheduled_at, status, taken_at, created_at, updated_at
		FROM adherence_records
		WHERE medication_id = $1 AND user_id = $2 AND scheduled_at = $3
	`, medicationID, userID, scheduledAt)

	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return adherence.Record{}, ErrNotFound
		}
		return adherence.Record{}, err
	}
	return rec, nil
}

// Upsert usa la unicidad de (medication_id, user_id, scheduled_at).
// Con skipIfCompleted, el WHERE del DO UPDATE deja el registro intacto
// si ya está en taken/missed: el compare-and-swap pasa por la base, no
// solo por la cancelación de timers en memoria.
func (r *AdherenceRepo) Upsert(ctx context.Context, rec adherence.Record, skipIfCompleted bool) (adherence.Record, error) {
	q := `
		INSERT INTO adherence_records (
			id, medication_id, user_id, scheduled_at, status, taken_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (medication_id, user_id, scheduled_at)
		DO UPDATE SET
			status = EXCLUDED.status,
			taken_at = EXCLUDED.taken_at,
			updated_at = EXCLUDED.updated_at
	`
	if skipIfCompleted {
		q += ` WHERE adherence_records.status NOT IN ('taken','missed')`
	}
	q += `
		RETURNING id, medication_id, user_id, scheduled_at, status, taken_at, created_at, updated_at
	`

	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.MedicationID,
		rec.UserID,
		rec.ScheduledAt,
		rec.Status,
		toNullTime(rec.TakenAt),
		rec.CreatedAt,
		rec.UpdatedAt,
	)

	out, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			// El guard descartó la escritura: devolver lo guardado.
			return r.Get(ctx, rec.MedicationID, rec.UserID, rec.ScheduledAt)
		}
		return adherence.Record{}, err
	}
	return out, nil
}

func (r *AdherenceRepo) ListSince(ctx context.Context, userID string, since time.Time, statuses []adherence.Status) ([]adherence.Record, error) {
	q := `
		SELECT id, medication_id, user_id, scheduled_at, status, taken_at, created_at, updated_at
		FROM adherence_records
		WHERE user_id = $1 AND scheduled_at >= $2
	`
	args := []any{userID, since}

	if len(statuses) > 0 {
		ph := make([]string, 0, len(statuses))
		for i, s := range statuses {
			ph = append(ph, fmt.Sprintf("$%d", i+3))
			args = append(args, string(s))
		}
		q += ` AND status IN (` + strings.Join(ph, ",") + `)`
	}
	q += ` ORDER BY scheduled_at ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *AdherenceRepo) ListByUser(ctx context.Context, userID string, limit int) ([]adherence.Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication_id, user_id, scheduled_at, status, taken_at, created_at, updated_at
		FROM adherence_records
		WHERE user_id = $1
		ORDER BY scheduled_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (adherence.Record, error) {
	var rec adherence.Record
	var takenAt sql.NullTime
	var status string

	if err := row.Scan(
		&rec.ID,
		&rec.MedicationID,
		&rec.UserID,
		&rec.ScheduledAt,
		&status,
		&takenAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return adherence.Record{}, err
	}

	rec.Status = adherence.Status(status)
	if takenAt.Valid {
		t := takenAt.Time
		rec.TakenAt = &t
	}

	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]adherence.Record, error) {
	out := make([]adherence.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
