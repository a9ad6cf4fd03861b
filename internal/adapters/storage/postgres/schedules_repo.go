package postgres

import (
	"context"
	"database/sql"
	"strings"

	"medication-reminder/internal/domain/schedules"
)

type SchedulesRepo struct {
	db *sql.DB
}

func NewSchedulesRepo(db *sql.DB) *SchedulesRepo {
	return &SchedulesRepo{db: db}
}

func (r *SchedulesRepo) Create(ctx context.Context, s schedules.Schedule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedules (
			id, medication_id, time_of_day, active, created_at
		) VALUES ($1,$2,$3,$4,$5)
	`,
		s.ID,
		s.MedicationID,
		s.TimeOfDay,
		s.Active,
		s.CreatedAt,
	)
	return err
}

func (r *SchedulesRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return schedules.Schedule{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, medication_id, time_of_day, active, created_at
		FROM schedules
		WHERE id = $1
	`, id)

	var s schedules.Schedule
	if err := row.Scan(&s.ID, &s.MedicationID, &s.TimeOfDay, &s.Active, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return schedules.Schedule{}, ErrNotFound
		}
		return schedules.Schedule{}, err
	}

	return s, nil
}

func (r *SchedulesRepo) ListByMedication(ctx context.Context, medicationID string) ([]schedules.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication_id, time_of_day, active, created_at
		FROM schedules
		WHERE medication_id = $1
		ORDER BY time_of_day ASC
	`, medicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

func (r *SchedulesRepo) ListActiveAt(ctx context.Context, timeOfDay string) ([]schedules.Schedule, error) {
	// Match exacto de "HH:MM": un horario dispara exactamente un minuto
	// por día, sin ventana de tolerancia.
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication_id, time_of_day, active, created_at
		FROM schedules
		WHERE active = true AND time_of_day = $1
		ORDER BY created_at ASC
	`, timeOfDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

func (r *SchedulesRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE schedules SET active = false WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SchedulesRepo) DeactivateByMedication(ctx context.Context, medicationID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE schedules SET active = false WHERE medication_id = $1 AND active = true
	`, medicationID)
	return err
}

func scanSchedules(rows *sql.Rows) ([]schedules.Schedule, error) {
	out := make([]schedules.Schedule, 0)
	for rows.Next() {
		var s schedules.Schedule
		if err := rows.Scan(&s.ID, &s.MedicationID, &s.TimeOfDay, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
