package adherence

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byKey map[string]Record
}

func newTestRepo() *testRepo {
	return &testRepo{byKey: map[string]Record{}}
}

func key(medicationID, userID string, scheduledAt time.Time) string {
	return medicationID + "|" + userID + "|" + scheduledAt.UTC().Format("2006-01-02T15:04")
}

func (r *testRepo) Get(ctx context.Context, medicationID, userID string, scheduledAt time.Time) (Record, error) {
	rec, ok := r.byKey[key(medicationID, userID, scheduledAt)]
	if !ok {
		return Record{}, errRepoNotFound
	}
	return rec, nil
}

func (r *testRepo) Upsert(ctx context.Context, rec Record, skipIfCompleted bool) (Record, error) {
	k := key(rec.MedicationID, rec.UserID, rec.ScheduledAt)
	if prev, ok := r.byKey[k]; ok {
		if skipIfCompleted && prev.Terminal() {
			return prev, nil
		}
		rec.ID = prev.ID
		rec.CreatedAt = prev.CreatedAt
	}
	r.byKey[k] = rec
	return rec, nil
}

func (r *testRepo) ListSince(ctx context.Context, userID string, since time.Time, statuses []Status) ([]Record, error) {
	want := make(map[Status]struct{}, len(statuses))
	for _, st := range statuses {
		want[st] = struct{}{}
	}

	out := make([]Record, 0)
	for _, rec := range r.byKey {
		if rec.UserID != userID || rec.ScheduledAt.Before(since) {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[rec.Status]; !ok {
				continue
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	out := make([]Record, 0)
	for _, rec := range r.byKey {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestRecord_Terminal(t *testing.T) {
	if !(Record{Status: StatusTaken}).Terminal() {
		t.Fatalf("taken should be terminal")
	}
	if !(Record{Status: StatusMissed}).Terminal() {
		t.Fatalf("missed should be terminal")
	}
	if (Record{Status: StatusNotTakenAuto}).Terminal() {
		t.Fatalf("not_taken_auto should NOT be terminal")
	}
}

func TestService_Upsert_SameOccurrenceUpdatesRecord(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	scheduledAt := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)

	r1, err := svc.Upsert(context.Background(), UpsertInput{
		MedicationID: "med-1",
		UserID:       "user-1",
		ScheduledAt:  scheduledAt,
		Status:       StatusNotTakenAuto,
	})
	if err != nil {
		t.Fatalf("Upsert #1 error: %v", err)
	}

	r2, err := svc.MarkTaken(context.Background(), "med-1", "user-1", scheduledAt)
	if err != nil {
		t.Fatalf("MarkTaken error: %v", err)
	}

	if r2.ID != r1.ID {
		t.Fatalf("expected same record updated, got %s vs %s", r1.ID, r2.ID)
	}
	if len(repo.byKey) != 1 {
		t.Fatalf("expected single record per occurrence, got %d", len(repo.byKey))
	}
}

func TestService_Upsert_SkipIfCompletedGuard(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	scheduledAt := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)

	if _, err := svc.MarkTaken(context.Background(), "med-1", "user-1", scheduledAt); err != nil {
		t.Fatalf("MarkTaken error: %v", err)
	}

	// El auto-mark del timeout llega tarde: el guard lo descarta.
	got, err := svc.Upsert(context.Background(), UpsertInput{
		MedicationID:    "med-1",
		UserID:          "user-1",
		ScheduledAt:     scheduledAt,
		Status:          StatusNotTakenAuto,
		SkipIfCompleted: true,
	})
	if err != nil {
		t.Fatalf("guarded Upsert error: %v", err)
	}
	if got.Status != StatusTaken {
		t.Fatalf("expected terminal status preserved, got %s", got.Status)
	}
}

func TestService_Upsert_WithoutGuardOverwrites(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	scheduledAt := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)

	_, _ = svc.MarkMissed(context.Background(), "med-1", "user-1", scheduledAt)

	// El usuario cambia de opinión: missed → taken (sin guard).
	got, err := svc.MarkTaken(context.Background(), "med-1", "user-1", scheduledAt)
	if err != nil {
		t.Fatalf("MarkTaken error: %v", err)
	}
	if got.Status != StatusTaken {
		t.Fatalf("expected taken, got %s", got.Status)
	}
}

func TestService_Upsert_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	scheduledAt := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)

	cases := []UpsertInput{
		{UserID: "user-1", ScheduledAt: scheduledAt, Status: StatusTaken},       // sin medicamento
		{MedicationID: "med-1", ScheduledAt: scheduledAt, Status: StatusTaken},  // sin usuario
		{MedicationID: "med-1", UserID: "user-1", Status: StatusTaken},          // sin scheduledAt
		{MedicationID: "med-1", UserID: "user-1", ScheduledAt: scheduledAt},     // sin status
		{MedicationID: "med-1", UserID: "user-1", ScheduledAt: scheduledAt, Status: Status("weird")},
	}
	for i, in := range cases {
		if _, err := svc.Upsert(context.Background(), in); err != ErrInvalidInput {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_MarkTaken_SetsTakenAt(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 8, 29, 8, 2, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	scheduledAt := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	rec, err := svc.MarkTaken(context.Background(), "med-1", "user-1", scheduledAt)
	if err != nil {
		t.Fatalf("MarkTaken error: %v", err)
	}
	if rec.TakenAt == nil || !rec.TakenAt.Equal(now) {
		t.Fatalf("expected TakenAt = now, got %v", rec.TakenAt)
	}

	missed, err := svc.MarkMissed(context.Background(), "med-2", "user-1", scheduledAt)
	if err != nil {
		t.Fatalf("MarkMissed error: %v", err)
	}
	if missed.TakenAt != nil {
		t.Fatalf("expected TakenAt nil for missed")
	}
}

func TestService_ListSince_FiltersByStatus(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	base := time.Date(2026, 8, 27, 8, 0, 0, 0, time.UTC)
	_, _ = svc.MarkTaken(context.Background(), "med-1", "user-1", base)
	_, _ = svc.MarkMissed(context.Background(), "med-1", "user-1", base.AddDate(0, 0, 1))
	_, _ = svc.Upsert(context.Background(), UpsertInput{
		MedicationID: "med-1",
		UserID:       "user-1",
		ScheduledAt:  base.AddDate(0, 0, 2),
		Status:       StatusNotTakenAuto,
	})

	recs, err := svc.ListSince(context.Background(), "user-1", base, []Status{StatusMissed, StatusNotTakenAuto})
	if err != nil {
		t.Fatalf("ListSince error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 missed-family records, got %d", len(recs))
	}
	for _, r := range recs {
		if r.Status == StatusTaken {
			t.Fatalf("taken record leaked into filtered list")
		}
	}
}
