package schedules

import (
	"context"
	"errors"
	"testing"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Schedule
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Schedule{}}
}

func (r *testRepo) Create(ctx context.Context, s Schedule) error {
	if s.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Schedule, error) {
	s, ok := r.byID[id]
	if !ok {
		return Schedule{}, errRepoNotFound
	}
	return s, nil
}

func (r *testRepo) ListByMedication(ctx context.Context, medicationID string) ([]Schedule, error) {
	out := make([]Schedule, 0)
	for _, s := range r.byID {
		if s.MedicationID == medicationID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) ListActiveAt(ctx context.Context, timeOfDay string) ([]Schedule, error) {
	out := make([]Schedule, 0)
	for _, s := range r.byID {
		if s.Active && s.TimeOfDay == timeOfDay {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) Deactivate(ctx context.Context, id string) error {
	s, ok := r.byID[id]
	if !ok {
		return errRepoNotFound
	}
	s.Active = false
	r.byID[id] = s
	return nil
}

func (r *testRepo) DeactivateByMedication(ctx context.Context, medicationID string) error {
	for id, s := range r.byID {
		if s.MedicationID == medicationID {
			s.Active = false
			r.byID[id] = s
		}
	}
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestValidTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "08:00", "09:05", "12:30", "21:15", "23:59"}
	for _, v := range valid {
		if !ValidTimeOfDay(v) {
			t.Fatalf("expected %q valid", v)
		}
	}

	invalid := []string{"", "8:00", "24:00", "08:60", "0800", "08:00:00", "13h30", " 08:00"}
	for _, v := range invalid {
		if ValidTimeOfDay(v) {
			t.Fatalf("expected %q invalid", v)
		}
	}
}

func TestService_Create_ValidatesTimeOfDay(t *testing.T) {
	svc := NewService(newTestRepo())

	sc, err := svc.Create(context.Background(), "med-1", "08:00")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !sc.Active {
		t.Fatalf("expected new schedule active")
	}

	if _, err := svc.Create(context.Background(), "med-1", "8:00"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unpadded hour, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "", "08:00"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for blank medication, got %v", err)
	}
}

func TestService_ListActiveAt_ExactMatchOnly(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, _ = svc.Create(context.Background(), "med-1", "08:00")
	_, _ = svc.Create(context.Background(), "med-2", "08:01")

	scs, err := svc.ListActiveAt(context.Background(), "08:00")
	if err != nil {
		t.Fatalf("ListActiveAt error: %v", err)
	}
	if len(scs) != 1 || scs[0].MedicationID != "med-1" {
		t.Fatalf("expected exact-minute match only, got %+v", scs)
	}

	if _, err := svc.ListActiveAt(context.Background(), "bad"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_ReplaceForMedication(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, _ = svc.Create(context.Background(), "med-1", "08:00")
	_, _ = svc.Create(context.Background(), "med-1", "21:00")

	out, err := svc.ReplaceForMedication(context.Background(), "med-1", []string{"09:30"})
	if err != nil {
		t.Fatalf("ReplaceForMedication error: %v", err)
	}
	if len(out) != 1 || out[0].TimeOfDay != "09:30" {
		t.Fatalf("expected replacement schedule, got %+v", out)
	}

	// Los viejos quedaron apagados: solo el nuevo dispara.
	if scs, _ := svc.ListActiveAt(context.Background(), "08:00"); len(scs) != 0 {
		t.Fatalf("expected old schedules deactivated, got %+v", scs)
	}
	if scs, _ := svc.ListActiveAt(context.Background(), "09:30"); len(scs) != 1 {
		t.Fatalf("expected new schedule active, got %+v", scs)
	}
}

func TestService_ReplaceForMedication_RejectsBadTimesBeforeWriting(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, _ = svc.Create(context.Background(), "med-1", "08:00")

	if _, err := svc.ReplaceForMedication(context.Background(), "med-1", []string{"09:30", "25:00"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// La validación es previa: el horario original sigue activo.
	if scs, _ := svc.ListActiveAt(context.Background(), "08:00"); len(scs) != 1 {
		t.Fatalf("expected original schedule untouched, got %+v", scs)
	}
}
