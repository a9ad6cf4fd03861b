package medications

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
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) ListActiveByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID && m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsActive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:         "  Metformina ",
		Dosage:       "500 mg",
		Instructions: "con comida",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !m.Active {
		t.Fatalf("expected new medication active")
	}
	if m.Name != "Metformina" {
		t.Fatalf("expected trimmed name, got %q", m.Name)
	}
	if m.CreatedAt != now || m.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Create_RequiresName(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "   "}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "", CreateInput{Name: "X"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for blank owner, got %v", err)
	}
}

func TestService_UpdateProfile_PatchSemantics(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, _ := svc.Create(context.Background(), "user-1", CreateInput{
		Name:   "Metformina",
		Dosage: "500 mg",
	})

	newDosage := "850 mg"
	updated, err := svc.UpdateProfile(context.Background(), m.ID, "user-1", UpdateProfileInput{
		Dosage: &newDosage,
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if updated.Dosage != "850 mg" {
		t.Fatalf("expected dosage updated, got %q", updated.Dosage)
	}
	if updated.Name != "Metformina" {
		t.Fatalf("expected untouched field preserved, got %q", updated.Name)
	}
}

func TestService_UpdateProfile_RejectsBlankName(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, _ := svc.Create(context.Background(), "user-1", CreateInput{Name: "Metformina"})

	blank := "  "
	if _, err := svc.UpdateProfile(context.Background(), m.ID, "user-1", UpdateProfileInput{Name: &blank}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_UpdateProfile_OwnershipAsNotFound(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, _ := svc.Create(context.Background(), "user-1", CreateInput{Name: "Metformina"})

	name := "Otra"
	if _, err := svc.UpdateProfile(context.Background(), m.ID, "user-2", UpdateProfileInput{Name: &name}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign requester, got %v", err)
	}
}

func TestService_Deactivate_SoftDeleteIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, _ := svc.Create(context.Background(), "user-1", CreateInput{Name: "Metformina"})

	d1, err := svc.Deactivate(context.Background(), m.ID, "user-1")
	if err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if d1.Active {
		t.Fatalf("expected inactive after deactivate")
	}

	// idempotente
	d2, err := svc.Deactivate(context.Background(), m.ID, "user-1")
	if err != nil {
		t.Fatalf("Deactivate #2 error: %v", err)
	}
	if d2.Active {
		t.Fatalf("expected still inactive")
	}

	// Sigue visible en el listado completo, no en el de activos.
	all, _ := svc.ListByOwner(context.Background(), "user-1")
	if len(all) != 1 {
		t.Fatalf("expected deactivated medication still listed, got %d", len(all))
	}
	active, _ := svc.ListActiveByOwner(context.Background(), "user-1")
	if len(active) != 0 {
		t.Fatalf("expected no active medications, got %d", len(active))
	}
}

func TestService_OwnerOf(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, _ := svc.Create(context.Background(), "user-1", CreateInput{Name: "Metformina"})

	owner, err := svc.OwnerOf(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("OwnerOf error: %v", err)
	}
	if owner != "user-1" {
		t.Fatalf("expected user-1, got %q", owner)
	}

	if _, err := svc.OwnerOf(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for unknown medication")
	}
}
