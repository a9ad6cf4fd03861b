package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name         string
	Dosage       string
	Instructions string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	m := Medication{
		ID:           uuid.NewString(),
		OwnerUserID:  ownerUserID,
		Name:         strings.TrimSpace(in.Name),
		Dosage:       strings.TrimSpace(in.Dosage),
		Instructions: strings.TrimSpace(in.Instructions),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// ListActiveByOwner es lo que consume el resolver de recordatorios:
// solo medicamentos activos (no soft-deleted) del usuario.
func (s *Service) ListActiveByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListActiveByOwner(ctx, ownerUserID)
}

type UpdateProfileInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name         *string
	Dosage       *string
	Instructions *string
}

func (s *Service) UpdateProfile(ctx context.Context, id, requesterUserID string, in UpdateProfileInput) (Medication, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, ErrNotFound
	}
	if current.OwnerUserID != requesterUserID {
		return Medication{}, ErrNotFound
	}

	changed := false

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return Medication{}, ErrInvalidInput
		}
		current.Name = v
		changed = true
	}
	if in.Dosage != nil {
		current.Dosage = strings.TrimSpace(*in.Dosage)
		changed = true
	}
	if in.Instructions != nil {
		current.Instructions = strings.TrimSpace(*in.Instructions)
		changed = true
	}

	if !changed {
		return current, nil
	}

	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Medication{}, err
	}
	return current, nil
}

// Deactivate hace soft delete (Active=false). Los horarios asociados
// dejan de disparar porque el resolver cruza contra medicamentos activos.
func (s *Service) Deactivate(ctx context.Context, id, requesterUserID string) (Medication, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, ErrNotFound
	}
	if current.OwnerUserID != requesterUserID {
		return Medication{}, ErrNotFound
	}

	if !current.Active {
		return current, nil
	}

	current.Active = false
	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Medication{}, err
	}
	return current, nil
}

// OwnerOf expone el ownerUserID de un medicamento.
// Se usa para validar ownership desde otros módulos (schedules, adherence)
// sin crear ciclos de imports.
func (s *Service) OwnerOf(ctx context.Context, medicationID string) (string, error) {
	m, err := s.GetByID(ctx, medicationID)
	if err != nil {
		return "", err
	}
	return m.OwnerUserID, nil
}
