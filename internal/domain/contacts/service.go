package contacts

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
	Relationship string
	Email        string
	Phone        string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Contact, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Contact{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Contact{}, ErrInvalidInput
	}

	email := strings.TrimSpace(in.Email)
	if email != "" && !strings.Contains(email, "@") {
		return Contact{}, ErrInvalidInput
	}

	c := Contact{
		ID:           uuid.NewString(),
		OwnerUserID:  ownerUserID,
		Name:         strings.TrimSpace(in.Name),
		Relationship: strings.TrimSpace(in.Relationship),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Contact, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// ListWithEmailByOwner es lo que consume el sweep de escalamiento:
// un destinatario por contacto con email.
func (s *Service) ListWithEmailByOwner(ctx context.Context, ownerUserID string) ([]Contact, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListWithEmailByOwner(ctx, ownerUserID)
}

func (s *Service) Delete(ctx context.Context, id, requesterUserID string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if c.OwnerUserID != requesterUserID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
