package adherence

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

func (s *Service) Get(ctx context.Context, medicationID, userID string, scheduledAt time.Time) (Record, error) {
	if strings.TrimSpace(medicationID) == "" || strings.TrimSpace(userID) == "" || scheduledAt.IsZero() {
		return Record{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, medicationID, userID, scheduledAt)
}

type UpsertInput struct {
	MedicationID string
	UserID       string
	ScheduledAt  time.Time
	Status       Status
	TakenAt      *time.Time

	// SkipIfCompleted: no pisar taken/missed ya guardados.
	// Lo usa el timeout automático, nunca el usuario.
	SkipIfCompleted bool
}

// Upsert busca por (medicamento, usuario, scheduledAt): si existe actualiza,
// si no inserta. Para el caller es una sola operación lógica; la carrera
// timeout-vs-usuario la cierra skipIfCompleted más la unicidad en storage.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (Record, error) {
	if strings.TrimSpace(in.MedicationID) == "" || strings.TrimSpace(in.UserID) == "" {
		return Record{}, ErrInvalidInput
	}
	if in.ScheduledAt.IsZero() {
		return Record{}, ErrInvalidInput
	}
	if !ValidStatus(in.Status) {
		return Record{}, ErrInvalidInput
	}

	now := s.now()
	r := Record{
		ID:           uuid.NewString(),
		MedicationID: strings.TrimSpace(in.MedicationID),
		UserID:       strings.TrimSpace(in.UserID),
		ScheduledAt:  in.ScheduledAt,
		Status:       in.Status,
		TakenAt:      in.TakenAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Upsert(ctx, r, in.SkipIfCompleted)
}

// MarkTaken registra que el usuario tomó la dosis ahora.
func (s *Service) MarkTaken(ctx context.Context, medicationID, userID string, scheduledAt time.Time) (Record, error) {
	now := s.now()
	return s.Upsert(ctx, UpsertInput{
		MedicationID: medicationID,
		UserID:       userID,
		ScheduledAt:  scheduledAt,
		Status:       StatusTaken,
		TakenAt:      &now,
	})
}

// MarkMissed registra que el usuario salteó la dosis (TakenAt queda null).
func (s *Service) MarkMissed(ctx context.Context, medicationID, userID string, scheduledAt time.Time) (Record, error) {
	return s.Upsert(ctx, UpsertInput{
		MedicationID: medicationID,
		UserID:       userID,
		ScheduledAt:  scheduledAt,
		Status:       StatusMissed,
		TakenAt:      nil,
	})
}

func (s *Service) ListSince(ctx context.Context, userID string, since time.Time, statuses []Status) ([]Record, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListSince(ctx, userID, since, statuses)
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
