package schedules

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Formato estricto "HH:MM" 24h. "8:00" no vale; la UI manda cero a la izquierda.
var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func ValidTimeOfDay(s string) bool {
	return timeOfDayRe.MatchString(s)
}

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

func (s *Service) Create(ctx context.Context, medicationID, timeOfDay string) (Schedule, error) {
	medicationID = strings.TrimSpace(medicationID)
	timeOfDay = strings.TrimSpace(timeOfDay)

	if medicationID == "" {
		return Schedule{}, ErrInvalidInput
	}
	if !ValidTimeOfDay(timeOfDay) {
		return Schedule{}, ErrInvalidInput
	}

	sc := Schedule{
		ID:           uuid.NewString(),
		MedicationID: medicationID,
		TimeOfDay:    timeOfDay,
		Active:       true,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, sc); err != nil {
		return Schedule{}, err
	}
	return sc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Schedule{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByMedication(ctx context.Context, medicationID string) ([]Schedule, error) {
	return s.repo.ListByMedication(ctx, medicationID)
}

// ListActiveAt es la mitad "horarios" del resolver de recordatorios.
// Nota: dos horarios idénticos para el mismo medicamento producen dos
// entradas. No se deduplica acá (puede ser intencional: "tomar 2
// comprimidos separados a la misma hora").
func (s *Service) ListActiveAt(ctx context.Context, timeOfDay string) ([]Schedule, error) {
	timeOfDay = strings.TrimSpace(timeOfDay)
	if !ValidTimeOfDay(timeOfDay) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListActiveAt(ctx, timeOfDay)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Deactivate(ctx, id)
}

// ReplaceForMedication apaga los horarios actuales del medicamento y
// crea los nuevos. Es el flujo de edición: la UI manda la lista completa.
func (s *Service) ReplaceForMedication(ctx context.Context, medicationID string, timesOfDay []string) ([]Schedule, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil, ErrInvalidInput
	}
	for _, t := range timesOfDay {
		if !ValidTimeOfDay(strings.TrimSpace(t)) {
			return nil, ErrInvalidInput
		}
	}

	if err := s.repo.DeactivateByMedication(ctx, medicationID); err != nil {
		return nil, err
	}

	out := make([]Schedule, 0, len(timesOfDay))
	for _, t := range timesOfDay {
		sc, err := s.Create(ctx, medicationID, strings.TrimSpace(t))
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
