package devices

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
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

// Register es idempotente por token: registrar el mismo token dos veces
// (o desde otra cuenta) deja una sola fila con el dueño más reciente.
func (s *Service) Register(ctx context.Context, userID, token, platform string) (DeviceToken, error) {
	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)
	if userID == "" || token == "" {
		return DeviceToken{}, ErrInvalidInput
	}

	d := DeviceToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		Platform:  strings.TrimSpace(platform),
		CreatedAt: s.now(),
	}

	if err := s.repo.Upsert(ctx, d); err != nil {
		return DeviceToken{}, err
	}
	return d, nil
}

// TokensByUser devuelve los tokens crudos, que es lo único que el
// notificador push necesita.
func (s *Service) TokensByUser(ctx context.Context, userID string) ([]string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(items))
	for _, d := range items {
		tokens = append(tokens, d.Token)
	}
	return tokens, nil
}

func (s *Service) Unregister(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteByToken(ctx, token)
}
