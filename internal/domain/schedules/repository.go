package schedules

import "context"

type Repository interface {
	Create(ctx context.Context, s Schedule) error
	GetByID(ctx context.Context, id string) (Schedule, error)
	ListByMedication(ctx context.Context, medicationID string) ([]Schedule, error)

	// ListActiveAt devuelve los horarios activos cuyo TimeOfDay coincide
	// exactamente con timeOfDay ("HH:MM"). Sin ventana de tolerancia.
	ListActiveAt(ctx context.Context, timeOfDay string) ([]Schedule, error)

	Deactivate(ctx context.Context, id string) error

	// DeactivateByMedication apaga todos los horarios de un medicamento.
	// Se usa al reemplazar horarios en una edición.
	DeactivateByMedication(ctx context.Context, medicationID string) error
}
