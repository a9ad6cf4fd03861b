package adherence

import (
	"context"
	"time"
)

type Repository interface {
	// Get busca el registro de una ocurrencia exacta
	// (medicamento, usuario, fecha-hora programada).
	Get(ctx context.Context, medicationID, userID string, scheduledAt time.Time) (Record, error)

	// Upsert inserta o actualiza el registro de la ocurrencia.
	// Con skipIfCompleted=true la escritura se descarta si el registro
	// guardado ya está en estado terminal (taken/missed): es el guard
	// compare-and-swap del timeout automático contra el click del usuario.
	Upsert(ctx context.Context, r Record, skipIfCompleted bool) (Record, error)

	// ListSince devuelve los registros del usuario desde since (inclusive)
	// filtrados por estados. statuses vacío = todos.
	ListSince(ctx context.Context, userID string, since time.Time, statuses []Status) ([]Record, error)

	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
}
