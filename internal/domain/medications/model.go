package medications

import "time"

// Medication representa un medicamento registrado por un usuario.
// No se borra físicamente: Active=false equivale a soft delete,
// así los registros de adherencia históricos no quedan huérfanos.
type Medication struct {
	ID          string
	OwnerUserID string

	Name         string
	Dosage       string // texto libre: "500 mg", "2 comprimidos"
	Instructions string // texto libre: "con comida", "en ayunas"

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
