package contacts

import "time"

// Contact es un familiar o cuidador del usuario. Si tiene email,
// recibe las alertas de escalamiento por dosis perdidas.
type Contact struct {
	ID          string
	OwnerUserID string

	Name         string
	Relationship string // "hijo", "hermana", "cuidador", texto libre
	Email        string // opcional; sin email no recibe alertas
	Phone        string // opcional

	CreatedAt time.Time
}
