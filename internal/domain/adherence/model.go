package adherence

import "time"

// Record es el resultado persistido de una ocurrencia de dosis:
// un (medicamento, usuario, fecha-hora programada) con su estado final.
// Como mucho existe un Record por ocurrencia.
type Record struct {
	ID string

	MedicationID string
	UserID       string

	// ScheduledAt se sintetiza al evaluar: fecha de hoy + hora del horario.
	// No existe una entidad "ocurrencia" persistida aparte.
	ScheduledAt time.Time

	Status  Status
	TakenAt *time.Time // solo para Status=taken

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal indica si el estado fue fijado por el usuario y no debe ser
// pisado por el timeout automático. not_taken_auto NO es terminal en este
// sentido: el usuario puede corregirlo después a taken.
func (r Record) Terminal() bool {
	return r.Status == StatusTaken || r.Status == StatusMissed
}
