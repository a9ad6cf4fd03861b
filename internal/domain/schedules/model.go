package schedules

import "time"

// Schedule es una hora del día recurrente para una dosis.
// No lleva fecha: dispara todos los días a TimeOfDay exacto.
// Un medicamento puede tener varios (varias dosis por día).
type Schedule struct {
	ID           string
	MedicationID string

	TimeOfDay string // "HH:MM", 24 horas

	Active bool

	CreatedAt time.Time
}
