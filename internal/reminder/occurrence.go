package reminder

import "time"

// Occurrence identifica "esta dosis, hoy": (medicamento, hora del día).
// No se persiste; es la clave del dedup de notificaciones y de los
// timers de ventana de respuesta. La fecha no entra en la clave porque
// el dedup expira mucho antes de que la misma hora vuelva a ocurrir.
type Occurrence struct {
	MedicationID string
	TimeOfDay    string // "HH:MM"
}

// DueReminder es un recordatorio listo para mostrar: autocontenido,
// la UI no necesita volver a consultar el medicamento.
type DueReminder struct {
	MedicationID string
	ScheduleID   string

	Name         string
	Dosage       string
	Instructions string

	TimeOfDay string // "HH:MM"
}

func (d DueReminder) Occurrence() Occurrence {
	return Occurrence{
		MedicationID: d.MedicationID,
		TimeOfDay:    d.TimeOfDay,
	}
}

// TimeOfDay trunca un instante a "HH:MM" en hora local.
func TimeOfDay(t time.Time) string {
	return t.Format("15:04")
}

// ScheduledAtFor sintetiza la fecha-hora programada de la ocurrencia:
// la fecha de now + la hora del horario, en la zona de now.
// Es la clave con la que se busca/guarda el registro de adherencia.
func ScheduledAtFor(now time.Time, timeOfDay string) time.Time {
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		// timeOfDay ya viene validado río arriba; truncar al minuto
		// actual es el fallback menos dañino.
		return now.Truncate(time.Minute)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
}
