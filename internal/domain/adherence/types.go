package adherence

type Status string

const (
	StatusTaken  Status = "taken"
	StatusMissed Status = "missed"

	// StatusNotTakenAuto lo asigna el sistema cuando la ventana de
	// respuesta expira sin acción del usuario.
	StatusNotTakenAuto Status = "not_taken_auto"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusTaken, StatusMissed, StatusNotTakenAuto:
		return true
	default:
		return false
	}
}
