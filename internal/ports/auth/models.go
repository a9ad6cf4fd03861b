package auth

// Claims representa la información extraída del token.
// Este servicio solo necesita el user id; el email es opcional.
type Claims struct {
	UserID string
	Email  string
}
