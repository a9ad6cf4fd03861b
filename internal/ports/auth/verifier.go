package auth

import "context"

// AuthVerifier valida el token de un paciente contra el proveedor
// de identidad y devuelve sus claims, o error si el token no sirve.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
