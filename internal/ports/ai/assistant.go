package ai

import "context"

// Assistant responde preguntas sobre medicación usando un modelo
// generativo externo. El contexto (medicación del usuario) va embebido
// en el prompt; acá no hay estado de conversación.
type Assistant interface {
	Answer(ctx context.Context, prompt string) (string, error)
}
