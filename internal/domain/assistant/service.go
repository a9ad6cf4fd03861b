package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medication-reminder/internal/domain/medications"
	"medication-reminder/internal/ports/ai"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("assistant unavailable")
)

const maxQuestionLen = 2000

// Service responde preguntas de medicación: arma un prompt con la
// medicación activa del usuario como contexto y delega en el modelo
// externo. Sin estado de conversación: cada pregunta va completa.
type Service struct {
	meds      *medications.Service
	assistant ai.Assistant
}

func NewService(meds *medications.Service, assistant ai.Assistant) *Service {
	return &Service{
		meds:      meds,
		assistant: assistant,
	}
}

func (s *Service) Ask(ctx context.Context, userID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" || len(question) > maxQuestionLen {
		return "", ErrInvalidInput
	}
	if s.assistant == nil {
		return "", ErrUnavailable
	}

	// El contexto del usuario se degrada a vacío si falla la lectura:
	// mejor una respuesta genérica que ninguna.
	var meds []medications.Medication
	if items, err := s.meds.ListActiveByOwner(ctx, userID); err == nil {
		meds = items
	}

	answer, err := s.assistant.Answer(ctx, buildPrompt(question, meds))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrUnavailable
	}
	return answer, nil
}

func buildPrompt(question string, meds []medications.Medication) string {
	var b strings.Builder

	b.WriteString("Sos un asistente de medicación para pacientes. Respondé de forma breve y clara, ")
	b.WriteString("y recordá siempre que no reemplazás la consulta médica.\n\n")

	if len(meds) > 0 {
		b.WriteString("Medicación actual del paciente:\n")
		for _, m := range meds {
			b.WriteString("- ")
			b.WriteString(m.Name)
			if m.Dosage != "" {
				b.WriteString(" (")
				b.WriteString(m.Dosage)
				b.WriteString(")")
			}
			if m.Instructions != "" {
				b.WriteString(": ")
				b.WriteString(m.Instructions)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Pregunta del paciente:\n")
	b.WriteString(question)

	return b.String()
}
