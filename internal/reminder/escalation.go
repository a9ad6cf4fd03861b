package reminder

import (
	"context"
	"fmt"
	"strings"

	"medication-reminder/internal/domain/adherence"
	"medication-reminder/internal/ports/notify"
)

// escalationLookbackDays: ventana del sweep de dosis perdidas.
// Un medicamento escala cuando acumula missed/not_taken_auto en esta
// cantidad de días calendario distintos.
const escalationLookbackDays = 3

// runEscalationSweep corre una sola vez por Start (no por tick):
// busca medicamentos con dosis perdidas en 3 días distintos de los
// últimos 3, manda un email por contacto familiar con email, y muestra
// una confirmación local. Todo fallo se loguea y se sigue; nada de
// esto puede voltear el arranque del servicio.
func (s *Service) runEscalationSweep(ctx context.Context, userID string) {
	since := s.now().AddDate(0, 0, -escalationLookbackDays)

	recs, err := s.adherence.ListSince(ctx, userID, since, []adherence.Status{
		adherence.StatusMissed,
		adherence.StatusNotTakenAuto,
	})
	if err != nil {
		s.log.Warn("escalation sweep: adherence fetch failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}
	if len(recs) == 0 {
		return
	}

	// Días calendario distintos por medicamento, no cantidad de registros:
	// dos dosis perdidas el mismo día cuentan como un día.
	daysByMed := make(map[string]map[string]struct{})
	for _, rec := range recs {
		day := rec.ScheduledAt.Format("2006-01-02")
		if daysByMed[rec.MedicationID] == nil {
			daysByMed[rec.MedicationID] = make(map[string]struct{})
		}
		daysByMed[rec.MedicationID][day] = struct{}{}
	}

	var flagged []string
	for medID, days := range daysByMed {
		if len(days) >= escalationLookbackDays {
			flagged = append(flagged, medID)
		}
	}
	if len(flagged) == 0 {
		return
	}

	names := s.medicationNames(ctx, userID, flagged)

	cts, err := s.contacts.ListWithEmailByOwner(ctx, userID)
	if err != nil {
		s.log.Warn("escalation sweep: contacts fetch failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}
	if len(cts) == 0 || s.alerts == nil {
		s.log.Info("escalation detected but no alert recipients", map[string]any{
			"user_id":     userID,
			"medications": len(flagged),
		})
		return
	}

	sent := 0
	for _, medID := range flagged {
		name := names[medID]
		if name == "" {
			name = medID
		}
		subject := fmt.Sprintf("Dosis perdidas: %s", name)
		message := fmt.Sprintf(
			"Se detectaron dosis perdidas de %s en %d días distintos dentro de los últimos %d días.",
			name, escalationLookbackDays, escalationLookbackDays,
		)

		for _, c := range cts {
			if err := s.alerts.SendAlert(ctx, c.Email, subject, message); err != nil {
				s.log.Warn("escalation alert send failed", map[string]any{
					"contact_id": c.ID,
					"error":      err.Error(),
				})
				continue
			}
			sent++
		}
	}

	s.log.Info("escalation sweep done", map[string]any{
		"user_id":     userID,
		"medications": len(flagged),
		"alerts_sent": sent,
	})

	// Confirmación local para el propio usuario, best-effort.
	if s.platform != nil && sent > 0 {
		err := s.platform.Notify(ctx, userID, notify.Notification{
			Title: "Aviso enviado a tus contactos",
			Body:  fmt.Sprintf("Se avisó a tus contactos por dosis perdidas de: %s", strings.Join(flaggedNames(names, flagged), ", ")),
			Tag:   "escalation-" + userID,
		})
		if err != nil {
			s.log.Warn("escalation confirmation notification failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}
}

func (s *Service) medicationNames(ctx context.Context, userID string, ids []string) map[string]string {
	out := make(map[string]string, len(ids))

	meds, err := s.meds.ListByOwner(ctx, userID)
	if err != nil {
		return out
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for _, m := range meds {
		if _, ok := want[m.ID]; ok {
			out[m.ID] = m.Name
		}
	}
	return out
}

func flaggedNames(names map[string]string, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := names[id]; n != "" {
			out = append(out, n)
		} else {
			out = append(out, id)
		}
	}
	return out
}
