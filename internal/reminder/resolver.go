package reminder

import (
	"context"
	"strings"

	"medication-reminder/internal/domain/medications"
	"medication-reminder/internal/domain/schedules"
	"medication-reminder/internal/platform/logger"
)

// Resolver decide qué dosis están vencidas "ahora mismo": horarios
// activos con TimeOfDay exacto, cruzados contra los medicamentos
// activos del usuario. El cruce es lo que aplica ownership: los
// horarios no llevan user id.
type Resolver struct {
	log  logger.Logger
	scs  *schedules.Service
	meds *medications.Service
}

func NewResolver(log logger.Logger, scs *schedules.Service, meds *medications.Service) *Resolver {
	return &Resolver{
		log:  log,
		scs:  scs,
		meds: meds,
	}
}

// DueAt devuelve los recordatorios vencidos para userID a timeOfDay
// ("HH:MM"). Nunca devuelve error: corre en un loop desatendido, así
// que cualquier fallo de lectura degrada a lista vacía con log.
func (r *Resolver) DueAt(ctx context.Context, userID, timeOfDay string) []DueReminder {
	userID = strings.TrimSpace(userID)
	if userID == "" || !schedules.ValidTimeOfDay(timeOfDay) {
		return []DueReminder{}
	}

	scs, err := r.scs.ListActiveAt(ctx, timeOfDay)
	if err != nil {
		r.log.Warn("schedule fetch failed, skipping tick", map[string]any{
			"time_of_day": timeOfDay,
			"error":       err.Error(),
		})
		return []DueReminder{}
	}
	if len(scs) == 0 {
		return []DueReminder{}
	}

	meds, err := r.meds.ListActiveByOwner(ctx, userID)
	if err != nil {
		r.log.Warn("medication fetch failed, skipping tick", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return []DueReminder{}
	}

	byID := make(map[string]medications.Medication, len(meds))
	for _, m := range meds {
		byID[m.ID] = m
	}

	// Dos horarios idénticos para el mismo medicamento producen dos
	// entradas: no se deduplica acá (es un tema de calidad de datos
	// del módulo de horarios, no del resolver).
	out := make([]DueReminder, 0, len(scs))
	for _, sc := range scs {
		m, ok := byID[sc.MedicationID]
		if !ok {
			continue
		}
		out = append(out, DueReminder{
			MedicationID: m.ID,
			ScheduleID:   sc.ID,
			Name:         m.Name,
			Dosage:       m.Dosage,
			Instructions: m.Instructions,
			TimeOfDay:    sc.TimeOfDay,
		})
	}

	return out
}
