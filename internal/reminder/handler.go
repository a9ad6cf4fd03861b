package reminder

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"medication-reminder/internal/domain/adherence"
	"medication-reminder/internal/domain/medications"
	"medication-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medications.Service) {
	r.Route("/reminders", func(rr chi.Router) {
		// Ciclo de vida de la sesión de recordatorios.
		rr.Post("/service/start", startServiceHandler(svc))
		rr.Post("/service/stop", stopServiceHandler(svc))
		rr.Get("/service", serviceStatusHandler(svc))

		// Polling manual de la UI (el anuncio push sale igual por tick).
		rr.Get("/due", listDueHandler(svc))

		// Respuesta del usuario a una ocurrencia de hoy.
		rr.Post("/{medicationID}/taken", markHandler(svc, medsSvc, true))
		rr.Post("/{medicationID}/missed", markHandler(svc, medsSvc, false))
	})
}

type serviceStatusResponse struct {
	Running bool `json:"running"`
}

type dueReminderResponse struct {
	MedicationID string `json:"medication_id"`
	ScheduleID   string `json:"schedule_id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
	TimeOfDay    string `json:"time_of_day"`
}

type markRequest struct {
	TimeOfDay string `json:"time_of_day"` // "HH:MM" de la ocurrencia
}

type markResponse struct {
	MedicationID string           `json:"medication_id"`
	ScheduledAt  time.Time        `json:"scheduled_at"`
	Status       adherence.Status `json:"status"`
	TakenAt      *time.Time       `json:"taken_at,omitempty"`
}

func startServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// No-op si ya corre (incluso para el mismo usuario): una sola
		// sesión activa por proceso.
		svc.Start(r.Context(), claims.UserID)

		writeJSON(w, http.StatusOK, serviceStatusResponse{Running: svc.Running()})
	}
}

func stopServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		svc.Stop()

		writeJSON(w, http.StatusOK, serviceStatusResponse{Running: svc.Running()})
	}
}

func serviceStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, serviceStatusResponse{Running: svc.Running()})
	}
}

func listDueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		due := svc.DueNow(r.Context(), claims.UserID)

		out := make([]dueReminderResponse, 0, len(due))
		for _, d := range due {
			out = append(out, dueReminderResponse{
				MedicationID: d.MedicationID,
				ScheduleID:   d.ScheduleID,
				Name:         d.Name,
				Dosage:       d.Dosage,
				Instructions: d.Instructions,
				TimeOfDay:    d.TimeOfDay,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func markHandler(svc *Service, medsSvc *medications.Service, taken bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medicationID := chi.URLParam(r, "medicationID")

		// Ownership: nadie marca adherencia sobre medicación ajena.
		owner, err := medsSvc.OwnerOf(r.Context(), medicationID)
		if err != nil || owner != claims.UserID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		var req markRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var rec adherence.Record
		if taken {
			rec, err = svc.MarkTaken(r.Context(), claims.UserID, medicationID, req.TimeOfDay)
		} else {
			rec, err = svc.MarkMissed(r.Context(), claims.UserID, medicationID, req.TimeOfDay)
		}
		if err != nil {
			if err == adherence.ErrInvalidInput {
				http.Error(w, "time_of_day must be HH:MM (24h)", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, markResponse{
			MedicationID: rec.MedicationID,
			ScheduledAt:  rec.ScheduledAt,
			Status:       rec.Status,
			TakenAt:      rec.TakenAt,
		})
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
