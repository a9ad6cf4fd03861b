package schedules

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"medication-reminder/internal/domain/medications"
	"medication-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medications.Service) {
	r.Route("/medications/{medicationID}/schedules", func(sr chi.Router) {
		sr.Post("/", createScheduleHandler(svc, medsSvc))
		sr.Get("/", listSchedulesHandler(svc, medsSvc))

		// PUT = reemplazo completo (flujo de edición de la UI).
		sr.Put("/", replaceSchedulesHandler(svc, medsSvc))
	})

	r.Delete("/schedules/{scheduleID}", deactivateScheduleHandler(svc, medsSvc))
}

type createScheduleRequest struct {
	TimeOfDay string `json:"time_of_day"` // "HH:MM"
}

type replaceSchedulesRequest struct {
	TimesOfDay []string `json:"times_of_day"`
}

type scheduleResponse struct {
	ID           string    `json:"id"`
	MedicationID string    `json:"medication_id"`
	TimeOfDay    string    `json:"time_of_day"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// requireOwnedMedication valida claims + ownership del medicamento.
// Los horarios no llevan user id; la autorización siempre pasa por acá.
func requireOwnedMedication(w http.ResponseWriter, r *http.Request, medsSvc *medications.Service, medicationID string) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}

	owner, err := medsSvc.OwnerOf(r.Context(), medicationID)
	if err != nil {
		http.Error(w, "medication not found", http.StatusNotFound)
		return "", false
	}
	if owner != claims.UserID {
		http.Error(w, "medication not found", http.StatusNotFound)
		return "", false
	}

	return claims.UserID, true
}

func createScheduleHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medicationID := chi.URLParam(r, "medicationID")
		if _, ok := requireOwnedMedication(w, r, medsSvc, medicationID); !ok {
			return
		}

		var req createScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sc, err := svc.Create(r.Context(), medicationID, req.TimeOfDay)
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, "time_of_day must be HH:MM (24h)", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toScheduleResponse(sc))
	}
}

func listSchedulesHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medicationID := chi.URLParam(r, "medicationID")
		if _, ok := requireOwnedMedication(w, r, medsSvc, medicationID); !ok {
			return
		}

		items, err := svc.ListByMedication(r.Context(), medicationID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]scheduleResponse, 0, len(items))
		for _, sc := range items {
			out = append(out, toScheduleResponse(sc))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func replaceSchedulesHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medicationID := chi.URLParam(r, "medicationID")
		if _, ok := requireOwnedMedication(w, r, medsSvc, medicationID); !ok {
			return
		}

		var req replaceSchedulesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		items, err := svc.ReplaceForMedication(r.Context(), medicationID, req.TimesOfDay)
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, "times_of_day must be HH:MM (24h)", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]scheduleResponse, 0, len(items))
		for _, sc := range items {
			out = append(out, toScheduleResponse(sc))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func deactivateScheduleHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "scheduleID")

		sc, err := svc.GetByID(r.Context(), scheduleID)
		if err != nil {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}

		if _, ok := requireOwnedMedication(w, r, medsSvc, sc.MedicationID); !ok {
			return
		}

		if err := svc.Deactivate(r.Context(), scheduleID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toScheduleResponse(s Schedule) scheduleResponse {
	return scheduleResponse{
		ID:           s.ID,
		MedicationID: s.MedicationID,
		TimeOfDay:    s.TimeOfDay,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
