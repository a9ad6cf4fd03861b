package adherence

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medication-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Solo lectura: el marcado taken/missed vive en el módulo reminder,
// que además tiene que cancelar la ventana de respuesta en memoria.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/adherence", func(ar chi.Router) {
		ar.Get("/", listAdherenceHandler(svc))
		ar.Get("/history", listHistoryHandler(svc))
	})
}

type recordResponse struct {
	ID           string     `json:"id"`
	MedicationID string     `json:"medication_id"`
	UserID       string     `json:"user_id"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Status       Status     `json:"status"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func listAdherenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID, limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toRecordResponses(items))
	}
}

func listHistoryHandler(svc *Service) http.HandlerFunc {
	// /adherence/history?since=YYYY-MM-DD&status=missed&status=not_taken_auto
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()

		since := time.Now().AddDate(0, 0, -7)
		if v := strings.TrimSpace(q.Get("since")); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "since must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			since = t
		}

		var statuses []Status
		for _, v := range q["status"] {
			st := Status(strings.TrimSpace(v))
			if !ValidStatus(st) {
				http.Error(w, "invalid status filter", http.StatusBadRequest)
				return
			}
			statuses = append(statuses, st)
		}

		items, err := svc.ListSince(r.Context(), claims.UserID, since, statuses)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toRecordResponses(items))
	}
}

func toRecordResponses(items []Record) []recordResponse {
	out := make([]recordResponse, 0, len(items))
	for _, rec := range items {
		out = append(out, recordResponse{
			ID:           rec.ID,
			MedicationID: rec.MedicationID,
			UserID:       rec.UserID,
			ScheduledAt:  rec.ScheduledAt,
			Status:       rec.Status,
			TakenAt:      rec.TakenAt,
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		})
	}
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
