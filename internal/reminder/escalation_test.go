package reminder

import (
	"context"
	"testing"
	"time"

	"medication-reminder/internal/domain/adherence"
	"medication-reminder/internal/domain/contacts"
)

func seedContact(f *fixture, id, owner, email string) {
	f.contacts.byID[id] = contacts.Contact{
		ID:          id,
		OwnerUserID: owner,
		Name:        "Contacto " + id,
		Email:       email,
	}
}

func seedMissedRecord(f *fixture, medID, userID string, scheduledAt time.Time, st adherence.Status) {
	key := adherenceKey(medID, userID, scheduledAt)
	f.adherence.byKey[key] = adherence.Record{
		ID:           key,
		MedicationID: medID,
		UserID:       userID,
		ScheduledAt:  scheduledAt,
		Status:       st,
	}
}

func TestEscalationSweep_ThreeDistinctDays_SendsAlerts(t *testing.T) {
	now := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.seedMedication("med-1", "user-1", "Metformina", true)
	seedContact(f, "c-1", "user-1", "hija@example.com")
	seedContact(f, "c-2", "user-1", "hijo@example.com")
	seedContact(f, "c-3", "user-1", "") // sin email: no recibe

	// Tres días calendario distintos, mezcla de missed y not_taken_auto.
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -1), adherence.StatusMissed)
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -2), adherence.StatusNotTakenAuto)
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -3).Add(time.Hour), adherence.StatusMissed)

	f.svc.runEscalationSweep(context.Background(), "user-1")

	sent := f.alerts.all()
	if len(sent) != 2 {
		t.Fatalf("expected one alert per contact with email, got %d", len(sent))
	}
	for _, a := range sent {
		if a.To != "hija@example.com" && a.To != "hijo@example.com" {
			t.Fatalf("alert sent to unexpected recipient %q", a.To)
		}
	}

	// Confirmación local al propio usuario.
	if f.platform.count() != 1 {
		t.Fatalf("expected 1 confirmation notification, got %d", f.platform.count())
	}
}

func TestEscalationSweep_TwoDays_DoesNotEscalate(t *testing.T) {
	now := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.seedMedication("med-1", "user-1", "Metformina", true)
	seedContact(f, "c-1", "user-1", "hija@example.com")

	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -1), adherence.StatusMissed)
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -2), adherence.StatusMissed)

	f.svc.runEscalationSweep(context.Background(), "user-1")

	if got := len(f.alerts.all()); got != 0 {
		t.Fatalf("expected no alerts for 2 distinct days, got %d", got)
	}
	if f.platform.count() != 0 {
		t.Fatalf("expected no confirmation notification")
	}
}

func TestEscalationSweep_SameDayRecordsCountOnce(t *testing.T) {
	now := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.seedMedication("med-1", "user-1", "Metformina", true)
	seedContact(f, "c-1", "user-1", "hija@example.com")

	// Tres dosis perdidas pero en solo dos días calendario.
	day1 := now.AddDate(0, 0, -1)
	seedMissedRecord(f, "med-1", "user-1", day1, adherence.StatusMissed)
	seedMissedRecord(f, "med-1", "user-1", day1.Add(12*time.Hour), adherence.StatusMissed)
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -2), adherence.StatusMissed)

	f.svc.runEscalationSweep(context.Background(), "user-1")

	if got := len(f.alerts.all()); got != 0 {
		t.Fatalf("expected distinct-day counting, got %d alerts", got)
	}
}

func TestEscalationSweep_TakenRecordsAreIgnored(t *testing.T) {
	now := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.seedMedication("med-1", "user-1", "Metformina", true)
	seedContact(f, "c-1", "user-1", "hija@example.com")

	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -1), adherence.StatusTaken)
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -2), adherence.StatusTaken)
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -3).Add(time.Hour), adherence.StatusTaken)

	f.svc.runEscalationSweep(context.Background(), "user-1")

	if got := len(f.alerts.all()); got != 0 {
		t.Fatalf("expected taken records to be ignored, got %d alerts", got)
	}
}

func TestEscalationSweep_NoContacts_LogsAndContinues(t *testing.T) {
	now := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.seedMedication("med-1", "user-1", "Metformina", true)

	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -1), adherence.StatusMissed)
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -2), adherence.StatusMissed)
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -3).Add(time.Hour), adherence.StatusMissed)

	// Sin contactos: no hay destinatarios y no hay pánico.
	f.svc.runEscalationSweep(context.Background(), "user-1")

	if got := len(f.alerts.all()); got != 0 {
		t.Fatalf("expected no alerts without recipients, got %d", got)
	}
}

func TestEscalationSweep_SendFailureDoesNotAbort(t *testing.T) {
	now := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.seedMedication("med-1", "user-1", "Metformina", true)
	seedContact(f, "c-1", "user-1", "hija@example.com")
	f.alerts.err = errRepoNotFound

	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -1), adherence.StatusMissed)
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -2), adherence.StatusMissed)
	seedMissedRecord(f, "med-1", "user-1", now.AddDate(0, 0, -3).Add(time.Hour), adherence.StatusMissed)

	f.svc.runEscalationSweep(context.Background(), "user-1")

	// Falló el envío: sin confirmación local, pero el sweep terminó.
	if f.platform.count() != 0 {
		t.Fatalf("expected no confirmation when nothing was sent")
	}
}
