package reminder

import (
	"context"
	"testing"
	"time"

	"medication-reminder/internal/domain/adherence"
)

// testTracker arma un Tracker con el timer reemplazado por captura
// manual: los callbacks de expiración se disparan a mano desde el test,
// sin esperar los 5 minutos reales.
type testTracker struct {
	tracker *Tracker
	records *adherence.Service
	repo    *testAdherenceRepo

	expirations []func()
	refreshes   int
}

func newTestTracker(t *testing.T, now time.Time) *testTracker {
	t.Helper()

	tt := &testTracker{repo: newTestAdherenceRepo()}
	tt.records = adherence.NewService(tt.repo)
	tt.tracker = NewTracker(testLogger(), tt.records, func() { tt.refreshes++ })
	tt.tracker.now = func() time.Time { return now }
	tt.tracker.after = func(d time.Duration, f func()) *time.Timer {
		if d != ResponseWindow {
			t.Fatalf("expected %v response window, got %v", ResponseWindow, d)
		}
		tt.expirations = append(tt.expirations, f)
		// Timer inerte: nunca dispara solo; el test controla la expiración.
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		return timer
	}
	return tt
}

func (tt *testTracker) fireLast() {
	tt.expirations[len(tt.expirations)-1]()
}

func TestTracker_Expire_WritesNotTakenAuto(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	tt := newTestTracker(t, now)

	o := Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}
	tt.tracker.Arm("user-1", o, now)
	tt.fireLast()

	rec, err := tt.records.Get(context.Background(), "med-1", "user-1", now)
	if err != nil {
		t.Fatalf("expected record after expiry, got error: %v", err)
	}
	if rec.Status != adherence.StatusNotTakenAuto {
		t.Fatalf("expected not_taken_auto, got %s", rec.Status)
	}
	if rec.TakenAt != nil {
		t.Fatalf("expected TakenAt nil for auto-marked record")
	}
	if tt.tracker.Pending() != 0 {
		t.Fatalf("expected no pending windows after expiry")
	}
	if tt.refreshes != 1 {
		t.Fatalf("expected 1 refresh after auto-mark, got %d", tt.refreshes)
	}
}

func TestTracker_MarkTaken_BeatsTimeout(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	tt := newTestTracker(t, now)

	o := Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}
	tt.tracker.Arm("user-1", o, now)

	rec, err := tt.tracker.MarkTaken(context.Background(), "user-1", o, now)
	if err != nil {
		t.Fatalf("MarkTaken error: %v", err)
	}
	if rec.Status != adherence.StatusTaken {
		t.Fatalf("expected taken, got %s", rec.Status)
	}
	if tt.tracker.Pending() != 0 {
		t.Fatalf("expected window cancelled by MarkTaken")
	}

	// Carrera: el callback del timer ya estaba en vuelo cuando el
	// usuario marcó. La relectura + el guard de storage lo descartan.
	tt.fireLast()

	rec, err = tt.records.Get(context.Background(), "med-1", "user-1", now)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.Status != adherence.StatusTaken {
		t.Fatalf("timeout overwrote user action: got %s", rec.Status)
	}
}

func TestTracker_MarkMissed_IsTerminalAgainstTimeout(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	tt := newTestTracker(t, now)

	o := Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}
	tt.tracker.Arm("user-1", o, now)

	if _, err := tt.tracker.MarkMissed(context.Background(), "user-1", o, now); err != nil {
		t.Fatalf("MarkMissed error: %v", err)
	}

	tt.fireLast()

	rec, _ := tt.records.Get(context.Background(), "med-1", "user-1", now)
	if rec.Status != adherence.StatusMissed {
		t.Fatalf("expected missed preserved, got %s", rec.Status)
	}
}

func TestTracker_UserCorrectsAutoMark(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	tt := newTestTracker(t, now)

	o := Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}
	tt.tracker.Arm("user-1", o, now)
	tt.fireLast()

	// not_taken_auto no es terminal: el usuario puede corregirlo.
	rec, err := tt.tracker.MarkTaken(context.Background(), "user-1", o, now)
	if err != nil {
		t.Fatalf("MarkTaken after auto-mark error: %v", err)
	}
	if rec.Status != adherence.StatusTaken {
		t.Fatalf("expected correction to taken, got %s", rec.Status)
	}
}

func TestTracker_Rearm_ReplacesTimer(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	tt := newTestTracker(t, now)

	o := Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}
	tt.tracker.Arm("user-1", o, now)
	tt.tracker.Arm("user-1", o, now)

	if got := tt.tracker.Pending(); got != 1 {
		t.Fatalf("expected single window after re-arm, got %d", got)
	}
	if len(tt.expirations) != 2 {
		t.Fatalf("expected 2 created timers, got %d", len(tt.expirations))
	}
}

func TestTracker_CancelAll(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	tt := newTestTracker(t, now)

	tt.tracker.Arm("user-1", Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}, now)
	tt.tracker.Arm("user-1", Occurrence{MedicationID: "med-2", TimeOfDay: "08:00"}, now)
	tt.tracker.Arm("user-1", Occurrence{MedicationID: "med-1", TimeOfDay: "21:00"}, now)

	if got := tt.tracker.Pending(); got != 3 {
		t.Fatalf("expected 3 pending windows, got %d", got)
	}

	tt.tracker.CancelAll()
	if got := tt.tracker.Pending(); got != 0 {
		t.Fatalf("expected 0 pending after CancelAll, got %d", got)
	}
}

func TestTracker_Expire_WriteFailureIsSwallowed(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	tt := newTestTracker(t, now)
	tt.repo.err = errRepoNotFound

	o := Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}
	tt.tracker.Arm("user-1", o, now)

	// No debe entrar en pánico ni invocar refresh.
	tt.fireLast()

	if tt.refreshes != 0 {
		t.Fatalf("expected no refresh on failed auto-mark, got %d", tt.refreshes)
	}
}
