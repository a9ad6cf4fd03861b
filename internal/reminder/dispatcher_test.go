package reminder

import (
	"testing"
	"time"
)

func TestDedupSet_MarkIfNew_SuppressesWithinWindow(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	d := newDedupSet()
	d.now = func() time.Time { return now }

	o := Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}

	if !d.MarkIfNew(o) {
		t.Fatalf("first mark should be new")
	}
	if d.MarkIfNew(o) {
		t.Fatalf("second mark within window should be suppressed")
	}

	// 60s después (evaluación del tick siguiente): todavía dentro de
	// la ventana de 61s.
	now = now.Add(60 * time.Second)
	if d.MarkIfNew(o) {
		t.Fatalf("mark at +60s should still be suppressed")
	}
}

func TestDedupSet_MarkIfNew_ExpiresAfterWindow(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	d := newDedupSet()
	d.now = func() time.Time { return now }

	o := Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}
	d.MarkIfNew(o)

	now = now.Add(dedupWindow)
	if !d.MarkIfNew(o) {
		t.Fatalf("mark after window should count as new occurrence")
	}
}

func TestDedupSet_DifferentOccurrencesAreIndependent(t *testing.T) {
	d := newDedupSet()

	a := Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}
	b := Occurrence{MedicationID: "med-2", TimeOfDay: "08:00"}
	c := Occurrence{MedicationID: "med-1", TimeOfDay: "21:00"}

	if !d.MarkIfNew(a) || !d.MarkIfNew(b) || !d.MarkIfNew(c) {
		t.Fatalf("distinct occurrences should all be new")
	}
}

func TestDedupSet_PrunesExpiredEntries(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	d := newDedupSet()
	d.now = func() time.Time { return now }

	d.MarkIfNew(Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"})
	d.MarkIfNew(Occurrence{MedicationID: "med-2", TimeOfDay: "08:00"})

	now = now.Add(2 * dedupWindow)
	d.MarkIfNew(Occurrence{MedicationID: "med-3", TimeOfDay: "08:02"})

	if got := d.Len(); got != 1 {
		t.Fatalf("expected expired entries pruned, got %d", got)
	}
}

func TestDedupSet_Clear(t *testing.T) {
	d := newDedupSet()
	d.MarkIfNew(Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"})
	d.Clear()

	if got := d.Len(); got != 0 {
		t.Fatalf("expected empty set after Clear, got %d", got)
	}
	if !d.MarkIfNew(Occurrence{MedicationID: "med-1", TimeOfDay: "08:00"}) {
		t.Fatalf("mark after Clear should be new")
	}
}
