package reminder

import (
	"context"
	"sync"
	"time"

	"medication-reminder/internal/domain/adherence"
	"medication-reminder/internal/platform/logger"
)

// ResponseWindow: cuánto espera el sistema una respuesta del usuario
// antes de auto-marcar la dosis como no tomada.
const ResponseWindow = 5 * time.Minute

const writeTimeout = 10 * time.Second

// timerKey identifica la ventana de respuesta pendiente de una
// ocurrencia: (usuario, medicamento, hora del día).
type timerKey struct {
	UserID string
	Occurrence
}

// Tracker es la máquina de estados de adherencia por ocurrencia:
// sin registro → respuesta pendiente → taken | missed | not_taken_auto.
// taken y missed los fija el usuario y son terminales; not_taken_auto
// lo fija el timeout y el usuario puede corregirlo después.
type Tracker struct {
	log     logger.Logger
	records *adherence.Service

	onRefresh func()

	// inyectables para tests
	now   func() time.Time
	after func(d time.Duration, f func()) *time.Timer

	mu     sync.Mutex
	timers map[timerKey]*time.Timer
}

func NewTracker(log logger.Logger, records *adherence.Service, onRefresh func()) *Tracker {
	return &Tracker{
		log:       log,
		records:   records,
		onRefresh: onRefresh,
		now:       time.Now,
		after:     time.AfterFunc,
		timers:    make(map[timerKey]*time.Timer),
	}
}

// Arm arma la ventana de respuesta de 5 minutos para la ocurrencia.
// Re-armar la misma clave cancela y reemplaza el timer anterior:
// nunca hay dos timers vivos para la misma ocurrencia.
func (t *Tracker) Arm(userID string, o Occurrence, scheduledAt time.Time) {
	key := timerKey{UserID: userID, Occurrence: o}

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.timers[key]; ok {
		prev.Stop()
	}
	t.timers[key] = t.after(ResponseWindow, func() {
		t.expire(key, scheduledAt)
	})
}

// expire corre cuando la ventana venció sin acción del usuario.
func (t *Tracker) expire(key timerKey, scheduledAt time.Time) {
	t.mu.Lock()
	delete(t.timers, key)
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	// Releer antes de escribir: si el usuario ya marcó taken/missed,
	// el timeout perdió la carrera y se descarta en silencio.
	rec, err := t.records.Get(ctx, key.MedicationID, key.UserID, scheduledAt)
	if err == nil && rec.Terminal() {
		return
	}

	// skipIfCompleted cierra la ventana residual de carrera en storage:
	// aunque el click del usuario entre entre el Get y este Upsert,
	// el estado terminal no se pisa.
	_, err = t.records.Upsert(ctx, adherence.UpsertInput{
		MedicationID:    key.MedicationID,
		UserID:          key.UserID,
		ScheduledAt:     scheduledAt,
		Status:          adherence.StatusNotTakenAuto,
		TakenAt:         nil,
		SkipIfCompleted: true,
	})
	if err != nil {
		t.log.Error("auto-mark write failed", map[string]any{
			"medication_id": key.MedicationID,
			"user_id":       key.UserID,
			"error":         err.Error(),
		})
		return
	}

	t.refresh()
}

// MarkTaken: el usuario tomó la dosis. Cancela el timer y registra
// taken con taken_at = ahora.
func (t *Tracker) MarkTaken(ctx context.Context, userID string, o Occurrence, scheduledAt time.Time) (adherence.Record, error) {
	t.cancel(timerKey{UserID: userID, Occurrence: o})

	rec, err := t.records.MarkTaken(ctx, o.MedicationID, userID, scheduledAt)
	if err != nil {
		return adherence.Record{}, err
	}

	t.refresh()
	return rec, nil
}

// MarkMissed: el usuario indicó que salteó la dosis (taken_at = null).
func (t *Tracker) MarkMissed(ctx context.Context, userID string, o Occurrence, scheduledAt time.Time) (adherence.Record, error) {
	t.cancel(timerKey{UserID: userID, Occurrence: o})

	rec, err := t.records.MarkMissed(ctx, o.MedicationID, userID, scheduledAt)
	if err != nil {
		return adherence.Record{}, err
	}

	t.refresh()
	return rec, nil
}

func (t *Tracker) cancel(key timerKey) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[key]; ok {
		timer.Stop()
		delete(t.timers, key)
	}
}

// CancelAll cancela toda ventana pendiente. Se usa al parar el servicio:
// ningún timer huérfano puede disparar después.
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, timer := range t.timers {
		timer.Stop()
		delete(t.timers, key)
	}
}

// Pending devuelve cuántas ventanas siguen armadas.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}

func (t *Tracker) refresh() {
	if t.onRefresh != nil {
		t.onRefresh()
	}
}
