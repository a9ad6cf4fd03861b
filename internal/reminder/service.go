package reminder

import (
	"context"
	"strings"
	"sync"
	"time"

	"medication-reminder/internal/domain/adherence"
	"medication-reminder/internal/domain/contacts"
	"medication-reminder/internal/domain/medications"
	"medication-reminder/internal/domain/schedules"
	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/ports/notify"
)

const checkTimeout = 15 * time.Second

// Callbacks son los hooks de la superficie de UI. Van por constructor
// (no registros globales mutables) para que sesiones concurrentes en
// tests no se pisen entre sí. Una instancia de Service = una sesión
// activa; es una limitación conocida, no un defecto.
type Callbacks struct {
	// OnReminderDue recibe cada recordatorio vencido recién anunciado.
	// Si es nil, se cae al notificador de plataforma.
	OnReminderDue func(DueReminder)

	// OnRefresh se invoca tras cada escritura de adherencia y cada
	// anuncio, para que las vistas dependientes re-consulten.
	OnRefresh func()
}

type Options struct {
	Log logger.Logger

	Schedules   *schedules.Service
	Medications *medications.Service
	Adherence   *adherence.Service
	Contacts    *contacts.Service

	Alerts   notify.AlertSender      // puede ser nil: escalamiento solo loguea
	Platform notify.PlatformNotifier // puede ser nil: fallback silencioso

	Callbacks Callbacks
}

// Service ata el reloj, el resolver, el dedup y el tracker a una sesión
// de usuario, y garantiza teardown limpio: Stop no deja ningún timer
// vivo.
type Service struct {
	log logger.Logger

	resolver *Resolver
	tracker  *Tracker
	clock    *Clock
	dedup    *dedupSet

	meds      *medications.Service
	adherence *adherence.Service
	contacts  *contacts.Service

	alerts   notify.AlertSender
	platform notify.PlatformNotifier
	cbs      Callbacks

	now func() time.Time

	mu      sync.Mutex
	running bool
	userID  string
}

func NewService(opts Options) *Service {
	s := &Service{
		log:       opts.Log,
		clock:     NewClock(),
		dedup:     newDedupSet(),
		meds:      opts.Medications,
		adherence: opts.Adherence,
		contacts:  opts.Contacts,
		alerts:    opts.Alerts,
		platform:  opts.Platform,
		cbs:       opts.Callbacks,
		now:       time.Now,
	}
	s.resolver = NewResolver(opts.Log, opts.Schedules, opts.Medications)
	s.tracker = NewTracker(opts.Log, opts.Adherence, s.refresh)
	return s
}

// Start arranca el servicio para un usuario: un sweep de escalamiento,
// y el reloj por minuto (que incluye la evaluación inmediata). No-op si
// ya corre para una sesión.
func (s *Service) Start(ctx context.Context, userID string) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.userID = userID
	s.mu.Unlock()

	s.log.Info("reminder service started", map[string]any{"user_id": userID})

	// Solo una vez por Start, no en cada tick. Limitación conocida:
	// una sesión que dura días no vuelve a barrer.
	s.runEscalationSweep(ctx, userID)

	s.clock.Start(s.checkAndNotify)
}

// Stop para el reloj, vacía el dedup y cancela toda ventana de
// respuesta pendiente. Seguro de llamar cuando no corre.
func (s *Service) Stop() {
	s.mu.Lock()
	wasRunning := s.running
	s.running = false
	s.userID = ""
	s.mu.Unlock()

	s.clock.Stop()
	s.dedup.Clear()
	s.tracker.CancelAll()

	if wasRunning {
		s.log.Info("reminder service stopped", nil)
	}
}

func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// DueNow expone la evaluación del resolver para la UI (polling manual).
func (s *Service) DueNow(ctx context.Context, userID string) []DueReminder {
	return s.resolver.DueAt(ctx, userID, TimeOfDay(s.now()))
}

// MarkTaken marca la ocurrencia de hoy como tomada y cancela su timer.
func (s *Service) MarkTaken(ctx context.Context, userID, medicationID, timeOfDay string) (adherence.Record, error) {
	if !schedules.ValidTimeOfDay(timeOfDay) {
		return adherence.Record{}, adherence.ErrInvalidInput
	}
	o := Occurrence{MedicationID: medicationID, TimeOfDay: timeOfDay}
	return s.tracker.MarkTaken(ctx, userID, o, ScheduledAtFor(s.now(), timeOfDay))
}

// MarkMissed marca la ocurrencia de hoy como salteada y cancela su timer.
func (s *Service) MarkMissed(ctx context.Context, userID, medicationID, timeOfDay string) (adherence.Record, error) {
	if !schedules.ValidTimeOfDay(timeOfDay) {
		return adherence.Record{}, adherence.ErrInvalidInput
	}
	o := Occurrence{MedicationID: medicationID, TimeOfDay: timeOfDay}
	return s.tracker.MarkMissed(ctx, userID, o, ScheduledAtFor(s.now(), timeOfDay))
}

// checkAndNotify es el cuerpo del tick: resolver → dedup → anuncio →
// armar ventana → refresh. Las evaluaciones pueden solaparse entre
// ticks; el dedup (no la serialización) garantiza anuncio único.
func (s *Service) checkAndNotify() {
	s.mu.Lock()
	userID := s.userID
	running := s.running
	s.mu.Unlock()

	if !running || userID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	now := s.now()
	due := s.resolver.DueAt(ctx, userID, TimeOfDay(now))

	for _, d := range due {
		if !s.dedup.MarkIfNew(d.Occurrence()) {
			continue
		}

		s.announce(userID, d)
		s.tracker.Arm(userID, d.Occurrence(), ScheduledAtFor(now, d.TimeOfDay))
		s.refresh()
	}
}

// announce entrega el recordatorio: callback de UI si hay, si no push
// de plataforma. Fire-and-forget: no bloquea el tick, errores al log.
func (s *Service) announce(userID string, d DueReminder) {
	if s.cbs.OnReminderDue != nil {
		go s.cbs.OnReminderDue(d)
		return
	}

	if s.platform == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		err := s.platform.Notify(ctx, userID, notify.Notification{
			Title: "Hora de tu medicación",
			Body:  d.Name + " — " + d.Dosage,
			Tag:   "reminder-" + d.MedicationID + "-" + d.TimeOfDay,
		})
		if err != nil {
			s.log.Warn("platform notification failed", map[string]any{
				"medication_id": d.MedicationID,
				"error":         err.Error(),
			})
		}
	}()
}

func (s *Service) refresh() {
	if s.cbs.OnRefresh != nil {
		s.cbs.OnRefresh()
	}
}
