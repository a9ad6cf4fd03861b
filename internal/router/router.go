package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "medication-reminder/internal/adapters/storage/memory"
	pg "medication-reminder/internal/adapters/storage/postgres"
	"medication-reminder/internal/domain/adherence"
	"medication-reminder/internal/domain/assistant"
	"medication-reminder/internal/domain/contacts"
	"medication-reminder/internal/domain/devices"
	"medication-reminder/internal/domain/medications"
	"medication-reminder/internal/domain/schedules"
	"medication-reminder/internal/middleware"
	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/ports/ai"
	"medication-reminder/internal/ports/auth"
	"medication-reminder/internal/ports/notify"
	"medication-reminder/internal/reminder"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Log logger.Logger

	// Colaboradores externos. Cualquiera puede ser nil: el módulo que lo
	// necesita degrada (escalamiento solo loguea, asistente responde 502).
	Alerts    notify.AlertSender
	Assistant ai.Assistant

	// El notificador push necesita el servicio de devices para resolver
	// tokens, y ese servicio se construye acá. Por eso va como factory.
	PlatformFor func(tokens *devices.Service) notify.PlatformNotifier

	ReminderCallbacks reminder.Callbacks
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	var (
		medsRepo      medications.Repository
		schedulesRepo schedules.Repository
		adherenceRepo adherence.Repository
		contactsRepo  contacts.Repository
		devicesRepo   devices.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		medsRepo = pg.NewMedicationsRepo(db)
		schedulesRepo = pg.NewSchedulesRepo(db)
		adherenceRepo = pg.NewAdherenceRepo(db)
		contactsRepo = pg.NewContactsRepo(db)
		devicesRepo = pg.NewDevicesRepo(db)
	} else {
		medsRepo = mem.NewMedicationsRepo()
		schedulesRepo = mem.NewSchedulesRepo()
		adherenceRepo = mem.NewAdherenceRepo()
		contactsRepo = mem.NewContactsRepo()
		devicesRepo = mem.NewDevicesRepo()
	}

	// Services por módulo
	medsSvc := medications.NewService(medsRepo)
	schedulesSvc := schedules.NewService(schedulesRepo)
	adherenceSvc := adherence.NewService(adherenceRepo)
	contactsSvc := contacts.NewService(contactsRepo)
	devicesSvc := devices.NewService(devicesRepo)

	var platform notify.PlatformNotifier
	if opts.PlatformFor != nil {
		platform = opts.PlatformFor(devicesSvc)
	}

	reminderSvc := reminder.NewService(reminder.Options{
		Log:         log,
		Schedules:   schedulesSvc,
		Medications: medsSvc,
		Adherence:   adherenceSvc,
		Contacts:    contactsSvc,
		Alerts:      opts.Alerts,
		Platform:    platform,
		Callbacks:   opts.ReminderCallbacks,
	})

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc)
	schedules.RegisterRoutes(r, schedulesSvc, medsSvc)
	adherence.RegisterRoutes(r, adherenceSvc)
	contacts.RegisterRoutes(r, contactsSvc)
	devices.RegisterRoutes(r, devicesSvc)
	reminder.RegisterRoutes(r, reminderSvc, medsSvc)

	if opts.Assistant != nil {
		assistantSvc := assistant.NewService(medsSvc, opts.Assistant)
		assistant.RegisterRoutes(r, assistantSvc)
	}

	return r
}
