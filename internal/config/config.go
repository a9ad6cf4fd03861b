package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Database (vacío => repos en memoria)
	DatabaseDSN string

	// Logging
	LogLevel  string
	LogFormat string
	AppName   string

	// Auth (vacío => modo dev con X-Debug-User-ID)
	AuthBaseURL string
	AuthAPIKey  string

	// SMTP para alertas a contactos familiares
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	// Firebase (vacío => notificaciones solo al log)
	FirebaseCredentialsPath string

	// Gemini para el asistente
	GoogleAPIKey string
	GeminiModel  string
}

func Load() (*Config, error) {
	// .env es opcional; si no existe se leen las variables del sistema.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),

		DatabaseDSN: os.Getenv("DB_DSN"),

		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),
		AppName:   getEnvWithDefault("APP_NAME", "medication-reminder"),

		AuthBaseURL: os.Getenv("AUTH_BASE_URL"),
		AuthAPIKey:  os.Getenv("AUTH_API_KEY"),

		SMTPHost:      getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  getEnvWithDefault("SMTP_FROM_NAME", "Recordatorio de Medicación"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),

		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:  getEnvWithDefault("GEMINI_MODEL", "gemini-2.5-flash"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	// SMTP es opcional, pero si arranca tiene que estar completo.
	if c.SMTPUsername != "" && strings.TrimSpace(c.SMTPFromEmail) == "" {
		return fmt.Errorf("SMTP_FROM_EMAIL is required when SMTP is configured")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intValue int
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}
