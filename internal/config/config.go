package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment names recognized in Env.
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the configuration settings for the back-office server.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port the HTTP server listens on.
// - MapsAPIKey: The Google Maps Platform key used by the mileage calculator.
// - JWTSecret: The secret used to sign dashboard session tokens.
// - WebhookSecret: The shared secret the form provider sends with webhook submissions.
// - AllowedOrigins: Origins permitted by the CORS policy.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env            string         // Env is the current environment: local, development, production.
	Port           int            // Port is the HTTP server port.
	MapsAPIKey     string         // API key for the Google geocoding and routing services.
	JWTSecret      string         // Secret for signing session tokens.
	WebhookSecret  string         // Shared secret for form-provider webhooks.
	MeasurementID  string         // Google Analytics measurement id for event forwarding.
	AnalyticsKey   string         // Google Analytics Measurement Protocol api_secret.
	AllowedOrigins []string       // Origins allowed by CORS.
	Database       PostgresConfig // Database holds the postgres database configuration.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad loads the configuration from the environment and returns a Config.
// It panics when a required value is missing or malformed: the mapping-service
// key and the token secret are validated here so a misconfigured process
// refuses to start instead of answering 500 on every calculator request.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("BACKOFFICE_PORT", "4000"))
	if err != nil {
		panic("failed to parse port for the HTTP server from configuration")
	}

	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if mapsKey == "" {
		panic("GOOGLE_MAPS_API_KEY is required for the mileage calculator")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		panic("JWT_SECRET is required for dashboard sessions")
	}

	origins := strings.Split(
		setDefaultEnv("BACKOFFICE_ALLOWED_ORIGINS", "http://localhost:3000"), ",",
	)
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		Env:            setDefaultEnv("BACKOFFICE_ENV", "production"),
		Port:           port,
		MapsAPIKey:     mapsKey,
		JWTSecret:      jwtSecret,
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		MeasurementID:  os.Getenv("MEASUREMENT_ID"),
		AnalyticsKey:   os.Getenv("API_SECRET"),
		AllowedOrigins: origins,
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     setDefaultEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
