package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath       = "./dev.db"
	defaultPort         = "8080"
	defaultRatesPath    = "./config/rates.yml"
	defaultCalendarPath = "./config/calendar.yml"
	defaultEnvironment  = "development"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port         string
	DBPath       string
	RatesPath    string
	CalendarPath string
	Environment  string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = godotenv.Load()

	return Config{
		Port:         getenv("PORT", defaultPort),
		DBPath:       getenv("DB_PATH", defaultDBPath),
		RatesPath:    getenv("RATES_PATH", defaultRatesPath),
		CalendarPath: getenv("CALENDAR_PATH", defaultCalendarPath),
		Environment:  getenv("ENVIRONMENT", defaultEnvironment),
	}
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Environment == defaultEnvironment
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
