package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RedisAddr      string
	ModelDir       string
	AdvisorBaseURL string
	AdvisorAPIKey  string
	AdvisorModel   string
	Env            string
}

// LoadConfig reads the .env file and returns a Config struct.
func LoadConfig() *Config {
	// The .env file might not exist in production, which is fine.
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on system env variables")
	}

	return &Config{
		Port:           getEnv("PORT", "8000"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		ModelDir:       getEnv("MODEL_DIR", "./models"),
		AdvisorBaseURL: getEnv("ADVISOR_BASE_URL", ""),
		AdvisorAPIKey:  getEnv("ADVISOR_API_KEY", ""),
		AdvisorModel:   getEnv("ADVISOR_MODEL", ""),
		Env:            getEnv("ENV", "development"),
	}
}

// Helper to get env with a default fallback.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
