// README: Config loader with env defaults for HTTP, Amadeus, Gemini, and the turn archive.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		// DSN left empty disables the conversation turn archive.
		DSN string
	}
	Amadeus struct {
		BaseURL   string
		APIKey    string
		APISecret string
	}
	AI struct {
		GeminiKey string
	}
}

func Load() (Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("SKYLANE_HTTP_ADDR", ":8080")
	cfg.DB.DSN = os.Getenv("SKYLANE_DB_DSN")
	cfg.Amadeus.BaseURL = envOrDefault("AMADEUS_BASE_URL", "https://test.api.amadeus.com")
	cfg.Amadeus.APIKey = envOrError("AMADEUS_API_KEY")
	cfg.Amadeus.APISecret = envOrError("AMADEUS_API_SECRET")
	cfg.AI.GeminiKey = envOrError("GEMINI_API_KEY")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrError(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	panic("environment variable " + key + " is required")
}
