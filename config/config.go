package config

import (
	"os"
	"time"
)

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	JWTSecret        string
	GeminiAPIKey     string
	GeminiModel      string
	AnalyticsTimeout time.Duration
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Load populates AppConfig from environment variables and applies defaults
// for the optional settings.
func Load() {
	AppConfig.JWTSecret = os.Getenv("JWT_SECRET")
	AppConfig.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	AppConfig.GeminiModel = os.Getenv("GEMINI_MODEL")
	if AppConfig.GeminiModel == "" {
		AppConfig.GeminiModel = "gemini-1.5-pro"
	}

	AppConfig.AnalyticsTimeout = 15 * time.Second
	if raw := os.Getenv("ANALYTICS_AI_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			AppConfig.AnalyticsTimeout = d
		}
	}
}
