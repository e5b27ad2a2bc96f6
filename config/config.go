package config

// Config holds application configuration loaded once at startup.
// This is a simple way to make config accessible globally.
type Config struct {
	JWTSecret          string
	GeminiAPIKey       string
	ForecastServiceURL string
}

// AppConfig holds the application-wide configuration
var AppConfig Config
