package config

import (
	"os"
	"strings"
)

// Server captures runtime configuration for fitserver, read from the
// environment.
type Server struct {
	HTTPAddress  string
	DatabaseURL  string
	JWTSecret    string
	JWTIssuer    string
	KafkaBrokers []string
	KafkaTopic   string
	PhotoBaseURL string
}

// LoadServer reads environment variables into Server, applying defaults for
// local development.
func LoadServer() Server {
	return Server{
		HTTPAddress:  getEnv("HTTP_ADDRESS", ":8460"),
		DatabaseURL:  getEnv("DATABASE_URL", "sqlite://fitdeck.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:    getEnv("JWT_ISSUER", defaultJWTIssuer),
		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "fitdeck.mutations"),
		PhotoBaseURL: strings.TrimRight(getEnv("PHOTO_BASE_URL", ""), "/"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
