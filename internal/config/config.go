package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration. It is built once at startup and
// passed by reference to every component that needs it; nothing reads the
// environment after Load returns.
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Primary storage. When empty the service looks at the hosted backend,
	// and failing that serves the embedded demo dataset.
	DatabaseURL string

	// Hosted backend collection API (optional).
	BackendBaseURL string
	BackendToken   string

	// External form-processing endpoint for contact submissions (optional).
	FormEndpointURL string
	FormSource      string

	// Fallback contact channels shown when the submission path is down.
	FallbackContactEmail string
	FallbackContactPhone string

	// Admin session gate.
	AdminJWTSecret  string
	AdminUsers      string
	AdminSessionTTL time.Duration

	// AI content generation (optional).
	GenAIAPIKey  string
	GenAIModelID string

	// Email notifications.
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string
	NotifyRecipients  []string

	// Lead export archival.
	AWSRegion     string
	ArchiveBucket string

	// Rate limiting. Redis is optional; without it the limiter is
	// process-local.
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool
	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		BackendBaseURL: getEnv("BACKEND_BASE_URL", ""),
		BackendToken:   getEnv("BACKEND_TOKEN", ""),

		FormEndpointURL: getEnv("FORM_ENDPOINT_URL", ""),
		FormSource:      getEnv("FORM_SOURCE", "Contact Form"),

		FallbackContactEmail: getEnv("FALLBACK_CONTACT_EMAIL", "hello@apexdigital.io"),
		FallbackContactPhone: getEnv("FALLBACK_CONTACT_PHONE", ""),

		AdminJWTSecret:  getEnv("ADMIN_JWT_SECRET", ""),
		AdminUsers:      getEnv("ADMIN_USERS", ""),
		AdminSessionTTL: getEnvAsDuration("ADMIN_SESSION_TTL", 12*time.Hour),

		GenAIAPIKey:  getEnv("GENAI_API_KEY", ""),
		GenAIModelID: getEnv("GENAI_MODEL_ID", "gemini-2.5-flash"),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Apex Digital"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "Apex Digital"),
		NotifyRecipients:  getEnvAsSlice("NOTIFY_RECIPIENTS"),

		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		ArchiveBucket: getEnv("ARCHIVE_BUCKET", ""),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable, dropping
// empty entries.
func getEnvAsSlice(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
