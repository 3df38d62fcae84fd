package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// BusinessProfile holds the issuing-business details used to seed the
// settings document and to render quote documents.
type BusinessProfile struct {
	BusinessName string `json:"business_name"`
	Owner        string `json:"owner"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
}

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DataFile           string
	UploadDir          string
	PublicDir          string
	CORSAllowedOrigins []string
	RateLimitPerMinute int64
	MaxUploadBytes     int64
	MaxUploadFiles     int
	PDFFontDir         string
	Business           BusinessProfile
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "3000"),
		DataFile:           valueOrDefault(k.String("DATA_FILE"), "data/business_data.json"),
		UploadDir:          valueOrDefault(k.String("UPLOAD_DIR"), "uploads"),
		PublicDir:          valueOrDefault(k.String("PUBLIC_DIR"), "public"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		RateLimitPerMinute: parseInt64(k.String("RATE_LIMIT_PER_MINUTE"), 300),
		MaxUploadBytes:     parseInt64(k.String("MAX_UPLOAD_BYTES"), 50<<20),
		MaxUploadFiles:     int(parseInt64(k.String("MAX_UPLOAD_FILES"), 10)),
		PDFFontDir:         strings.TrimSpace(k.String("QUOTE_PDF_FONT_DIR")),
		Business: BusinessProfile{
			BusinessName: valueOrDefault(k.String("BUSINESS_NAME"), "מאסטר קוד"),
			Owner:        valueOrDefault(k.String("BUSINESS_OWNER"), "יאיר"),
			Phone:        valueOrDefault(k.String("BUSINESS_PHONE"), "052-209-1733"),
			Email:        valueOrDefault(k.String("BUSINESS_EMAIL"), "przyyryair@gmail.com"),
			Website:      valueOrDefault(k.String("BUSINESS_WEBSITE"), "https://yairmaster.info"),
		},
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "3000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseInt64(value string, fallback int64) int64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(envVars map[string]string) (*Config, error) {
	original := make(map[string]string, len(envVars))
	for key := range envVars {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, envVars[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
