package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	CatalogSource    string
	CatalogTimeoutMs int
	CatalogRetries   int

	DBPath    string
	OutputDir string

	ServerHost        string
	ServerPort        int
	UploadMaxFileSize int64

	LogLevel  string
	LogFormat string

	PrimaryHeaderTokens []string
	TariffHeaderTokens  []string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		CatalogSource:    getEnv("CATALOG_SOURCE", filepath.Join(cwd, "data", "parts_db.xlsx")),
		CatalogTimeoutMs: getEnvInt("CATALOG_TIMEOUT_MS", 30000),
		CatalogRetries:   getEnvInt("CATALOG_RETRIES", 3),

		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		ServerHost:        getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:        getEnvInt("SERVER_PORT", 8080),
		UploadMaxFileSize: getEnvInt64("UPLOAD_MAX_FILE_SIZE", 50<<20),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		PrimaryHeaderTokens: getEnvList("PRIMARY_HEADER_TOKENS", []string{"PRIMARY", "PART"}),
		TariffHeaderTokens:  getEnvList("TARIFF_HEADER_TOKENS", []string{"TARIFF", "NUM"}),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.CatalogSource) == "" {
		errs = append(errs, "CATALOG_SOURCE must not be empty")
	}
	if c.CatalogTimeoutMs <= 0 {
		errs = append(errs, "CATALOG_TIMEOUT_MS must be positive")
	}
	if c.CatalogRetries < 1 {
		errs = append(errs, "CATALOG_RETRIES must be at least 1")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.ServerPort))
	}
	if c.UploadMaxFileSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if len(c.PrimaryHeaderTokens) == 0 {
		errs = append(errs, "PRIMARY_HEADER_TOKENS must list at least one token")
	}
	if len(c.TariffHeaderTokens) == 0 {
		errs = append(errs, "TARIFF_HEADER_TOKENS must list at least one token")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c Config) Addr() string {
	return c.ServerHost + ":" + strconv.Itoa(c.ServerPort)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvList splits a comma-separated value; tokens are trimmed and uppercased.
func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
