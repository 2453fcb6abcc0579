package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFormat   string `validate:"oneof=text json"`
	LogDir      string
	ServiceName string `validate:"required"`
	Version     string
	Environment string `validate:"required"`

	// Host bridge
	BridgeMode           string        `validate:"oneof=ws stub"`
	BridgeURL            string        `validate:"required_if=BridgeMode ws"`
	BridgeRequestTimeout time.Duration `validate:"gt=0"`

	// Crafting
	CraftTickInterval       time.Duration `validate:"gt=0"`
	CraftDefaultDuration    time.Duration `validate:"gt=0"`
	CraftMinHandoffDuration time.Duration `validate:"gte=0"`

	// Caches and workers
	CatalogMissingCacheSize int           `validate:"min=1"`
	CatalogMissingCacheTTL  time.Duration `validate:"gte=0"`
	WorkerPoolSize          int           `validate:"min=1"`
	WorkerQueueSize         int           `validate:"min=1"`

	// HTTP surface. An empty APIKey leaves the action routes open.
	APIKey         string
	TrustedProxies []string
	RateLimit      int           `validate:"min=1"`
	RateWindow     time.Duration `validate:"gt=0"`

	ImagePath       string
	HotbarAutoHide  time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		LogDir:      getEnv("LOG_DIR", ""),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),

		BridgeMode:           strings.ToLower(getEnv("BRIDGE_MODE", BridgeModeStub)),
		BridgeURL:            getEnv("BRIDGE_URL", ""),
		BridgeRequestTimeout: getEnvAsDuration("BRIDGE_REQUEST_TIMEOUT", DefaultBridgeRequestTimeout),

		CraftTickInterval:       getEnvAsDuration("CRAFT_TICK_INTERVAL", DefaultCraftTickInterval),
		CraftDefaultDuration:    getEnvAsDuration("CRAFT_DEFAULT_DURATION", DefaultCraftDuration),
		CraftMinHandoffDuration: getEnvAsDuration("CRAFT_MIN_HANDOFF_DURATION", DefaultCraftMinHandoff),

		CatalogMissingCacheSize: getEnvAsInt("CATALOG_MISSING_CACHE_SIZE", DefaultMissingCacheSize),
		CatalogMissingCacheTTL:  getEnvAsDuration("CATALOG_MISSING_CACHE_TTL", 0),
		WorkerPoolSize:          getEnvAsInt("WORKER_POOL_SIZE", DefaultWorkerPoolSize),
		WorkerQueueSize:         getEnvAsInt("WORKER_QUEUE_SIZE", DefaultWorkerQueueSize),

		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		RateLimit:      getEnvAsInt("RATE_LIMIT", DefaultRateLimit),
		RateWindow:     getEnvAsDuration("RATE_WINDOW", DefaultRateWindow),

		ImagePath:       getEnv("IMAGE_PATH", DefaultImagePath),
		HotbarAutoHide:  getEnvAsDuration("HOTBAR_AUTO_HIDE", DefaultHotbarAutoHide),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
	}

	portStr := getEnv("PORT", DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an integer environment variable or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnvAsDuration retrieves a duration environment variable or returns a default value.
// Bare integers are read as milliseconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
