package bootstrap

import (
	"io"
	"log/slog"

	"github.com/osse101/InventoryHUD_Go/internal/config"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
)

// SetupLogger installs the default logger from cfg. With LOG_DIR set, output
// also goes to a rotated file in that directory. The returned closer must be
// closed on exit.
func SetupLogger(cfg *config.Config) io.Closer {
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	logCfg := logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, addSource)
	logCfg.LogDir = cfg.LogDir
	logCfg.MaxSizeMB = LogMaxSizeMB
	logCfg.MaxBackups = LogMaxBackups
	logCfg.MaxAgeDays = LogMaxAgeDays

	closer := logger.InitLogger(logCfg)

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel(), "log_dir", cfg.LogDir)
	slog.Info(LogMsgStartingHUD,
		"environment", cfg.Environment,
		"log_format", cfg.LogFormat,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"bridge_mode", cfg.BridgeMode,
		"bridge_url", cfg.BridgeURL,
		"worker_pool_size", cfg.WorkerPoolSize,
		"auth_enabled", cfg.APIKey != "")

	return closer
}
