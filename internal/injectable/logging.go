package injectable

import (
	"fmt"

	"github.com/bravo68web/gitapi/internal/config"
	"github.com/bravo68web/gitapi/internal/infrastructure/otel"
	"github.com/bravo68web/gitapi/pkg/logger"
)

// LoggerConfig maps the logging section onto the logger package
func LoggerConfig(cfg *config.Config) *logger.Config {
	out := logger.DefaultConfig()
	out.Level = cfg.Logging.Level
	out.Output = logger.OutputType(cfg.Logging.Output)
	out.Format = cfg.Logging.Format
	out.FilePath = cfg.Logging.FilePath
	out.Development = cfg.IsDevelopment()
	return out
}

// NewLogger builds the process logger. With OTEL export enabled the local
// core is tee'd into an OTLP exporter and the provider is closed with the logger.
func NewLogger(cfg *config.Config, serviceVersion string) (*logger.Logger, error) {
	logCfg := LoggerConfig(cfg)

	otelCfg := otel.FromAppConfig(cfg, serviceVersion)
	if !otelCfg.Enabled {
		return logger.New(logCfg)
	}

	local, err := localCore(logCfg)
	if err != nil {
		return nil, err
	}

	provider, err := otel.NewProvider(otelCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize otel provider: %w", err)
	}

	core := otel.NewCombinedCore(local.Core(), provider, logger.ParseLevel(logCfg.Level))
	return logger.NewWithCore(logCfg, core, local, provider), nil
}

// localCore returns the console or file logger the OTEL core is tee'd with
func localCore(logCfg *logger.Config) (*logger.Logger, error) {
	local := *logCfg
	if local.Output == logger.OutputOTEL {
		local.Output = logger.OutputConsole
	}
	return logger.New(&local)
}
