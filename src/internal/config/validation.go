package config

import (
	"fmt"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// validateConfig checks the application configuration and fills defaults for
// optional sections left empty.
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := lconfig.NonEmpty(cfg.ChainsFile); err != nil {
		return fmt.Errorf("chains_file: %w", err)
	}

	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be positive: %d", cfg.Workers)
	}
	if cfg.BufferSize < 1 {
		return fmt.Errorf("buffer_size must be positive: %d", cfg.BufferSize)
	}

	if cfg.Logging == nil {
		cfg.Logging = DefaultLogConfig()
	}
	if err := validateLogConfig(cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if cfg.Status == nil {
		cfg.Status = defaults().Status
	}
	if err := validateStatusConfig(cfg.Status); err != nil {
		return fmt.Errorf("status config: %w", err)
	}

	return nil
}

func validateLogConfig(cfg *LogConfig) error {
	switch cfg.Output {
	case LogOutputNone, LogOutputStdout, LogOutputStderr, LogOutputSplit, LogOutputFile, LogOutputAll:
	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Output)
	}

	if _, err := LogLevel(cfg.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	if cfg.Output == LogOutputFile || cfg.Output == LogOutputAll {
		if cfg.File == nil {
			return fmt.Errorf("file output requires [logging.file]")
		}
		if err := lconfig.NonEmpty(cfg.File.Directory); err != nil {
			return fmt.Errorf("file.directory: %w", err)
		}
		if err := lconfig.NonEmpty(cfg.File.Name); err != nil {
			return fmt.Errorf("file.name: %w", err)
		}
	}

	if cfg.Console != nil {
		switch cfg.Console.Target {
		case LogOutputStdout, LogOutputStderr, LogOutputSplit:
		default:
			return fmt.Errorf("invalid console target: %s", cfg.Console.Target)
		}

		if f := cfg.Console.Format; f != "" && f != "txt" && f != "json" {
			return fmt.Errorf("invalid console format: %s", f)
		}
	}

	return nil
}

func validateStatusConfig(cfg *StatusConfig) error {
	if cfg.StatusPath == "" {
		cfg.StatusPath = "/status"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	if !cfg.Enabled {
		return nil
	}

	if err := lconfig.Port(cfg.Port); err != nil {
		return err
	}

	if cfg.Host != "" && cfg.Host != "0.0.0.0" {
		if err := lconfig.IPAddress(cfg.Host); err != nil {
			return err
		}
	}

	if !strings.HasPrefix(cfg.StatusPath, "/") || !strings.HasPrefix(cfg.MetricsPath, "/") {
		return fmt.Errorf("paths must start with /")
	}
	if cfg.StatusPath == cfg.MetricsPath {
		return fmt.Errorf("status_path and metrics_path must differ: %s", cfg.StatusPath)
	}

	return nil
}
