package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

const (
	EnvPrefix     = "LOGSIEVE_"
	EnvConfigFile = EnvPrefix + "CONFIG_FILE"
	EnvConfigDir  = EnvPrefix + "CONFIG_DIR"

	defaultConfigName = "logsieve.toml"
)

// Load builds the configuration from defaults, the config file, environment
// and CLI arguments, in increasing precedence.
func Load(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix(EnvPrefix).
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		// Missing config file is fine, defaults apply
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan("", finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	if err := validateConfig(finalConfig); err != nil {
		return nil, err
	}

	// Relative chains file is resolved against the config file location
	if !filepath.IsAbs(finalConfig.ChainsFile) {
		if _, statErr := os.Stat(configPath); statErr == nil {
			finalConfig.ChainsFile = filepath.Join(filepath.Dir(configPath), finalConfig.ChainsFile)
		}
	}

	return finalConfig, nil
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = EnvPrefix + env
	return env
}

// GetConfigPath resolves the config file from LOGSIEVE_CONFIG_FILE and
// LOGSIEVE_CONFIG_DIR, falling back to ./logsieve.toml.
func GetConfigPath() string {
	if configFile := os.Getenv(EnvConfigFile); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv(EnvConfigDir); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		return filepath.Join(configDir, defaultConfigName)
	}

	return defaultConfigName
}
