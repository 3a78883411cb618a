package config

// Config is the application configuration of logsieve
type Config struct {
	// Chains document declaring appenders and their filters
	ChainsFile string `toml:"chains_file"`

	// Fail on any invalid filter instead of skipping it
	Strict bool `toml:"strict"`

	// Goroutines evaluating entries against the chains
	Workers int64 `toml:"workers"`

	// Per-component channel buffer size
	BufferSize int64 `toml:"buffer_size"`

	Status *StatusConfig `toml:"status"`

	Logging *LogConfig `toml:"logging"`
}

// StatusConfig controls the HTTP status and metrics endpoint
type StatusConfig struct {
	Enabled     bool   `toml:"enabled"`
	Host        string `toml:"host"`
	Port        int64  `toml:"port"`
	StatusPath  string `toml:"status_path"`
	MetricsPath string `toml:"metrics_path"`
}

func defaults() *Config {
	return &Config{
		ChainsFile: "chains.toml",
		Strict:     true,
		Workers:    1,
		BufferSize: 1000,
		Status: &StatusConfig{
			Enabled:     false,
			Host:        "127.0.0.1",
			Port:        9470,
			StatusPath:  "/status",
			MetricsPath: "/metrics",
		},
		Logging: DefaultLogConfig(),
	}
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return defaults()
}
