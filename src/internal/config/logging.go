package config

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/log"
)

// Log output modes for logsieve's own log. Filtered entries are written by
// the appenders and never mix with it unless both target the same stream.
const (
	LogOutputNone   = "none"
	LogOutputStdout = "stdout"
	LogOutputStderr = "stderr"
	LogOutputSplit  = "split" // info and debug to stdout, warn and error to stderr
	LogOutputFile   = "file"
	LogOutputAll    = "all" // file plus console target
)

// LogConfig is the [logging] section
type LogConfig struct {
	Output  string            `toml:"output"`
	Level   string            `toml:"level"`
	File    *LogFileConfig    `toml:"file"`
	Console *LogConsoleConfig `toml:"console"`
}

type LogFileConfig struct {
	Directory      string  `toml:"directory"`
	Name           string  `toml:"name"`
	MaxSizeMB      int64   `toml:"max_size_mb"`
	MaxTotalSizeMB int64   `toml:"max_total_size_mb"`
	RetentionHours float64 `toml:"retention_hours"` // 0 keeps files forever
}

type LogConsoleConfig struct {
	// Console stream for the "all" output: stdout, stderr or split
	Target string `toml:"target"`
	// "txt" or "json"
	Format string `toml:"format"`
}

// DefaultLogConfig logs to stderr, leaving stdout to the appenders.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Output: LogOutputStderr,
		Level:  "info",
		File: &LogFileConfig{
			Directory:      "./log",
			Name:           "logsieve",
			MaxSizeMB:      100,
			MaxTotalSizeMB: 1000,
			RetentionHours: 168,
		},
		Console: &LogConsoleConfig{
			Target: LogOutputStderr,
			Format: "txt",
		},
	}
}

// LogLevel maps a level name onto the log package's numeric level.
func LogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

// LoggerArgs translates the section into log package overrides for
// InitWithDefaults. Quiet turns every output off.
func (c *LogConfig) LoggerArgs(quiet bool) ([]string, error) {
	if quiet {
		return []string{"disable_file=true", "enable_stdout=false", "level=255"}, nil
	}

	level, err := LogLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	args := []string{fmt.Sprintf("level=%d", level)}

	switch c.Output {
	case LogOutputNone:
		args = append(args, "disable_file=true", "enable_stdout=false")
	case LogOutputStdout, LogOutputStderr, LogOutputSplit:
		args = append(args, "disable_file=true", "enable_stdout=true")
		args = append(args, consoleTarget(c.Output)...)
	case LogOutputFile:
		args = append(args, "enable_stdout=false")
		args = append(args, c.fileArgs()...)
	case LogOutputAll:
		target := LogOutputStderr
		if c.Console != nil && c.Console.Target != "" {
			target = c.Console.Target
		}
		args = append(args, "enable_stdout=true")
		args = append(args, c.fileArgs()...)
		args = append(args, consoleTarget(target)...)
	default:
		return nil, fmt.Errorf("invalid log output mode: %s", c.Output)
	}

	if c.Console != nil && c.Console.Format != "" {
		args = append(args, "format="+c.Console.Format)
	}
	return args, nil
}

func (c *LogConfig) fileArgs() []string {
	if c.File == nil {
		return nil
	}
	args := []string{
		"directory=" + c.File.Directory,
		"name=" + c.File.Name,
		fmt.Sprintf("max_size_mb=%d", c.File.MaxSizeMB),
		fmt.Sprintf("max_total_size_mb=%d", c.File.MaxTotalSizeMB),
	}
	if c.File.RetentionHours > 0 {
		args = append(args, fmt.Sprintf("retention_period_hrs=%.1f", c.File.RetentionHours))
	}
	return args
}

func consoleTarget(target string) []string {
	if target == LogOutputSplit {
		return []string{"stdout_split_mode=true", "stdout_target=split"}
	}
	return []string{"stdout_target=" + target}
}
