package core

import (
	"fmt"
	"strings"
)

// Level is the severity of a log entry. Levels are ordered, LevelNone sorts
// below every real level.
type Level uint8

const (
	LevelNone Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{
	LevelNone:  "",
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and accepts the common aliases.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "trc":
		return LevelTrace, nil
	case "debug", "dbg":
		return LevelDebug, nil
	case "info", "inf", "information":
		return LevelInfo, nil
	case "warn", "warning", "wrn":
		return LevelWarn, nil
	case "error", "err", "fatal", "critical":
		return LevelError, nil
	case "":
		return LevelNone, nil
	default:
		return LevelNone, fmt.Errorf("unknown log level: %q", s)
	}
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("LEVEL(%d)", uint8(l))
}

func (l Level) MarshalText() ([]byte, error) {
	if int(l) >= len(levelNames) {
		return nil, fmt.Errorf("invalid log level: %d", uint8(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ExtractLevel sniffs a level marker such as "[ERROR]" or "WARN:" out of a raw
// log line. Returns LevelNone when nothing recognizable is found.
func ExtractLevel(line string) Level {
	patterns := []struct {
		patterns []string
		level    Level
	}{
		{[]string{"[ERROR]", "ERROR:", " ERROR ", "ERR:", "[ERR]", "FATAL:", "[FATAL]"}, LevelError},
		{[]string{"[WARN]", "WARN:", " WARN ", "WARNING:", "[WARNING]"}, LevelWarn},
		{[]string{"[INFO]", "INFO:", " INFO ", "[INF]", "INF:"}, LevelInfo},
		{[]string{"[DEBUG]", "DEBUG:", " DEBUG ", "[DBG]", "DBG:"}, LevelDebug},
		{[]string{"[TRACE]", "TRACE:", " TRACE "}, LevelTrace},
	}

	upperLine := strings.ToUpper(line)
	for _, group := range patterns {
		for _, pattern := range group.patterns {
			if strings.Contains(upperLine, pattern) {
				return group.level
			}
		}
	}

	return LevelNone
}
