package source

import (
	"encoding/json"
	"strings"
	"time"

	"logsieve/src/internal/core"
)

// Keys recognised in JSON lines, first match wins
var (
	timeKeys    = []string{"time", "timestamp"}
	messageKeys = []string{"message", "msg"}
)

const (
	levelKey  = "level"
	sourceKey = "source"
)

// ParseLine converts one input line into an entry. A JSON object line maps
// its time, level, source and message keys onto the entry and keeps every
// other key in Fields. Anything else becomes the message verbatim with a
// level sniffed from its text.
func ParseLine(line, defaultSource string) core.LogEntry {
	entry := core.LogEntry{
		Time:    time.Now(),
		Source:  defaultSource,
		RawSize: int64(len(line)),
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			fillFromJSON(&entry, obj, line)
			return entry
		}
	}

	entry.Message = line
	entry.Level = core.ExtractLevel(line)
	return entry
}

func fillFromJSON(entry *core.LogEntry, obj map[string]json.RawMessage, line string) {
	if s, ok := takeString(obj, timeKeys...); ok {
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			entry.Time = ts
		}
	}

	if s, ok := takeString(obj, levelKey); ok {
		if level, err := core.ParseLevel(s); err == nil {
			entry.Level = level
		}
	}

	if s, ok := takeString(obj, sourceKey); ok && s != "" {
		entry.Source = s
	}

	if s, ok := takeString(obj, messageKeys...); ok {
		entry.Message = s
	} else {
		entry.Message = line
		if entry.Level == core.LevelNone {
			entry.Level = core.ExtractLevel(line)
		}
	}

	if len(obj) > 0 {
		// Map keys marshal sorted
		if fields, err := json.Marshal(obj); err == nil {
			entry.Fields = fields
		}
	}
}

// takeString removes the first of keys holding a JSON string and returns it.
// Keys holding other types are left in place.
func takeString(obj map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		delete(obj, key)
		return s, true
	}
	return "", false
}
