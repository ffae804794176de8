package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is one decoded log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  []Field
	Raw     string
}

// Field is a structured key/value carried by an entry, in key order.
type Field struct {
	Key   string
	Value string
}

// reserved keys written by the zap encoder that are shown elsewhere.
var reserved = map[string]bool{
	"ts":     true,
	"level":  true,
	"msg":    true,
	"caller": true,
}

// Parse decodes a zap JSON line. Non-JSON input returns an Entry with only
// Raw set.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return Entry{Raw: line}
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return Entry{Raw: line}
	}

	e := Entry{Raw: line}
	if v, ok := payload["ts"].(string); ok {
		if ts, err := time.Parse("2006-01-02T15:04:05.000Z0700", v); err == nil {
			e.Time = ts
		} else if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			e.Time = ts
		}
	}
	if v, ok := payload["level"].(string); ok {
		e.Level = strings.ToUpper(v)
	}
	if v, ok := payload["msg"].(string); ok {
		e.Message = v
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.Fields = append(e.Fields, Field{Key: k, Value: formatValue(payload[k])})
	}
	return e
}

// IsStructured reports whether the line decoded as a log entry.
func (e Entry) IsStructured() bool {
	return e.Level != "" || e.Message != ""
}

// Field returns the value for key, if present.
func (e Entry) Field(key string) (string, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// String renders the entry as "15:04:05 LEVEL message key=value ...".
func (e Entry) String() string {
	if !e.IsStructured() {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", e.Level, e.Message)
	for _, f := range e.Fields {
		fmt.Fprintf(&b, " %s=%s", f.Key, f.Value)
	}
	return b.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case nil:
		return "null"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
