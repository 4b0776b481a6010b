package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"accesskey":       {},
	"access_key":      {},
	"accesskeyhash":   {},
	"access_key_hash": {},
	"password":        {},
	"filecontent":     {},
	"file_content":    {},
}

var (
	mu  sync.RWMutex
	log = newLogger(os.Stdout)
)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// SetOutput redirects log output, used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(w)
}

func Info(message string, fields Fields) {
	mu.RLock()
	l := log
	mu.RUnlock()
	l.Info().Fields(sanitizeFields(fields)).Msg(message)
}

func Error(message string, err error, fields Fields) {
	mu.RLock()
	l := log
	mu.RUnlock()
	ev := l.Error().Fields(sanitizeFields(fields))
	if err != nil {
		ev = ev.Str("error", err.Error())
	}
	ev.Msg(message)
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func sanitizeFields(fields Fields) map[string]any {
	if fields == nil {
		fields = Fields{}
	}

	sanitized, ok := SanitizePayload(fields).(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return sanitized
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
