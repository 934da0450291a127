package logger

import (
	"log/slog"
	"strings"
)

// Well-known credential prefixes. Values starting with one are partially
// masked wherever they appear.
var sensitiveValuePrefixes = []string{
	"ghp_",        // GitHub personal access token
	"github_pat_", // GitHub fine-grained token
	"glpat-",      // GitLab personal access token
	"xoxb-",       // Slack bot token
	"sk-",         // generic API secret keys
}

// Key fragments whose values are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"apikey",
	"api_key",
	"credential",
	"auth",
	"dsn",
}

const redactedValue = "***REDACTED***"

// redactSensitive masks string values that look like credentials or sit
// under a sensitive key. Groups are walked recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if prefix, ok := sensitivePrefix(v); ok {
			return slog.String(a.Key, maskValue(v, prefix))
		}
		if v != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

func sensitivePrefix(v string) (string, bool) {
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(v, prefix) {
			return prefix, true
		}
	}
	return "", false
}

// maskValue keeps the prefix and three characters at each end of the body.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// RedactString masks value if it carries a known credential prefix.
func RedactString(value string) string {
	if prefix, ok := sensitivePrefix(value); ok {
		return maskValue(value, prefix)
	}
	return value
}

// RedactMap returns a copy of m with values under sensitive keys replaced
// and credential-looking values masked.
func RedactMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch {
		case IsSensitiveKey(k) && v != "":
			out[k] = redactedValue
		default:
			out[k] = RedactString(v)
		}
	}
	return out
}

// IsSensitiveKey reports whether a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value carries a known credential prefix.
func IsSensitiveValue(value string) bool {
	_, ok := sensitivePrefix(value)
	return ok
}
