package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks credentials in log values.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Credential pattern names.
const (
	PatternNVIDIAKey   = "nvidia_api_key"
	PatternOpenAIKey   = "openai_api_key"
	PatternBearerToken = "bearer_token"
)

// sensitiveKeys are attribute names whose values are always masked.
var sensitiveKeys = []string{
	"api_key", "apikey", "authorization", "token", "secret", "password",
}

// NewRedactor creates a Redactor for NVIDIA and OpenAI style keys and
// bearer credentials.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []redactPattern{
			{
				name:        PatternBearerToken,
				regex:       regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
				replacement: "Bearer ***",
			},
			{
				name:        PatternNVIDIAKey,
				regex:       regexp.MustCompile(`\bnvapi-[A-Za-z0-9_\-]+`),
				replacement: "nvapi-***",
			},
			{
				name:        PatternOpenAIKey,
				regex:       regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]+`),
				replacement: "sk-***",
			},
		},
	}
}

// RedactString masks every credential found in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// IsSensitiveKey reports whether an attribute name denotes a secret.
func (r *Redactor) IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook. Values of
// sensitive keys are replaced entirely; other string and error values have
// embedded credentials masked.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.SourceKey {
		return a
	}

	if r.IsSensitiveKey(a.Key) {
		if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
			return a
		}
		return slog.String(a.Key, "***")
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}

	return a
}
