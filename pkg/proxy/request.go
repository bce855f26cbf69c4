package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"nimproxy/pkg/proxy/types"
)

const (
	// DefaultMaxRequestBodySize is the default request body limit (50MB).
	DefaultMaxRequestBodySize = 50 * 1024 * 1024

	// AuthorizationHeader is the HTTP header carrying the caller credential.
	AuthorizationHeader = "Authorization"

	bearerPrefix = "Bearer "
	formMedia    = "application/x-www-form-urlencoded"
)

// formMessageKey matches bracket-notation message fields such as
// messages[0][content].
var formMessageKey = regexp.MustCompile(`^messages\[(\d+)\]\[(role|content)\]$`)

// ExtractAPIKey extracts the caller credential from the Authorization header.
// A leading "Bearer " is stripped and whatever remains is returned as is.
// An empty string means the caller supplied no credential.
func ExtractAPIKey(r *http.Request) string {
	authHeader := r.Header.Get(AuthorizationHeader)
	if authHeader == "" {
		return ""
	}
	return strings.TrimPrefix(authHeader, bearerPrefix)
}

// ResolveAPIKey returns the caller credential, falling back to defaultKey.
// The caller credential always takes precedence when present.
func ResolveAPIKey(r *http.Request, defaultKey string) string {
	if key := ExtractAPIKey(r); key != "" {
		return key
	}
	return defaultKey
}

// ParseChatCompletionRequest reads and decodes a chat completion request body.
// JSON and form-encoded bodies are accepted. Bodies larger than maxBodySize
// are rejected; a non-positive maxBodySize selects DefaultMaxRequestBodySize.
//
// An empty body decodes to an empty request, which later fails message
// validation rather than JSON parsing.
func ParseChatCompletionRequest(r *http.Request, maxBodySize int64) (*types.ChatCompletionRequest, error) {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxRequestBodySize
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	if int64(len(body)) > maxBodySize {
		return nil, &RequestError{
			Message:    fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBodySize),
			Code:       types.CodeRequestTooLarge,
			StatusCode: http.StatusRequestEntityTooLarge,
		}
	}

	if isFormRequest(r) {
		return parseFormBody(body)
	}

	var req types.ChatCompletionRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return &req, nil
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &RequestError{
			Message:    fmt.Sprintf("invalid JSON: %v", err),
			StatusCode: http.StatusBadRequest,
		}
	}

	return &req, nil
}

// DecodeMessages validates that raw is a JSON array and decodes its elements.
// Message content must be a string, null, or an array of content parts.
func DecodeMessages(raw json.RawMessage) ([]types.Message, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidMessages
	}

	var messages []types.Message
	if err := json.Unmarshal(trimmed, &messages); err != nil {
		return nil, ErrInvalidMessages
	}

	for i, msg := range messages {
		switch msg.Content.(type) {
		case nil, string, []interface{}:
		default:
			return nil, &RequestError{
				Message:    fmt.Sprintf("messages[%d].content must be a string or an array of content parts", i),
				StatusCode: http.StatusBadRequest,
			}
		}
	}

	return messages, nil
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == formMedia
}

// parseFormBody decodes a form-encoded request body. Messages use bracket
// notation (messages[0][role]=user&messages[0][content]=hi); the remaining
// options are scalar fields.
func parseFormBody(body []byte) (*types.ChatCompletionRequest, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, &RequestError{
			Message:    fmt.Sprintf("invalid form body: %v", err),
			StatusCode: http.StatusBadRequest,
		}
	}

	var req types.ChatCompletionRequest

	byIndex := make(map[int]*types.Message)
	for key, vals := range values {
		m := formMessageKey.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		msg, ok := byIndex[idx]
		if !ok {
			msg = &types.Message{}
			byIndex[idx] = msg
		}
		if m[2] == "role" {
			msg.Role = vals[0]
		} else {
			msg.Content = vals[0]
		}
	}

	if len(byIndex) > 0 {
		indices := make([]int, 0, len(byIndex))
		for idx := range byIndex {
			indices = append(indices, idx)
		}
		sort.Ints(indices)

		messages := make([]types.Message, 0, len(indices))
		for _, idx := range indices {
			messages = append(messages, *byIndex[idx])
		}
		raw, err := json.Marshal(messages)
		if err != nil {
			return nil, fmt.Errorf("failed to encode form messages: %w", err)
		}
		req.Messages = raw
	}

	if values.Has("model") {
		v := values.Get("model")
		req.Model = &v
	}
	if req.Temperature, err = formFloat(values, "temperature"); err != nil {
		return nil, err
	}
	if req.TopP, err = formFloat(values, "top_p"); err != nil {
		return nil, err
	}
	if req.FrequencyPenalty, err = formFloat(values, "frequency_penalty"); err != nil {
		return nil, err
	}
	if req.PresencePenalty, err = formFloat(values, "presence_penalty"); err != nil {
		return nil, err
	}
	if v := values.Get("max_tokens"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, invalidFormField("max_tokens", v)
		}
		req.MaxTokens = &n
	}
	if v := values.Get("stream"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, invalidFormField("stream", v)
		}
		req.Stream = &b
	}

	return &req, nil
}

func formFloat(values url.Values, field string) (*float64, error) {
	v := values.Get(field)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, invalidFormField(field, v)
	}
	return &f, nil
}

func invalidFormField(field, value string) *RequestError {
	return &RequestError{
		Message:    fmt.Sprintf("invalid value %q for field %q", value, field),
		StatusCode: http.StatusBadRequest,
	}
}

// RequestError represents a request parsing or validation error.
type RequestError struct {
	Message    string
	Code       string
	StatusCode int
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ToErrorResponse converts a RequestError to the normalized error shape.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	return types.NewInvalidRequestError(e.Message, e.Code)
}

// Sentinel validation errors.
var (
	// ErrMissingAPIKey is returned when no credential can be resolved.
	ErrMissingAPIKey = &RequestError{
		Message:    types.MessageNoAPIKey,
		Code:       types.CodeInvalidAPIKey,
		StatusCode: http.StatusUnauthorized,
	}

	// ErrInvalidMessages is returned when messages is absent or not an array.
	ErrInvalidMessages = &RequestError{
		Message:    types.MessageInvalidMessages,
		StatusCode: http.StatusBadRequest,
	}
)
