package proxy

import (
	"net/http"
	"regexp"
	"strings"

	"nimproxy/pkg/proxy/types"
)

// Option defaults applied when the caller omits a field.
const (
	DefaultModel            = "meta/llama-3.1-8b-instruct"
	DefaultTemperature      = 0.7
	DefaultMaxTokens        = 1024
	DefaultStream           = false
	DefaultTopP             = 1.0
	DefaultFrequencyPenalty = 0.0
	DefaultPresencePenalty  = 0.0
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	newlineRunPattern = regexp.MustCompile(`\n{3,}`)
	collapsedNewlines = "\n\n"
)

// Options is the complete set of recognized chat-completion options.
//
//   - Model: upstream model id, default DefaultModel (or the configured default)
//   - Temperature: default 0.7
//   - MaxTokens: default 1024
//   - Stream: default false
//   - TopP: default 1
//   - FrequencyPenalty: default 0, accepted but not forwarded
//   - PresencePenalty: default 0, accepted but not forwarded
type Options struct {
	Model            string
	Temperature      float64
	MaxTokens        int
	Stream           bool
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Defaults returns the default options. An empty model selects DefaultModel.
func Defaults(model string) Options {
	if model == "" {
		model = DefaultModel
	}
	return Options{
		Model:            model,
		Temperature:      DefaultTemperature,
		MaxTokens:        DefaultMaxTokens,
		Stream:           DefaultStream,
		TopP:             DefaultTopP,
		FrequencyPenalty: DefaultFrequencyPenalty,
		PresencePenalty:  DefaultPresencePenalty,
	}
}

// MergeOptions overlays the options present in req onto defaults.
// Fields the caller omitted (or sent as null) keep their default value.
// A present value is used as is, including an empty model.
func MergeOptions(req *types.ChatCompletionRequest, defaults Options) Options {
	opts := defaults
	if req == nil {
		return opts
	}

	if req.Model != nil {
		opts.Model = *req.Model
	}
	if req.Temperature != nil {
		opts.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		opts.MaxTokens = *req.MaxTokens
	}
	if req.Stream != nil {
		opts.Stream = *req.Stream
	}
	if req.TopP != nil {
		opts.TopP = *req.TopP
	}
	if req.FrequencyPenalty != nil {
		opts.FrequencyPenalty = *req.FrequencyPenalty
	}
	if req.PresencePenalty != nil {
		opts.PresencePenalty = *req.PresencePenalty
	}

	return opts
}

// CleanContent strips HTML-like tags, collapses runs of three or more
// newlines to two, and trims surrounding whitespace.
func CleanContent(content string) string {
	content = htmlTagPattern.ReplaceAllString(content, "")
	content = newlineRunPattern.ReplaceAllString(content, collapsedNewlines)
	return strings.TrimSpace(content)
}

// CleanMessages cleans every message and drops those whose cleaned content
// is empty. The relative order of the remaining messages is preserved.
func CleanMessages(messages []types.Message) []types.UpstreamMessage {
	cleaned := make([]types.UpstreamMessage, 0, len(messages))
	for _, msg := range messages {
		content := CleanContent(MessageText(msg.Content))
		if len(content) == 0 {
			continue
		}
		cleaned = append(cleaned, types.UpstreamMessage{
			Role:    msg.Role,
			Content: content,
		})
	}
	return cleaned
}

// MessageText converts message content to plain text.
// Handles string content, null, and arrays of content parts; for arrays the
// text parts are joined with a single space and other parts are skipped.
// Any other content yields the empty string.
func MessageText(content interface{}) string {
	switch c := content.(type) {
	case nil:
		return ""
	case string:
		return c
	case []interface{}:
		var parts []string
		for _, part := range c {
			partMap, ok := part.(map[string]interface{})
			if !ok {
				continue
			}
			if partType, _ := partMap["type"].(string); partType != "text" {
				continue
			}
			if text, ok := partMap["text"].(string); ok {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// BuildUpstreamRequest assembles the outgoing payload. Penalty options are
// not part of the upstream payload.
func BuildUpstreamRequest(opts Options, messages []types.UpstreamMessage) *types.UpstreamRequest {
	return &types.UpstreamRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Stream:      opts.Stream,
		TopP:        opts.TopP,
	}
}

// Settings supplies the configurable defaults consulted on every request.
// Implementations must be safe for concurrent use.
type Settings interface {
	DefaultAPIKey() string
	DefaultModel() string
}

// RequestCounter is incremented once per normalized request.
type RequestCounter interface {
	IncrementRequests() int64
}

// NormalizedRequest is an upstream-ready payload paired with the credential
// the forwarder must use.
type NormalizedRequest struct {
	APIKey  string
	Options Options
	Payload *types.UpstreamRequest

	// ReceivedMessages is the number of messages before cleaning.
	ReceivedMessages int
}

// Normalizer turns inbound chat requests into upstream payloads.
type Normalizer struct {
	settings    Settings
	counter     RequestCounter
	maxBodySize int64
}

// NewNormalizer creates a Normalizer. maxBodySize <= 0 selects
// DefaultMaxRequestBodySize.
func NewNormalizer(settings Settings, counter RequestCounter, maxBodySize int64) *Normalizer {
	return &Normalizer{
		settings:    settings,
		counter:     counter,
		maxBodySize: maxBodySize,
	}
}

// Normalize validates r and produces the upstream payload.
//
// The request counter is incremented before anything else so rejected
// requests are counted. The credential is resolved before the body is read:
// a request with no resolvable credential fails with ErrMissingAPIKey even
// if its body is also invalid.
func (n *Normalizer) Normalize(r *http.Request) (*NormalizedRequest, error) {
	if n.counter != nil {
		n.counter.IncrementRequests()
	}

	apiKey := ResolveAPIKey(r, n.settings.DefaultAPIKey())
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	req, err := ParseChatCompletionRequest(r, n.maxBodySize)
	if err != nil {
		return nil, err
	}

	messages, err := DecodeMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	opts := MergeOptions(req, Defaults(n.settings.DefaultModel()))
	cleaned := CleanMessages(messages)

	return &NormalizedRequest{
		APIKey:           apiKey,
		Options:          opts,
		Payload:          BuildUpstreamRequest(opts, cleaned),
		ReceivedMessages: len(messages),
	}, nil
}
