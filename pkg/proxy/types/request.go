package types

import "encoding/json"

// ChatCompletionRequest is the inbound body accepted on /v1/chat/completions.
//
// Every optional field is a pointer so that an absent field (or an explicit
// JSON null) can be told apart from a zero value and replaced by its default.
type ChatCompletionRequest struct {
	// Model is the upstream model identifier (e.g., "meta/llama-3.1-8b-instruct").
	Model *string `json:"model,omitempty"`

	// Messages is kept raw so that a missing field and a non-array value
	// can both be rejected with the same validation error.
	Messages json.RawMessage `json:"messages,omitempty"`

	// Temperature controls randomness in the response.
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Stream requests a server-sent event stream from the upstream.
	Stream *bool `json:"stream,omitempty"`

	// TopP controls nucleus sampling.
	TopP *float64 `json:"top_p,omitempty"`

	// FrequencyPenalty is accepted for compatibility but never forwarded.
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`

	// PresencePenalty is accepted for compatibility but never forwarded.
	PresencePenalty *float64 `json:"presence_penalty,omitempty"`
}

// Message represents a single message in a conversation.
type Message struct {
	// Role is the author of the message ("system", "user", "assistant", ...).
	Role string `json:"role"`

	// Content is the text content of the message.
	// Can be a string, null, or an array of content parts.
	Content interface{} `json:"content"`
}

// UpstreamMessage is a cleaned message as sent to the upstream API.
type UpstreamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UpstreamRequest is the payload posted to {base_url}/chat/completions.
// It deliberately has no penalty fields.
type UpstreamRequest struct {
	Model       string            `json:"model"`
	Messages    []UpstreamMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
	Stream      bool              `json:"stream"`
	TopP        float64           `json:"top_p"`
}

// ModelList is the upstream response of GET {base_url}/models.
// The proxy relays it verbatim; the CLI decodes it for display.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// Model is a single entry of a ModelList.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}
