package proxy

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nimproxy/pkg/proxy/types"
)

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no header", header: "", want: ""},
		{name: "bearer", header: "Bearer nvapi-123", want: "nvapi-123"},
		{name: "bare key", header: "nvapi-123", want: "nvapi-123"},
		{name: "bearer only", header: "Bearer ", want: ""},
		{name: "whitespace key kept", header: "Bearer    ", want: "   "},
		{name: "inner spaces kept", header: "Bearer  nvapi-123", want: " nvapi-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := ExtractAPIKey(req); got != tt.want {
				t.Errorf("ExtractAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if got := ResolveAPIKey(req, "default"); got != "default" {
		t.Errorf("ResolveAPIKey() = %q, want default", got)
	}

	req.Header.Set("Authorization", "Bearer caller")
	if got := ResolveAPIKey(req, "default"); got != "caller" {
		t.Errorf("ResolveAPIKey() = %q, want caller", got)
	}

	req.Header.Set("Authorization", "Bearer  ")
	if got := ResolveAPIKey(req, ""); got != " " {
		t.Errorf("ResolveAPIKey() = %q, want a single space", got)
	}
}

func TestParseChatCompletionRequest_TooLarge(t *testing.T) {
	body := `{"messages":[{"role":"user","content":"` + strings.Repeat("x", 100) + `"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	_, err := ParseChatCompletionRequest(req, 32)

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T (%v)", err, err)
	}
	if reqErr.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("StatusCode = %d, want 413", reqErr.StatusCode)
	}
	if reqErr.Code != types.CodeRequestTooLarge {
		t.Errorf("Code = %q, want %q", reqErr.Code, types.CodeRequestTooLarge)
	}
}

func TestParseChatCompletionRequest_ExactLimit(t *testing.T) {
	body := `{"messages":[]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	if _, err := ParseChatCompletionRequest(req, int64(len(body))); err != nil {
		t.Errorf("unexpected error at exact limit: %v", err)
	}
}

func TestParseChatCompletionRequest_Form(t *testing.T) {
	form := "messages%5B1%5D%5Brole%5D=user&messages%5B1%5D%5Bcontent%5D=second" +
		"&messages%5B0%5D%5Brole%5D=system&messages%5B0%5D%5Bcontent%5D=first" +
		"&model=meta%2Fllama-3.1-70b-instruct&temperature=0.3&max_tokens=50&stream=true&top_p=0.5"
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	parsed, err := ParseChatCompletionRequest(req, 0)
	if err != nil {
		t.Fatalf("ParseChatCompletionRequest() error = %v", err)
	}

	messages, err := DecodeMessages(parsed.Messages)
	if err != nil {
		t.Fatalf("DecodeMessages() error = %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Role != "system" || messages[0].Content != "first" {
		t.Errorf("messages[0] = %+v", messages[0])
	}
	if messages[1].Role != "user" || messages[1].Content != "second" {
		t.Errorf("messages[1] = %+v", messages[1])
	}

	opts := MergeOptions(parsed, Defaults(""))
	want := Options{
		Model:       "meta/llama-3.1-70b-instruct",
		Temperature: 0.3,
		MaxTokens:   50,
		Stream:      true,
		TopP:        0.5,
	}
	if opts != want {
		t.Errorf("MergeOptions() = %+v, want %+v", opts, want)
	}
}

func TestParseChatCompletionRequest_FormEmptyModel(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("model=&messages[0][role]=user&messages[0][content]=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parsed, err := ParseChatCompletionRequest(req, 0)
	if err != nil {
		t.Fatalf("ParseChatCompletionRequest() error = %v", err)
	}
	if parsed.Model == nil || *parsed.Model != "" {
		t.Errorf("Model = %v, want pointer to empty string", parsed.Model)
	}
	if parsed.Temperature != nil {
		t.Errorf("Temperature = %v, want nil", *parsed.Temperature)
	}
}

func TestParseChatCompletionRequest_FormWithoutMessages(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("model=m"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parsed, err := ParseChatCompletionRequest(req, 0)
	if err != nil {
		t.Fatalf("ParseChatCompletionRequest() error = %v", err)
	}
	if _, err := DecodeMessages(parsed.Messages); !errors.Is(err, ErrInvalidMessages) {
		t.Errorf("DecodeMessages() error = %v, want ErrInvalidMessages", err)
	}
}

func TestParseChatCompletionRequest_FormInvalidField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("max_tokens=lots"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := ParseChatCompletionRequest(req, 0)

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T (%v)", err, err)
	}
	if reqErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", reqErr.StatusCode)
	}
}

func TestDecodeMessages(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
		wantErr bool
	}{
		{name: "absent", raw: "", wantErr: true},
		{name: "null", raw: "null", wantErr: true},
		{name: "string", raw: `"hi"`, wantErr: true},
		{name: "object", raw: `{"role":"user"}`, wantErr: true},
		{name: "array of strings", raw: `["hi"]`, wantErr: true},
		{name: "empty array", raw: `[]`, wantLen: 0},
		{name: "two messages", raw: `[{"role":"user","content":"a"},{"role":"assistant","content":null}]`, wantLen: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMessages([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeMessages() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidMessages) {
				t.Errorf("DecodeMessages() error = %v, want ErrInvalidMessages", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestDecodeMessages_InvalidContent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "object", raw: `[{"role":"user","content":{"text":"hi","secret":"x"}}]`},
		{name: "number", raw: `[{"role":"user","content":42}]`},
		{name: "bool", raw: `[{"role":"user","content":"ok"},{"role":"user","content":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMessages([]byte(tt.raw))
			if err == nil {
				t.Fatal("DecodeMessages() expected error")
			}
			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("error type = %T, want *RequestError", err)
			}
			if reqErr.StatusCode != http.StatusBadRequest {
				t.Errorf("StatusCode = %d, want 400", reqErr.StatusCode)
			}
			if !strings.Contains(reqErr.Message, "content") {
				t.Errorf("Message = %q, want it to name the content field", reqErr.Message)
			}
		})
	}
}
