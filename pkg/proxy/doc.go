// Package proxy normalizes inbound OpenAI-style chat-completion requests into
// upstream payloads and maps failures to a single client-facing error shape.
//
// # Request Flow
//
// For every POST /v1/chat/completions:
//
//  1. The gateway request counter is incremented
//  2. The credential is resolved from "Authorization: Bearer <key>", falling
//     back to the configured default credential
//  3. The body is parsed (JSON or form-encoded) and messages are validated
//  4. Options are merged with their defaults (MergeOptions)
//  5. Message content is cleaned and empty messages are dropped (CleanMessages)
//  6. The payload is forwarded by package upstream
//  7. The upstream body is relayed verbatim, or the failure is mapped by
//     HandleError
//
// # Defaults
//
//	model:       meta/llama-3.1-8b-instruct (or the configured default)
//	temperature: 0.7
//	max_tokens:  1024
//	stream:      false
//	top_p:       1
//
// frequency_penalty and presence_penalty are accepted and merged but are not
// part of the upstream payload.
//
// # Cleaning
//
// CleanContent removes anything matching <[^>]*>, collapses runs of three or
// more newlines into two and trims surrounding whitespace. It is idempotent.
//
// # Error Handling
//
// All errors use the same envelope:
//
//	{
//	  "error": {
//	    "message": "Messages must be provided as an array",
//	    "type": "invalid_request_error"
//	  }
//	}
//
// Upstream errors keep the upstream status code and, where present, the
// upstream message, type and code. Failures with no upstream response become
// 500 internal_error "Proxy server error" with the failure text in details.
package proxy
