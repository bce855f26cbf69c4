// Package types defines the wire types of the proxy.
//
// Inbound:
//   - ChatCompletionRequest: body of POST /v1/chat/completions
//   - Message: a single conversation message as sent by the caller
//
// Outbound:
//   - UpstreamRequest: the payload posted to the upstream chat endpoint
//   - UpstreamMessage: a cleaned message
//
// Errors:
//   - ErrorResponse / ErrorDetail: the normalized {message, type, code} shape
//
// Upstream responses are relayed verbatim and are therefore not modelled here,
// with the exception of ModelList, which the CLI decodes for display.
package types
