// Package logging configures the process-wide log/slog logger.
//
// Logs are JSON by default:
//
//	{"time":"...","level":"INFO","msg":"forwarding chat completion","request_id":"...","model":"meta/llama-3.1-8b-instruct"}
//
// With redact_secrets enabled (the default) a ReplaceAttr hook masks
// nvapi-... and sk-... keys and "Bearer ..." credentials inside string and
// error attributes, and replaces the value of attributes whose key names a
// secret (api_key, authorization, token, ...).
package logging
