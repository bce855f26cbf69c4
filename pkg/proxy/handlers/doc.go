// Package handlers provides the HTTP endpoints of the gateway.
//
//   - ChatHandler: POST /v1/chat/completions, normalizes and forwards
//   - ModelsHandler: GET /v1/models, relays the upstream model list
//   - HealthHandler: GET /health, {"status","totalRequests","uptime"}
//   - LandingHandler: GET /, HTML status page
//
// Handlers share one GatewayStats value owned by the server. Only
// ChatHandler increments the request counter (through the proxy.Normalizer),
// and it does so before validation so rejected requests are counted too.
//
// Upstream bodies are relayed verbatim. Failures are written with the
// normalized error envelope produced by proxy.HandleError:
//
//	{
//	  "error": {
//	    "message": "No API key provided",
//	    "type": "invalid_request_error",
//	    "code": "invalid_api_key"
//	  }
//	}
package handlers
