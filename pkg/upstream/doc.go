// Package upstream is the HTTP client for the inference API the proxy fronts.
//
// A Client issues exactly one request per call: no retries, no caching, and
// a fixed client timeout (DefaultTimeout). Outcomes are classified as:
//
//   - success: a 2xx response, returned as *Response with the raw body
//   - *StatusError: the upstream answered with a non-2xx status
//   - *TransportError: no usable response (connection, DNS, timeout, body read)
//
// Callers classify failures with errors.As:
//
//	resp, err := client.ChatCompletions(ctx, apiKey, payload)
//	var statusErr *upstream.StatusError
//	if errors.As(err, &statusErr) {
//	    // upstream-reported error, statusErr.StatusCode / statusErr.Body
//	}
package upstream
