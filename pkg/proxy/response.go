package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"nimproxy/pkg/proxy/types"
	"nimproxy/pkg/upstream"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes a normalized error body with the given status.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, statusCode, errResp)
}

// RelayResponse writes a successful upstream response back unchanged with
// status 200 and the upstream content type.
func RelayResponse(w http.ResponseWriter, resp *upstream.Response) error {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(resp.Body); err != nil {
		return fmt.Errorf("failed to relay upstream response: %w", err)
	}

	return nil
}
