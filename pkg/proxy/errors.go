package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"nimproxy/pkg/proxy/types"
	"nimproxy/pkg/upstream"
)

// HandleError maps an error to the status code and normalized body that
// should be returned to the caller.
//
//   - *RequestError: its own status, invalid_request_error
//   - *upstream.StatusError: the upstream status, with the upstream error
//     message, type and code where present
//   - anything else: 500 internal_error "Proxy server error" with the raw
//     failure text in details
//
// Example usage:
//
//	if err != nil {
//	    status, errResp := HandleError(err)
//	    WriteErrorResponse(w, status, errResp)
//	    return
//	}
func HandleError(err error) (int, *types.ErrorResponse) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode, reqErr.ToErrorResponse()
	}

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, upstreamErrorResponse(statusErr)
	}

	return http.StatusInternalServerError, types.NewInternalError(err.Error())
}

// upstreamErrorBody is the subset of an upstream error body that is forwarded.
type upstreamErrorBody struct {
	Error *struct {
		Message string          `json:"message"`
		Type    string          `json:"type"`
		Code    json.RawMessage `json:"code"`
	} `json:"error"`
}

// upstreamErrorResponse builds the forwarded error. Missing fields fall back
// to the generic status message, api_error and unknown_error.
func upstreamErrorResponse(err *upstream.StatusError) *types.ErrorResponse {
	message := err.Error()
	errorType := types.ErrorTypeAPI
	code := types.CodeUnknown

	var body upstreamErrorBody
	if json.Unmarshal(err.Body, &body) == nil && body.Error != nil {
		if body.Error.Message != "" {
			message = body.Error.Message
		}
		if body.Error.Type != "" {
			errorType = body.Error.Type
		}
		if c := errorCode(body.Error.Code); c != "" {
			code = c
		}
	}

	return types.NewErrorResponse(message, errorType, code)
}

// errorCode renders an upstream code that may be a JSON string or number.
// A zero number counts as no code.
func errorCode(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		if f, err := n.Float64(); err == nil && f == 0 {
			return ""
		}
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}

	return ""
}
