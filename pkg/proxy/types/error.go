package types

// ErrorResponse is the normalized error body returned for every failure.
// It keeps the OpenAI envelope so that OpenAI SDKs surface the message.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error (see the ErrorType constants).
	Type string `json:"type"`

	// Code is a machine-readable error code. Omitted when unknown.
	Code string `json:"code,omitempty"`

	// Details carries the raw local failure description for internal errors.
	Details string `json:"details,omitempty"`
}

// Error type constants.
const (
	// ErrorTypeInvalidRequest indicates a malformed request or missing credential.
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeInternal indicates a local or transport failure with no upstream response.
	ErrorTypeInternal = "internal_error"

	// ErrorTypeAPI is the fallback type for upstream failures.
	ErrorTypeAPI = "api_error"
)

// Error code constants.
const (
	// CodeInvalidAPIKey indicates no credential could be resolved.
	CodeInvalidAPIKey = "invalid_api_key"

	// CodeRequestTooLarge indicates the request body exceeded the size limit.
	CodeRequestTooLarge = "request_too_large"

	// CodeUnknown is used when the upstream error carries no code.
	CodeUnknown = "unknown_error"
)

// Fixed client-facing messages.
const (
	MessageNoAPIKey         = "No API key provided"
	MessageInvalidMessages  = "Messages must be provided as an array"
	MessageProxyError       = "Proxy server error"
	MessageModelsFetchError = "Failed to fetch models"
)

// NewErrorResponse creates a new error response with the given details.
func NewErrorResponse(message, errorType, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Code:    code,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests.
func NewInvalidRequestError(message, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, code)
}

// NewMissingAPIKeyError is returned when neither the caller nor the
// configuration supplies a credential.
func NewMissingAPIKeyError() *ErrorResponse {
	return NewInvalidRequestError(MessageNoAPIKey, CodeInvalidAPIKey)
}

// NewInternalError creates the response for failures with no upstream
// response. details is the raw failure description.
func NewInternalError(details string) *ErrorResponse {
	resp := NewErrorResponse(MessageProxyError, ErrorTypeInternal, "")
	resp.Error.Details = details
	return resp
}

// NewModelsError is the single error shape of the model-listing endpoint.
func NewModelsError() *ErrorResponse {
	return NewErrorResponse(MessageModelsFetchError, ErrorTypeAPI, "")
}
