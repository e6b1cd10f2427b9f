package dto

import "time"

// ErrorResponse is the JSON body of every failed REST call.
//
// Fields:
//   - Message: Human-readable summary of the failure.
//   - ErrorDetails: Underlying error text, when there is one.
//   - Kind: Failure class ("validation", "upstream_unavailable", "not_found", ...).
//   - Field: Offending parameter for validation failures.
//   - Timestamp: When the error was produced (UTC).
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid arguments"`
	ErrorDetails string    `json:"error_details,omitempty" example:"symbol is required"`
	Kind         string    `json:"kind,omitempty" example:"validation"`
	Field        string    `json:"field,omitempty" example:"symbol"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
