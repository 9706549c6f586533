package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"name undefined"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// Generic client-facing messages for failures whose detail stays in the logs.
const (
	MessageDatabaseError      = "database error"
	MessageSomethingWrong     = "Something is wrong... try reloading the page"
	MessageInternalError      = "internal server error"
	MessageServiceUnavailable = "service unavailable"
	MessageUnauthorized       = "token missing or invalid"
	MessageForbidden          = "admin privileges required"
)
