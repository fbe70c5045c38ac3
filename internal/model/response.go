package model

// Response is a generic struct for API responses
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

// SuccessResponse wraps data in the "Success" envelope.
func SuccessResponse(data interface{}) Response {
	return Response{Data: data, Message: "Success"}
}

// ErrorResponse carries a user-facing error message in the "Error" envelope.
func ErrorResponse(msg string) Response {
	return Response{Error: &msg, Message: "Error"}
}
