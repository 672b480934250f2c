package types

import "fmt"

// CustomError carries an HTTP status alongside a categorized message so the
// global fiber error handler can build the JSON envelope.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NewError builds a CustomError.
func NewError(code int, errorType, format string, args ...any) *CustomError {
	return &CustomError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Type:    errorType,
	}
}
