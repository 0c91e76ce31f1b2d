package serverutils

// HttpError is an error carrying the status code the handler wants returned.
type HttpError struct {
	Code    int
	Message string
	Details string
}

func (e *HttpError) Error() string {
	return e.Message
}

func NewHttpError(code int, message string) *HttpError {
	return &HttpError{Code: code, Message: message}
}

func NewHttpErrorWithDetails(code int, message, details string) *HttpError {
	return &HttpError{Code: code, Message: message, Details: details}
}
