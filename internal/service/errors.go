package service

// HTTPError carries the status and wire code for a failed operation up to
// the presenter layer.
type HTTPError struct {
	StatusCode int
	Code       string
	Wrapped    error
}

func (e HTTPError) Error() string {
	return e.Wrapped.Error()
}

func (e HTTPError) Unwrap() error {
	return e.Wrapped
}

func httpError(statusCode int, code string, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Code:       code,
		Wrapped:    err,
	}
}
