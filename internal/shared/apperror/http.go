package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error to a response payload. Errors that are not an
// *AppError become a generic 500 so internals never leak to clients.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return HTTPError{
			Status:  ErrInternal.HTTPStatus,
			Code:    ErrInternal.Code,
			Message: ErrInternal.Message,
		}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	out := HTTPError{Status: status, Code: appErr.Code, Message: appErr.Message}

	// Context added around a sentinel, e.g. "unknown station: 東京駅".
	if err != error(appErr) && status < http.StatusInternalServerError {
		out.Details = err.Error()
	} else if appErr.Err != nil && status < http.StatusInternalServerError {
		out.Details = appErr.Err.Error()
	}
	return out
}
