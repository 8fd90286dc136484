package monthlyerrors

import (
	"net/http"

	"github.com/ishiyama1989/koutuhi/internal/shared/apperror"
)

var (
	ErrMonthNotFound = apperror.New(
		apperror.CodeNotFound,
		"No snapshot saved for this month",
		http.StatusNotFound,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Month must be formatted as YYYY-MM",
		http.StatusBadRequest,
	)
	ErrMonthRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Month is required when the preview has no dated records",
		http.StatusBadRequest,
	)
)
