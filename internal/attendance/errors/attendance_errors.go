package attendanceerrors

import (
	"net/http"

	"github.com/ishiyama1989/koutuhi/internal/shared/apperror"
)

var (
	ErrPreviewNotFound = apperror.New(
		apperror.CodeNotFound,
		"Preview not found or expired",
		http.StatusNotFound,
	)
	ErrFactNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance fact not found",
		http.StatusNotFound,
	)
	ErrInvalidPreviewID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid preview id",
		http.StatusBadRequest,
	)
	ErrFileRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A workbook file is required",
		http.StatusBadRequest,
	)
	ErrEmptyName = apperror.New(
		apperror.CodeInvalidInput,
		"Corrected name must not be empty",
		http.StatusBadRequest,
	)
)
