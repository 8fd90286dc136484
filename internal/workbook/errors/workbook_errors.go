package workbookerrors

import (
	"net/http"

	"github.com/ishiyama1989/koutuhi/internal/shared/apperror"
)

var (
	ErrUnreadable = apperror.New(
		apperror.CodeInvalidInput,
		"Spreadsheet could not be read",
		http.StatusBadRequest,
	)
	ErrNoSheets = apperror.New(
		apperror.CodeInvalidInput,
		"Spreadsheet has no worksheets",
		http.StatusBadRequest,
	)
	ErrSheetNotFound = apperror.New(
		apperror.CodeNotFound,
		"Worksheet not found",
		http.StatusNotFound,
	)
)
