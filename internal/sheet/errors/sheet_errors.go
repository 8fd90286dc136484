package sheeterrors

import (
	"net/http"

	"github.com/ishiyama1989/koutuhi/internal/shared/apperror"
)

var (
	ErrInvalidLayout = apperror.New(
		apperror.CodeInvalidInput,
		"Layout must be table or row",
		http.StatusBadRequest,
	)
	ErrInvalidNameColumn = apperror.New(
		apperror.CodeInvalidInput,
		"Name column is invalid",
		http.StatusBadRequest,
	)
	ErrInvalidDateColumn = apperror.New(
		apperror.CodeInvalidInput,
		"Date start column is invalid",
		http.StatusBadRequest,
	)
	ErrInvalidStartRow = apperror.New(
		apperror.CodeInvalidInput,
		"Start row must be 1 or greater",
		http.StatusBadRequest,
	)
	ErrDateRangeReversed = apperror.New(
		apperror.CodeInvalidInput,
		"Date start column must not be after the end column",
		http.StatusBadRequest,
	)
	ErrEmptySheet = apperror.New(
		apperror.CodeInvalidInput,
		"Sheet has no data",
		http.StatusBadRequest,
	)
)
