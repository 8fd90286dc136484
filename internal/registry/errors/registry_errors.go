package registryerrors

import (
	"net/http"

	"github.com/ishiyama1989/koutuhi/internal/shared/apperror"
)

var (
	ErrPersonNotFound = apperror.New(
		apperror.CodeNotFound,
		"Person not found",
		http.StatusNotFound,
	)
	ErrPersonAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A person with the same name is already registered",
		http.StatusConflict,
	)
	ErrPatternNotFound = apperror.New(
		apperror.CodeNotFound,
		"Work pattern not found",
		http.StatusNotFound,
	)
	ErrPatternAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A work pattern with the same name and work location is already registered",
		http.StatusConflict,
	)
	ErrInvalidID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid ID",
		http.StatusBadRequest,
	)
	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"Missing required fields",
		http.StatusBadRequest,
	)
	ErrInvalidJobType = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown job type",
		http.StatusBadRequest,
	)
	ErrUnknownStation = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown station",
		http.StatusBadRequest,
	)
	ErrNearestDistanceRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Distance to the nearest station is required",
		http.StatusBadRequest,
	)
	ErrDistanceOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"Distance must be between 0 and 50 km",
		http.StatusBadRequest,
	)
	ErrDistanceRequired = apperror.New(
		apperror.CodeInvalidInput,
		"At least one station distance is required for private car commuters",
		http.StatusBadRequest,
	)
	ErrDistanceNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"Distance recorded for a station not covered by the selected job types",
		http.StatusBadRequest,
	)
	ErrInvalidTrainCommute = apperror.New(
		apperror.CodeInvalidInput,
		"Train commute must be possible, impossible or empty",
		http.StatusBadRequest,
	)
	ErrInvalidTripType = apperror.New(
		apperror.CodeInvalidInput,
		"Trip type must be roundtrip, oneway or none",
		http.StatusBadRequest,
	)
	ErrInvalidUnitRate = apperror.New(
		apperror.CodeInvalidInput,
		"Unit rate must be a non-negative number",
		http.StatusBadRequest,
	)
	ErrInvalidImport = apperror.New(
		apperror.CodeInvalidInput,
		"Import file format is invalid",
		http.StatusBadRequest,
	)
)
