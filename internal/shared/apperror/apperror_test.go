package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ishiyama1989/koutuhi/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("sentinel", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
		assert.Nil(t, got.Details)
	})

	t.Run("wrapped sentinel carries details", func(t *testing.T) {
		err := fmt.Errorf("%w: 東京駅", apperror.ErrInvalidInput)
		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, "The provided input is invalid: 東京駅", got.Details)
	})

	t.Run("plain error hides internals", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection reset"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.Nil(t, got.Details)
	})

	t.Run("wrap keeps cause for client errors", func(t *testing.T) {
		err := apperror.Wrap(errors.New("unexpected EOF"), apperror.CodeInvalidInput, "Invalid input", http.StatusBadRequest)
		got := apperror.ToHTTP(err)
		assert.Equal(t, "unexpected EOF", got.Details)
		assert.Equal(t, "Invalid input: unexpected EOF", err.Error())
	})
}

func TestMapValidationError(t *testing.T) {
	err := apperror.MapValidationError(errors.New("invalid character"))
	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}
