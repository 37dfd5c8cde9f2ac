package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Sentinel error identity ---

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrInvalidInput,
		ErrCapacityExceeded, ErrConflict, ErrInternal,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	inner := fmt.Errorf("redis connection lost")
	appErr := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: inner}
	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.Contains(t, appErr.Error(), "something broke")
	assert.Contains(t, appErr.Error(), "redis connection lost")
}

func TestAppError_ErrorString_WithoutWrappedError(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "wishlist not found"}
	assert.Equal(t, "NOT_FOUND: wishlist not found", appErr.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	appErr := NotFound("wishlist", "user-1")
	assert.True(t, errors.Is(appErr, ErrNotFound))
}

// --- Constructors ---

func TestNotFound(t *testing.T) {
	err := NotFound("wishlist", "user-42")
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "wishlist")
	assert.Contains(t, err.Message, "user-42")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAlreadyExists(t *testing.T) {
	err := AlreadyExists("wishlist", "user_id", "user-42")
	assert.Equal(t, "ALREADY_EXISTS", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Contains(t, err.Message, `"user-42"`)
	assert.True(t, errors.Is(err, ErrAlreadyExists))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("quantity must be greater than 0")
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCapacityExceeded(t *testing.T) {
	err := CapacityExceeded(20)
	assert.Equal(t, "CAPACITY_EXCEEDED", err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Contains(t, err.Message, "20")
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
}

func TestConflict(t *testing.T) {
	err := Conflict("wishlist was modified concurrently")
	assert.Equal(t, "CONFLICT", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestInternal(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := Internal(inner)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, inner))
}

// --- HTTPStatus mapping ---

func TestHTTPStatus_AppError(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(CapacityExceeded(20)))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("wishlist", "u")))
}

func TestHTTPStatus_WrappedAppError(t *testing.T) {
	wrapped := Wrap(NotFound("product", "p-1"), "lookup")
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrConflict, http.StatusConflict},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrCapacityExceeded, http.StatusUnprocessableEntity},
		{fmt.Errorf("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "for %v", tt.err)
	}
}

func TestWrap_PreservesSentinel(t *testing.T) {
	wrapped := Wrap(ErrConflict, "save wishlist")
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.Contains(t, wrapped.Error(), "save wishlist")
}
