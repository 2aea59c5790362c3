package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{"network error type", ErrTypeNetwork, "NETWORK"},
		{"parsing error type", ErrTypeParsing, "PARSING"},
		{"storage error type", ErrTypeStorage, "STORAGE"},
		{"not found error type", ErrTypeNotFound, "NOT_FOUND"},
		{"config error type", ErrTypeConfig, "CONFIG"},
		{"invariant error type", ErrTypeInvariant, "INVARIANT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewNotFoundError("data directory"),
			wantMessage: "[NOT_FOUND] data directory not found",
		},
		{
			name:        "error with cause",
			appError:    NewNetworkError("fetch failed", fmt.Errorf("connection refused")),
			wantMessage: "[NETWORK] fetch failed: connection refused",
		},
		{
			name:        "parsing error",
			appError:    NewParsingError(`invalid month "2015/11"`, errors.New("bad layout")),
			wantMessage: `[PARSING] invalid month "2015/11": bad layout`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	sentinel := errors.New("bucket still held")
	err := fmt.Errorf("export: %w", NewInvariantError("export failed", sentinel))

	assert.ErrorIs(t, err, sentinel)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeInvariant, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewStorageError("write failed", nil).
		WithContext("file", "2015-03.xlsx").
		WithContext("attempt", 2)

	assert.Equal(t, "2015-03.xlsx", err.Context["file"])
	assert.Equal(t, 2, err.Context["attempt"])

	bare := &AppError{Type: ErrTypeParsing}
	bare.WithContext("row", 7)
	assert.Equal(t, 7, bare.Context["row"])
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewConfigError("bad yaml", nil))

	errType, ok := TypeOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrTypeConfig, errType)
	assert.True(t, IsType(wrapped, ErrTypeConfig))
	assert.False(t, IsType(wrapped, ErrTypeNetwork))

	_, ok = TypeOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsType(nil, ErrTypeConfig))
}
