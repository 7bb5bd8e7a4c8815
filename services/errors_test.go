package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeFetch, "provider command failed", baseErr)

	assert.Equal(t, ErrorTypeFetch, domainErr.Type)
	assert.Equal(t, "provider command failed", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeAuthentication,
				Message: "cf auth failed",
				Err:     errors.New("exit status 1"),
			},
			wantMsg: "authentication: cf auth failed (exit status 1)",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypePostCondition,
				Message: "raw export file missing after run",
				Err:     nil,
			},
			wantMsg: "postcondition: raw export file missing after run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeWrite, "write failed", baseErr)

	assert.Equal(t, baseErr, errors.Unwrap(domainErr))
	assert.ErrorIs(t, domainErr, baseErr)
}

func TestDomainError_Is(t *testing.T) {
	wrapped := fmt.Errorf("run aborted: %w", ErrMissingCredentials)

	assert.ErrorIs(t, wrapped, ErrMissingCredentials)
	assert.NotErrorIs(t, wrapped, ErrLoginFailed)
	assert.NotErrorIs(t, wrapped, ErrRawFileMissing)
}

func TestErrorTypeCheckers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"authentication", WrapAuth("cf auth failed", errors.New("exit status 1")), IsAuthenticationError},
		{"fetch", WrapFetch("cf curl failed", errors.New("timeout")), IsFetchError},
		{"write", WrapWrite("disk full", errors.New("no space")), IsWriteError},
		{"postcondition", ErrRawFileMissing, IsPostConditionError},
	}

	checkers := []func(error) bool{
		IsAuthenticationError, IsFetchError, IsWriteError, IsPostConditionError,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := 0
			for _, check := range checkers {
				if check(tt.err) {
					matched++
				}
			}
			require.True(t, tt.check(tt.err))
			assert.Equal(t, 1, matched, "error should match exactly one class")
		})
	}
}

func TestErrorTypeCheckers_WrappedChain(t *testing.T) {
	err := fmt.Errorf("stage failed: %w", WrapFetch("cf curl failed", errors.New("boom")))

	assert.True(t, IsFetchError(err))
	assert.False(t, IsAuthenticationError(err))
	assert.Equal(t, ErrorTypeFetch, GetErrorType(err))
}

func TestGetErrorType_NonDomainError(t *testing.T) {
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
	assert.False(t, IsFetchError(errors.New("plain")))
}
