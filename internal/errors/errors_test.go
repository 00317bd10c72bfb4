package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"jobverse/internal/errors"
	"jobverse/internal/model"
)

func TestDomainError_UnwrapsToSentinel(t *testing.T) {
	err := errors.NotFound("job 42", model.ErrJobNotFound)
	assert.True(t, stderrors.Is(err, model.ErrJobNotFound))
	assert.Equal(t, "NOT_FOUND: job 42: job not found", err.Error())
	assert.NotEmpty(t, err.StackTrace())
}

func TestDomainError_WithoutCause(t *testing.T) {
	err := errors.InvalidInput("page must be >= 1", nil)
	assert.Equal(t, "INVALID_INPUT: page must be >= 1", err.Error())
	assert.Nil(t, err.Unwrap())
	assert.NotEmpty(t, err.Stack)
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", errors.Unavailable("redis down", nil))
	assert.Equal(t, errors.ErrTypeUnavailable, errors.TypeOf(wrapped))
	assert.Equal(t, errors.ErrTypeInternal, errors.TypeOf(stderrors.New("boom")))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "bad dimension", errors.MessageOf(errors.InvalidInput("bad dimension", stderrors.New("x"))))
	assert.Equal(t, "plain", errors.MessageOf(stderrors.New("plain")))
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		err  *errors.DomainError
		want errors.ErrorType
	}{
		{errors.Conflict("already applied", nil), errors.ErrTypeConflict},
		{errors.Forbidden("not your job", nil), errors.ErrTypeForbidden},
		{errors.Unauthorized("x-user-id header required"), errors.ErrTypeUnauthorized},
	}
	for _, tc := range cases {
		t.Run(string(tc.want), func(t *testing.T) {
			assert.Equal(t, tc.want, errors.TypeOf(fmt.Errorf("wrap: %w", tc.err)))
			assert.NotEmpty(t, tc.err.StackTrace())
		})
	}
}
