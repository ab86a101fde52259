package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestConflictError(t *testing.T) {
	assert := assert.New(t)

	var err error = NewConflict("already applied to job %d", 7)

	assert.Equal("already applied to job 7", err.Error())
	assert.Equal(Conflict, KindOf(err))
	assert.True(Is(err, Conflict))
	assert.False(Is(err, Validation))
	assert.Equal(http.StatusConflict, KindOf(err).Status())
}

func TestKindSurvivesWrapping(t *testing.T) {
	assert := assert.New(t)

	inner := NewForbidden("not the owner")
	err := fmt.Errorf("update job: %w", inner)

	assert.Equal(Forbidden, KindOf(err))
	assert.Equal(http.StatusForbidden, KindOf(err).Status())

	err = errors.Wrap(errors.WithMessage(inner, "load job"), "update job")
	assert.Equal(Forbidden, KindOf(err))
	assert.True(Is(err, Forbidden))
}

func TestUnclassifiedErrorsAreInternal(t *testing.T) {
	assert := assert.New(t)

	err := errors.New("connection reset")
	assert.Equal(Internal, KindOf(err))
	assert.Equal(http.StatusInternalServerError, KindOf(err).Status())
	assert.False(Is(nil, Internal))
}

func TestWrapKeepsCause(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("disk full")
	err := Wrap(cause, "unable to save job")

	assert.Equal("unable to save job: disk full", err.Error())
	assert.True(errors.Is(err, cause))
	assert.Equal("unable to save job", err.Message)
}

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		Unauthenticated: http.StatusUnauthorized,
		Blocked:         http.StatusForbidden,
		Forbidden:       http.StatusForbidden,
		NotFound:        http.StatusNotFound,
		Conflict:        http.StatusConflict,
		Validation:      http.StatusBadRequest,
		Internal:        http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestFieldValidation(t *testing.T) {
	err := NewFieldValidation("Invalid request", FieldError{Field: "applicationDeadline", Message: "must be a future date"})
	assert.Equal(t, Validation, err.Kind)
	assert.Len(t, err.Fields, 1)
	assert.Equal(t, "applicationDeadline", err.Fields[0].Field)
}

func TestPublicMessage(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Internal server error", Wrap(fmt.Errorf("pq: broken pipe"), "unable to save").PublicMessage())
	assert.Equal("Email could not be sent", NewInternal("Email could not be sent").PublicMessage())
	assert.Equal("Job not found", NewNotFound("Job not found").PublicMessage())
}
