package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Authentication("who are you"), http.StatusUnauthorized},
		{Authorization("not yours"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("already there"), http.StatusConflict},
		{Server("boom", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status(), tc.err.Message)
	}
}

func TestFromPassesThroughAppErrors(t *testing.T) {
	original := NotFound("Post not found")
	got := From(original)
	assert.Same(t, original, got)
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	got := From(errors.New("connection reset"))
	assert.Equal(t, CodeServer, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status())
}

func TestValidationFieldErrors(t *testing.T) {
	err := Validation("Validation errors",
		FieldError{Field: "mobile", Message: "required"},
		FieldError{Field: "password", Message: "too short"},
	)

	require.Len(t, err.Fields, 2)
	assert.Equal(t, "mobile", err.Fields[0].Field)
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Server("query failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "db down")
}
