package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("load otp session: %w", DataAccess("select failed", cause))

	assert.Equal(t, KindDataAccess, KindOf(err))
	assert.True(t, Is(err, KindDataAccess))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "select failed", Message(err))
	assert.Equal(t, "load otp session: select failed: connection refused", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{InvalidOtp("x"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{Expired("x"), http.StatusUnauthorized},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Notification("x", nil), http.StatusBadGateway},
		{DataAccess("x", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestUnclassified(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.False(t, Is(nil, KindUnknown))
	assert.Equal(t, "internal server error", Message(err))
	assert.Equal(t, "INTERNAL_ERROR", KindUnknown.String())
}
