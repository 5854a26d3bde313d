package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapsSentinels(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("workout w1: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("not the owner: %w", ErrPermissionDenied), http.StatusForbidden},
		{fmt.Errorf("empty text: %w", ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("bad credentials: %w", ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("db gone: %w", ErrTransient), http.StatusBadGateway},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "for %v", tt.err)
	}
}

func TestSentinelsSurviveDoubleWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrNotFound))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}
