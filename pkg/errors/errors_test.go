package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Invalid("bad"), http.StatusBadRequest},
		{Unauthorized("no"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{New(CodeUnavailable, "down"), http.StatusServiceUnavailable},
		{New(CodeRateLimited, "slow down"), http.StatusTooManyRequests},
		{Wrap(errors.New("boom"), CodeInternal, "failed"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("context: %w", NotFound("gone")), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestIsCodeUnwraps(t *testing.T) {
	base := Conflict("email taken")
	wrapped := fmt.Errorf("register: %w", base)
	require.True(t, IsCode(wrapped, CodeConflict))
	require.False(t, IsCode(wrapped, CodeNotFound))
	require.False(t, IsCode(errors.New("x"), CodeConflict))
}

func TestWithMeta(t *testing.T) {
	err := Invalid("missing").WithMeta("missingIds", []string{"a"})
	require.Equal(t, []string{"a"}, err.Meta["missingIds"])
	require.Equal(t, "invalid: missing", err.Error())
}
