package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHTTPError_KindFromStatus(t *testing.T) {
	assert.Equal(t, KindValidation, NewHTTPError(http.StatusBadRequest, "bad").Kind)
	assert.Equal(t, KindUnauthorized, NewHTTPError(http.StatusUnauthorized, "x").Kind)
	assert.Equal(t, KindTooManyRequests, NewHTTPError(http.StatusTooManyRequests, "x").Kind)
	assert.Equal(t, KindUpstreamUnavailable, NewHTTPError(http.StatusServiceUnavailable, "x").Kind)
	assert.Equal(t, KindInternal, NewHTTPError(http.StatusTeapot, "x").Kind)
}

func TestAsHTTPError(t *testing.T) {
	nf := NewNotFoundError("order not found")
	assert.Same(t, nf, AsHTTPError(fmt.Errorf("wrapped: %w", nf)))

	up := AsHTTPError(fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusServiceUnavailable, up.Status)

	in := AsHTTPError(errors.New("boom"))
	assert.Equal(t, KindInternal, in.Kind)
	// 中身はメッセージに出さない
	assert.Equal(t, "internal error", in.Message)
	assert.ErrorContains(t, in, "boom")
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := NewInvalidTransitionError("pending", "delivered")
	assert.Equal(t, "invalid status transition from pending to delivered", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}
