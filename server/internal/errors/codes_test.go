package errors

import (
	"net/http"
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/assert"
)

func TestGatewayErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidArgument, http.StatusBadRequest},
		{ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{ErrCodeUpstreamFailed, http.StatusInternalServerError},
		{ErrCodeGenerationFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := &GatewayError{Code: tt.code, Message: "boom"}
			assert.Equal(t, tt.want, err.HTTPStatus())
		})
	}
}

func TestGatewayErrorUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := UpstreamFailed("completion call failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UPSTREAM_FAILED")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(InvalidArgument("missing user_id"), ErrCodeInvalidArgument))
	assert.False(t, IsCode(InvalidArgument("missing user_id"), ErrCodeRateLimitExceeded))
	assert.False(t, IsCode(stderrors.New("plain"), ErrCodeInvalidArgument))
}
