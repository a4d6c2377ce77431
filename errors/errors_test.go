package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCode(t *testing.T) {
	tts := map[string]struct {
		err  error
		code int
	}{
		"plain error":         {err: errors.New("boom"), code: 404},
		"already coded":       {err: New("boom", WithCode(200)), code: 501},
		"coded keeping cause": {err: New("boom", WithCause(errors.New("cause"))), code: 409},
	}

	for name, tt := range tts {
		t.Run(name, func(t *testing.T) {
			err := WithCode(tt.code)(tt.err)
			assert.Equal(t, tt.code, Code(err))
			assert.True(t, Is(err, tt.code))
		})
	}

	assert.Nil(t, WithCode(404)(nil), "nil in, nil out")
}

func TestWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := New("could not reach server", Network(), WithCause(cause))

	cerr, ok := err.(Error)
	assert.True(t, ok)
	assert.Equal(t, CodeNetwork, cerr.Code())
	assert.Equal(t, "could not reach server", cerr.Message())
	assert.EqualError(t, err, "could not reach server: connection refused")
	assert.EqualError(t, cerr.Cause(), "connection refused")
}

func TestCause_ForwardsCode(t *testing.T) {
	cause := New("not found upstream", NotFound())
	err := WithCause(cause)(errors.New("wrapping"))
	assert.Equal(t, http.StatusNotFound, Code(err))
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNotFound(New("nope", NotFound())))
	assert.True(t, IsUnauthorized(New("nope", Unauthorized())))
	assert.True(t, IsConflict(New("nope", Conflict())))
	assert.True(t, IsNetwork(New("nope", Network())))
	assert.False(t, IsNotFound(errors.New("plain")))
}
