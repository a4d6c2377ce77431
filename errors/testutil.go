package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertCode fails the test unless err carries the expected code. A plain
// error only passes for DefaultCode, since that is what Code reports for it.
func AssertCode(t *testing.T, err error, code int) {
	t.Helper()
	if err, ok := err.(Error); ok {
		assert.Equal(t, code, err.Code(), "code should be equal")
		return
	}
	assert.Equal(t, DefaultCode, code, "plain error carries the default code")
}
