package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tashrifatdiu/mcsc-client/errors"
)

type Formatter struct{}

// Wrap turns a data-or-error handler into a gin handler with the uniform
// JSON envelope. The status comes from the error code when one is set.
func (f *Formatter) Wrap(next func(*gin.Context) (interface{}, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := next(c)

		if err != nil {
			c.JSON(statusCode(err), map[string]interface{}{
				"message": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, data)
	}
}

// statusCode maps an error to the HTTP status to answer with. Network errors
// carry code 0, which is not a writable status, so they come out as a bad
// gateway instead of letting the response default to 200.
func statusCode(err error) int {
	code := http.StatusInternalServerError
	if err, ok := err.(errors.Error); ok {
		code = err.Code()
	}
	if code < 100 {
		code = http.StatusBadGateway
	}
	return code
}
