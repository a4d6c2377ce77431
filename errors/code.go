package errors

import (
	"net/http"
)

// CodeNetwork marks a fetch-level failure: DNS, refused connection, timeout.
// There is no HTTP status to report in that case.
const CodeNetwork = 0

func BadRequest() Enricher   { return WithCode(http.StatusBadRequest) }
func Unauthorized() Enricher { return WithCode(http.StatusUnauthorized) }
func Forbidden() Enricher    { return WithCode(http.StatusForbidden) }
func NotFound() Enricher     { return WithCode(http.StatusNotFound) }
func Conflict() Enricher     { return WithCode(http.StatusConflict) }
func Network() Enricher      { return WithCode(CodeNetwork) }

func IsNotFound(err error) bool     { return Is(err, http.StatusNotFound) }
func IsUnauthorized(err error) bool { return Is(err, http.StatusUnauthorized) }
func IsConflict(err error) bool     { return Is(err, http.StatusConflict) }
func IsNetwork(err error) bool      { return Is(err, CodeNetwork) }
