package errors

import (
	"fmt"
)

// Error carries an HTTP-like status code alongside the message, so call sites
// can map remote failures back to the UI without string matching.
type Error interface {
	error

	Code() int
	Message() string
	Cause() error
}

// DefaultCode is used when no enricher sets one. 500, i.e. something
// unexpected happened.
var DefaultCode = 500

type codedError struct {
	code  int
	msg   string
	cause *codedError
}

func (err *codedError) Error() string {
	if err.cause == nil {
		return err.msg
	}

	return fmt.Sprintf("%s: %v", err.msg, err.cause)
}

func (err *codedError) Code() int { return err.code }

func (err *codedError) Message() string { return err.msg }

func (err *codedError) Cause() error {
	if err.cause == nil {
		return nil
	}
	return err.cause
}

// An Enricher decorates an error as it is created or passed along, typically
// attaching a code or the underlying cause.
type Enricher func(error) error

func New(msg string, fs ...Enricher) error {
	var err error = &codedError{
		msg:  msg,
		code: DefaultCode,
	}

	for _, f := range fs {
		err = f(err)
	}

	return err
}

func WithCode(code int) Enricher {
	return func(err error) error {
		if err == nil {
			return nil
		}

		if cerr, ok := err.(*codedError); ok {
			cerr.code = code
			return cerr
		}

		return &codedError{
			msg:  err.Error(),
			code: code,
		}
	}
}

func WithCause(cause error) Enricher {
	var cc *codedError
	switch cause := cause.(type) {
	case *codedError:
		cc = cause
	default:
		cc = &codedError{msg: cause.Error(), code: DefaultCode}
	}

	return func(err error) error {
		if err == nil {
			return nil
		}

		if cerr, ok := err.(*codedError); ok {
			cerr.cause = cc
			return cerr
		}

		return &codedError{
			msg:   err.Error(),
			code:  cc.code,
			cause: cc,
		}
	}
}

// Code extracts the code of err, falling back to DefaultCode for plain errors.
func Code(err error) int {
	if cerr, ok := err.(Error); ok {
		return cerr.Code()
	}
	return DefaultCode
}

// Is reports whether err carries the given code.
func Is(err error, code int) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(Error); !ok {
		return false
	}
	return Code(err) == code
}
