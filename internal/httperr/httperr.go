// Package httperr carries an HTTP status alongside an error so the central
// error handler can choose the response code.
package httperr

import (
	"errors"
	"net/http"
)

// Error is an error with an explicit HTTP status. Its message is safe to
// return to clients.
type Error struct {
	Status  int
	Message string
	cause   error
}

// New returns an error that responds with status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap attaches status and message to cause. The cause is logged but never
// shown to clients.
func Wrap(cause error, status int, message string) *Error {
	return &Error{Status: status, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StatusCode implements the status carrier consulted by StatusOf.
func (e *Error) StatusCode() int {
	return e.Status
}

type statusCoder interface {
	StatusCode() int
}

// StatusOf returns the HTTP status carried by err and whether one was found.
// Statuses outside 400-599 are ignored.
func StatusOf(err error) (int, bool) {
	var sc statusCoder
	if !errors.As(err, &sc) {
		return http.StatusInternalServerError, false
	}
	status := sc.StatusCode()
	if status < 400 || status > 599 {
		return http.StatusInternalServerError, false
	}
	return status, true
}

// Kind is the short error label used in response bodies.
func Kind(status int) string {
	if status >= 400 && status < 500 {
		if text := http.StatusText(status); text != "" {
			return text
		}
		return "Client Error"
	}
	return "Server Error"
}
