package server

import "net/http"

// statusError is an error that maps to an HTTP response.
type statusError interface {
	error
	StatusCode() int
	Status() string
}

type handlerError struct {
	code    int
	status  string
	message string
}

func newHandlerError(code int, status, message string) *handlerError {
	return &handlerError{
		code:    code,
		status:  status,
		message: message,
	}
}

func (e *handlerError) StatusCode() int {
	return e.code
}

func (e *handlerError) Status() string {
	return e.status
}

func (e *handlerError) Error() string {
	return e.message
}

// withMessage returns a copy of e carrying a more specific message.
func (e *handlerError) withMessage(msg string) *handlerError {
	return newHandlerError(e.code, e.status, msg)
}

var (
	// ErrorInvalidIndex indicates that the index is not a decimal integer
	ErrorInvalidIndex = newHandlerError(http.StatusBadRequest, "INVALID INDEX", "index must be a decimal integer")
	// ErrorIndexOutOfRange indicates that the index is outside the username space
	ErrorIndexOutOfRange = newHandlerError(http.StatusNotFound, "INDEX OUT OF RANGE", "no username has that index")
	// ErrorInvalidCursor indicates that the page cursor cannot be parsed
	ErrorInvalidCursor = newHandlerError(http.StatusBadRequest, "INVALID CURSOR", "cursor is not a valid page token")
	// ErrorInvalidSize indicates that the page size is not a positive integer
	ErrorInvalidSize = newHandlerError(http.StatusBadRequest, "INVALID SIZE", "size must be a positive integer")
	// ErrorInternalError indicates that an internal error happened
	ErrorInternalError = newHandlerError(http.StatusInternalServerError, "INTERNAL ERROR", "an internal error happened")
)

// errorMessage is used for error response
type errorMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// invalidUsernameMessage is the error response for a rejected username.
type invalidUsernameMessage struct {
	errorMessage
	Reason      string          `json:"reason"`
	Position    int             `json:"position"`
	Suggestions []entryResponse `json:"suggestions"`
}
