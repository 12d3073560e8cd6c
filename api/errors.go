package api

import (
	"fmt"
	"net/http"
)

// StatusError wraps a non-2xx response from the server.
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		return "something went wrong, please see the cevia server logs for details"
	}
}

// ErrorResponse is the JSON body the server attaches to failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newStatusError(code int, message string) StatusError {
	return StatusError{
		StatusCode:   code,
		Status:       http.StatusText(code),
		ErrorMessage: message,
	}
}
