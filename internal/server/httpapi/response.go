package httpapi

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response is the unified JSON envelope of every endpoint.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// OK returns a bare success envelope.
func OK() Response {
	return Response{Status: StatusOK}
}

// OKWithData returns a success envelope carrying data.
func OKWithData(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Error returns an error envelope with the given message.
func Error(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// ValidationError renders field violations as one human-readable message.
func ValidationError(errs validator.ValidationErrors) Response {
	var msgs []string
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s is too short", err.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Response{Status: StatusError, Error: strings.Join(msgs, ", ")}
}
