package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Response struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// Machine-readable error kinds carried in the Code field.
const (
	CodeValidation        = "validation"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeEventNotApproved  = "event_not_approved"
	CodeEventFinished     = "event_finished"
	CodeInsufficientSeats = "insufficient_seats"
	CodeInvalidCapacity   = "invalid_capacity"
	CodeEventHasBookings  = "event_has_bookings"
	CodeStatusAlreadySet  = "status_already_set"
	CodeDuplicateEmail    = "duplicate_email"
	CodeConsistency       = "consistency"
	CodeInternal          = "internal"
)

func OK() Response {
	return Response{Status: StatusOK}
}

func Error(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// Fail builds an error response with a machine-readable code.
func Fail(code, msg string) Response {
	return Response{Status: StatusError, Code: code, Error: msg}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid email address", err.Field()))
		case "min":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is shorter than the minimum of %s", err.Field(), err.Param()))
		case "max":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is longer than the maximum of %s", err.Field(), err.Param()))
		case "gte":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "oneof":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Code:   CodeValidation,
		Error:  strings.Join(errMsgs, ", "),
	}
}
