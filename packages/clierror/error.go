// Package clierror defines the typed error taxonomy shared by the CLI.
// Every failure that reaches the command layer carries a Code so the
// presenter can decide how to render it and which exit code to use.
package clierror

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure. Remote workspace errors that carry a
// structured reason field are converted into Codes verbatim, so the set
// below is open-ended on that edge.
type Code string

const (
	CodeParsingError            Code = "PARSING_ERROR"
	CodeFileNotFound            Code = "FILE_NOT_FOUND"
	CodeFileNotJSON             Code = "FILE_NOT_JSON"
	CodeMalformedCollection     Code = "MALFORMED_COLLECTION"
	CodeMalformedEnvFile        Code = "MALFORMED_ENV_FILE"
	CodeBulkEnvFile             Code = "BULK_ENV_FILE"
	CodeServerConnectionRefused Code = "SERVER_CONNECTION_REFUSED"
	CodeInvalidServerURL        Code = "INVALID_SERVER_URL"
	CodeTokenExpired            Code = "TOKEN_EXPIRED"
	CodeTokenInvalid            Code = "TOKEN_INVALID"
	CodeInvalidArgument         Code = "INVALID_ARGUMENT"
	CodeTestsFailing            Code = "TESTS_FAILING"
	CodeUnknown                 Code = "UNKNOWN_ERROR"
)

// Error is a tagged error value. Data carries contextual information whose
// shape depends on the Code: the offending server URL, the access token,
// a file path, or the per-entry outcome list for PARSING_ERROR.
type Error struct {
	Code Code
	Data any
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Data != nil:
		return fmt.Sprintf("%s: %v: %v", e.Code, e.Data, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Data != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Data)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error with the given code and contextual data.
func New(code Code, data any) *Error {
	return &Error{Code: code, Data: data}
}

// Wrap returns an Error with the given code and data that wraps cause.
func Wrap(code Code, data any, cause error) *Error {
	return &Error{Code: code, Data: data, Err: cause}
}

// HasCode reports whether err or any error in its chain is an *Error with
// the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the Code carried by err, if any.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
