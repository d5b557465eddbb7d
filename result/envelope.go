// Package result provides the response envelope shared by the filter, the
// login handlers and API handlers.
//
// Every envelope carries a code of the form "<httpStatus>-<subcode>" (for
// example "401-3"). The numeric prefix is the HTTP status written with the
// envelope, so producers only pick the code and the writer derives the rest.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrInvalidCode is returned when a code has no numeric status prefix.
var ErrInvalidCode = errors.New("result code must start with a numeric status")

// Envelope is an immutable outcome of an operation.
type Envelope[T any] struct {
	Code    string `json:"resultCode"`
	Message string `json:"msg"`
	Data    T      `json:"data,omitempty"`
}

// New builds an envelope carrying data.
func New[T any](code, message string, data T) Envelope[T] {
	return Envelope[T]{Code: code, Message: message, Data: data}
}

// Fail builds an envelope without data, as used for error bodies.
func Fail(code, message string) Envelope[any] {
	return Envelope[any]{Code: code, Message: message}
}

// ParseStatusCode returns the HTTP status encoded in the first "-" separated
// segment of code.
func ParseStatusCode(code string) (int, error) {
	if code == "" {
		return 0, ErrInvalidCode
	}

	prefix, _, _ := strings.Cut(code, "-")
	status, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}

	return status, nil
}

// StatusCode returns the HTTP status of the envelope. Codes are authored by
// this module, so a malformed one is a programming error and panics.
func (e Envelope[T]) StatusCode() int {
	status, err := ParseStatusCode(e.Code)
	if err != nil {
		panic(err)
	}
	return status
}

// String returns the diagnostic form of the envelope. Data is left out so
// the result can be logged safely.
func (e Envelope[T]) String() string {
	return e.Code + ": " + e.Message
}

// Write serializes env as JSON with the status derived from its code.
func Write[T any](w http.ResponseWriter, env Envelope[T]) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("could not encode result envelope: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode())
	_, err = w.Write(body)
	return err
}
