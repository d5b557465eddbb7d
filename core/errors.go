package core

import (
	"errors"

	"github.com/back-devcourse/authfilter/result"
)

// ErrService matches every *ServiceError through errors.Is.
var ErrService = errors.New("service error")

// ServiceError is an expected failure that ends the request with a result
// envelope. Code has the form "<httpStatus>-<subcode>".
type ServiceError struct {
	Code    string
	Message string
}

// NewServiceError creates a ServiceError. The code must carry a numeric
// status prefix; a bad one panics because codes are authored in code.
func NewServiceError(code, message string) *ServiceError {
	if _, err := result.ParseStatusCode(code); err != nil {
		panic(err)
	}
	return &ServiceError{Code: code, Message: message}
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Message
}

// Is reports equality with ErrService and with ServiceErrors sharing the
// same code, so the package sentinels below work with errors.Is.
func (e *ServiceError) Is(target error) bool {
	if target == ErrService {
		return true
	}
	var other *ServiceError
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// Envelope returns the response body for e.
func (e *ServiceError) Envelope() result.Envelope[any] {
	return result.Fail(e.Code, e.Message)
}

// StatusCode returns the HTTP status embedded in the code.
func (e *ServiceError) StatusCode() int {
	return e.Envelope().StatusCode()
}

// Error taxonomy of the authentication flow.
var (
	// ErrMalformedCredential is returned when an Authorization header is
	// present but does not use the Bearer scheme.
	ErrMalformedCredential = NewServiceError("401-2", "Authorization header must use the Bearer scheme.")

	// ErrInvalidAPIKey is returned when the API key does not resolve to a member.
	ErrInvalidAPIKey = NewServiceError("401-3", "API key is invalid.")

	// ErrStateMismatch is returned when the federated-login state does not
	// carry the anti-forgery value issued with the authorization request.
	ErrStateMismatch = NewServiceError("401-4", "Login state is invalid.")

	// ErrProviderExchange is returned when the identity provider could not
	// complete the login.
	ErrProviderExchange = NewServiceError("502-1", "Identity provider login failed.")
)

// Configuration errors.
var (
	ErrCredentialServiceNil = errors.New("credential service cannot be nil")
	ErrLoggerNil            = errors.New("logger cannot be nil")
)
