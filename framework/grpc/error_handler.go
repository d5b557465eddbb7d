package authgrpc

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/back-devcourse/authfilter/core"
)

// ErrorHandler converts authentication errors to gRPC status errors.
type ErrorHandler func(error) error

// DefaultErrorHandler maps service errors to the gRPC code matching their
// HTTP status and hides every other error behind codes.Internal.
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrMultipleAuthHeaders) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	var serviceErr *core.ServiceError
	if errors.As(err, &serviceErr) {
		return status.Error(codeForStatus(serviceErr.StatusCode()), serviceErr.Message)
	}

	return status.Error(codes.Internal, "unable to authenticate request")
}

func codeForStatus(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
