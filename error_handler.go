package authfilter

import (
	"errors"
	"net/http"

	"github.com/back-devcourse/authfilter/core"
	"github.com/back-devcourse/authfilter/result"
)

// ErrorHandler is called when the Filter rejects a request. Service errors
// (see core.ServiceError) carry the result code to answer with; anything
// else is an unexpected failure of a collaborator.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler writes {"resultCode","msg"} with the status taken from
// the code for service errors, and a bare 500 for all other errors.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var serviceErr *core.ServiceError
	if errors.As(err, &serviceErr) {
		_ = result.Write(w, serviceErr.Envelope())
		return
	}

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
