// Package authgin adapts an authfilter.Filter to gin.
package authgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/back-devcourse/authfilter"
	"github.com/back-devcourse/authfilter/core"
)

// DefaultPrincipalKey is the gin context key the principal is stored under.
const DefaultPrincipalKey = "principal"

var (
	ErrMissingPrincipal = errors.New("no principal found in context")
	ErrInvalidPrincipal = errors.New("invalid principal type")
)

type ginMiddlewareConfig struct {
	contextKey string
}

// New creates a gin middleware running filter. Rejected requests are
// answered by the filter's ErrorHandler and aborted; authenticated ones
// carry the principal both in the gin context and in the request context.
func New(filter *authfilter.Filter, opts ...Option) gin.HandlerFunc {
	config := &ginMiddlewareConfig{
		contextKey: DefaultPrincipalKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		encounteredError := true
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			encounteredError = false
			c.Request = r

			if p, err := core.GetPrincipal(r.Context()); err == nil {
				c.Set(config.contextKey, p)
			}

			c.Next()
		}

		filter.Handler(handler).ServeHTTP(c.Writer, c.Request)

		if encounteredError {
			c.Abort()
		}
	}
}

// GetPrincipal returns the principal stored by the middleware under
// contextKey, or DefaultPrincipalKey when contextKey is empty.
func GetPrincipal(c *gin.Context, contextKey string) (*core.Principal, error) {
	if contextKey == "" {
		contextKey = DefaultPrincipalKey
	}
	value, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingPrincipal
	}

	p, ok := value.(*core.Principal)
	if !ok {
		return nil, ErrInvalidPrincipal
	}

	return p, nil
}
