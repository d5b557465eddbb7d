// Package authecho adapts an authfilter.Filter to echo.
package authecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/back-devcourse/authfilter"
	"github.com/back-devcourse/authfilter/core"
)

var DefaultPrincipalKey = "principal"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	contextKey string
}

// New creates an echo middleware running filter. Rejected requests are
// answered by the filter's ErrorHandler and next is not called.
func New(filter *authfilter.Filter, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		contextKey: DefaultPrincipalKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var nextErr error
			var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)

				if p, err := core.GetPrincipal(r.Context()); err == nil {
					c.Set(config.contextKey, p)
				}

				nextErr = next(c)
			}

			filter.Handler(handler).ServeHTTP(c.Response(), c.Request())

			return nextErr
		}
	}
}

// GetPrincipal extracts the principal from the echo context.
func GetPrincipal(c echo.Context, contextKey string) (*core.Principal, bool) {
	if contextKey == "" {
		contextKey = DefaultPrincipalKey
	}
	value := c.Get(contextKey)
	if value == nil {
		return nil, false
	}

	p, ok := value.(*core.Principal)
	return p, ok
}
