package authgin

// Option defines a functional option for configuring the middleware
type Option func(*ginMiddlewareConfig)

// WithContextKey sets the gin context key the principal is stored under.
func WithContextKey(key string) Option {
	return func(config *ginMiddlewareConfig) {
		if key != "" {
			config.contextKey = key
		}
	}
}
