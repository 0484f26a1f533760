package public

import "github.com/taxepay/internal/provider"

// Handler public API handlers, reachable without authentication.
// Serves the taxpayer-facing payment flow and the aggregator callback.
type Handler struct {
	*provider.Container
}

// New creates the public handler
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
