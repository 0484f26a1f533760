package console

import "github.com/taxepay/internal/provider"

// Handler back-office API handlers, served behind JWT auth
type Handler struct {
	*provider.Container
}

// New creates the console handler
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
