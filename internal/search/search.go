package search

import (
	"context"
)

// Provider is a minimal interface for ranked URL discovery. Implementations
// return at most n URLs in the provider's relative ranking order, each already
// passing the configured domain policy.
type Provider interface {
	Search(ctx context.Context, query string, n int) ([]string, error)
	Name() string
}
