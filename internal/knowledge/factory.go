package knowledge

import (
	"context"
	"strings"
)

// NewStore creates a postgres-backed store when configured, otherwise an
// in-memory store preloaded with the built-in interpretation set.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryStore(DefaultSeed()...), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
