package ports

import "context"

// IdempotencyStore remembers which resource an Idempotency-Key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (int64, bool, error)
	Remember(ctx context.Context, scope, key string, id int64) error
}
