// Package lock serializes check-then-act sections per key, either inside
// one process or across replicas through Redis.
package lock

import (
	"context"
	"errors"
)

var ErrNotObtained = errors.New("lock not obtained")

// Unlock releases a held lock. Calling it more than once is safe.
type Unlock func(ctx context.Context) error

type Locker interface {
	Acquire(ctx context.Context, key string) (Unlock, error)
}
