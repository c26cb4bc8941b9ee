package repository

import "context"

// Locker serializes work on a single key. Lock blocks until the key is
// acquired or ctx is done, and returns the function that releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
