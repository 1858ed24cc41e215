package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes updates to a stored table across server replicas,
// so that loading the old table, diffing and saving the new one happen as a unit.
type DistributedLocker interface {
	// Lock blocks until the lock on key (a table name) is held or ctx is done.
	// The lock expires after ttl if it is never released.
	// The returned UnlockFunc must be called to release it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
