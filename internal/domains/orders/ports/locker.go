package ports

import "context"

// UnlockFunc releases a lock obtained from a ProductLocker.
type UnlockFunc func(ctx context.Context) error

// ProductLocker serializes read-modify-write cycles on a single product row.
type ProductLocker interface {
	// Lock blocks until the product is held or ctx is done.
	Lock(ctx context.Context, productID int64) (UnlockFunc, error)
}
