package service

import "context"

// StoreTx is the transactional boundary around one ledger mutation's writes.
// Implementations may open a database transaction or, in-memory, pass
// through: memory store writes cannot fail once validation has passed.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
