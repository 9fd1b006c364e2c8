package main

import (
	"context"
	"database/sql"

	"hemotrace/pkg/platform/tx"
)

// registryPostgresTx scopes one ledger mutation's writes to a single database
// transaction carried on the context, so the blood unit, its transfer record,
// and the donor row commit or roll back together.
type registryPostgresTx struct {
	db *sql.DB
}

func newRegistryPostgresTx(db *sql.DB) *registryPostgresTx {
	return &registryPostgresTx{db: db}
}

func (t *registryPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tx.Run(ctx, t.db, fn)
}
