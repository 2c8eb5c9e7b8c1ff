package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BeginTxWithRealm starts a transaction and sets app.realm for row level
// security policies keyed on the realm name.
// Call tx.Rollback(ctx) on error paths; Commit on success.
func BeginTxWithRealm(ctx context.Context, pool *pgxpool.Pool, realm string) (pgx.Tx, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, "SELECT set_config('app.realm', $1, true)", realm); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	return tx, nil
}
