package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"realmgate/pkg/db"
)

// PostgresSink stores events in audit_events, one transaction per event.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink { return &PostgresSink{pool: pool} }

// EnsureSchema creates audit_events if needed. Idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS audit_events (
  id uuid PRIMARY KEY,
  realm text NOT NULL,
  type text NOT NULL,
  client_id text,
  subject text,
  ip_address text,
  error text,
  details jsonb NOT NULL DEFAULT '{}'::jsonb,
  created_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS audit_events_realm_created_idx ON audit_events(realm, created_at DESC);
`)
	return err
}

func (s *PostgresSink) Write(ctx context.Context, ev Event) error {
	tx, err := db.BeginTxWithRealm(ctx, s.pool, ev.Realm)
	if err != nil {
		return err
	}
	details := ev.Details
	if details == nil {
		details = map[string]string{}
	}
	if _, err := tx.Exec(ctx, `INSERT INTO audit_events(id, realm, type, client_id, subject, ip_address, error, details, created_at)
	  VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),NULLIF($6,''),NULLIF($7,''),$8,$9)`,
		ev.ID, ev.Realm, ev.Type, ev.ClientID, ev.Subject, ev.IPAddress, ev.Error, details, ev.Time); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
