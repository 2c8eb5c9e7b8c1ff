// pkg/realms/postgres.go
package realms

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DB is the part of *pgxpool.Pool the realm store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgProvider implements Provider backed by PostgreSQL.
type pgProvider struct {
	dbPool DB
	log    *zap.SugaredLogger
}

// NewPostgresProvider constructs a PostgreSQL-backed realm store.
func NewPostgresProvider(dbPool DB, log *zap.SugaredLogger) Provider {
	return &pgProvider{dbPool: dbPool, log: log}
}

// EnsureSchema creates the realm tables if they do not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool DB) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS realms (
  name text PRIMARY KEY,
  public_key text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS realm_clients (
  realm text NOT NULL REFERENCES realms(name) ON DELETE CASCADE,
  client_id text NOT NULL,
  kind text NOT NULL DEFAULT 'application',
  enabled boolean NOT NULL DEFAULT true,
  web_origins text[] NOT NULL DEFAULT '{}',
  redirect_uris text[] NOT NULL DEFAULT '{}',
  PRIMARY KEY (realm, client_id)
);
`)
	return err
}

// UpsertSeeds writes realms and their clients. Clients missing from a seed are
// left untouched.
func UpsertSeeds(ctx context.Context, dbPool DB, seeds []Seed) error {
	for _, s := range seeds {
		r := s.Realm()
		if _, err := dbPool.Exec(ctx, `INSERT INTO realms(name, public_key) VALUES ($1, $2)
		  ON CONFLICT (name) DO UPDATE SET public_key = EXCLUDED.public_key`, r.Name, r.PublicKeyPEM); err != nil {
			return fmt.Errorf("seed realm %s: %w", r.Name, err)
		}
		for _, c := range r.Clients {
			if _, err := dbPool.Exec(ctx, `INSERT INTO realm_clients(realm, client_id, kind, enabled, web_origins, redirect_uris)
			  VALUES ($1,$2,$3,$4,$5,$6)
			  ON CONFLICT (realm, client_id) DO UPDATE SET kind=EXCLUDED.kind, enabled=EXCLUDED.enabled,
			    web_origins=EXCLUDED.web_origins, redirect_uris=EXCLUDED.redirect_uris`,
				r.Name, c.ClientID, string(c.Kind), c.Enabled, c.WebOrigins, c.RedirectURIs); err != nil {
				return fmt.Errorf("seed client %s/%s: %w", r.Name, c.ClientID, err)
			}
		}
	}
	return nil
}

// FindRealmByName loads a realm with all of its clients.
func (p *pgProvider) FindRealmByName(ctx context.Context, name string) (*Realm, error) {
	r, err := p.findRealm(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		p.log.Warnw("realm lookup failed", "realm", name, "err", err)
	}
	return r, err
}

func (p *pgProvider) findRealm(ctx context.Context, name string) (*Realm, error) {
	var publicKey string
	err := p.dbPool.QueryRow(ctx, `SELECT public_key FROM realms WHERE name=$1`, name).Scan(&publicKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load realm %s: %w", name, err)
	}

	rows, err := p.dbPool.Query(ctx, `SELECT client_id, kind, enabled, web_origins, redirect_uris FROM realm_clients WHERE realm=$1`, name)
	if err != nil {
		return nil, fmt.Errorf("load clients of %s: %w", name, err)
	}
	defer rows.Close()
	var clients []*Client
	for rows.Next() {
		var c Client
		var kind string
		if err := rows.Scan(&c.ClientID, &kind, &c.Enabled, &c.WebOrigins, &c.RedirectURIs); err != nil {
			return nil, fmt.Errorf("scan client of %s: %w", name, err)
		}
		c.Kind = ClientKind(kind)
		clients = append(clients, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load clients of %s: %w", name, err)
	}
	return NewRealm(name, publicKey, clients...), nil
}
