// pkg/secrets/postgres.go
package secrets

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgProvider implements Provider backed by PostgreSQL.
type pgProvider struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresProvider constructs a PostgreSQL-backed secret provider.
func NewPostgresProvider(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Provider {
	return &pgProvider{dbPool: dbPool, log: log}
}

// EnsureSchema creates the secrets table if it does not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tenant_secrets (
  slug text PRIMARY KEY,
  secret text NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT NOW()
);`)
	return err
}

// SeedFromEnv upserts secrets from a JSON object of slug→secret pairs.
// Empty input is a no-op. Intended for local bring-up, not production.
func SeedFromEnv(ctx context.Context, dbPool *pgxpool.Pool, seedJSON string) error {
	if seedJSON == "" {
		return nil
	}
	var entries map[string]string
	if err := json.Unmarshal([]byte(seedJSON), &entries); err != nil {
		return err
	}
	for slug, secret := range entries {
		_, err := dbPool.Exec(ctx, `
INSERT INTO tenant_secrets (slug, secret, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (slug) DO UPDATE SET secret = EXCLUDED.secret, updated_at = NOW()`, slug, secret)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *pgProvider) LookupSecret(ctx context.Context, tenant string) (string, error) {
	var secret string
	err := p.dbPool.QueryRow(ctx,
		`SELECT secret FROM tenant_secrets WHERE slug = $1`, tenant).Scan(&secret)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}
