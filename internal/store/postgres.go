package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenlab/glossa/internal/core"
)

// PostgresIdentityStore resolves identities from the user store. It is
// strictly read-only; account lifecycle is owned elsewhere.
type PostgresIdentityStore struct {
	pool *pgxpool.Pool
}

var _ core.IdentityStore = (*PostgresIdentityStore)(nil)

func NewPostgresIdentityStore(ctx context.Context, dsn string) (*PostgresIdentityStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &PostgresIdentityStore{pool: pool}, nil
}

func (s *PostgresIdentityStore) FindByID(ctx context.Context, id string) (*core.Identity, error) {
	var (
		ident  core.Identity
		name   *string
		avatar *string
	)

	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, avatar, provider FROM users WHERE id = $1`,
		id,
	).Scan(&ident.ID, &ident.Email, &name, &avatar, &ident.Provider)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("querying user %s: %w", id, err)
	}

	if name != nil {
		ident.Name = *name
	}
	if avatar != nil {
		ident.Avatar = *avatar
	}
	return &ident, nil
}

func (s *PostgresIdentityStore) Close() {
	s.pool.Close()
}
