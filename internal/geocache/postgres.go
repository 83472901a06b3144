package geocache

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the cache uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Postgres implements Store on a shared PostgreSQL database, for teams
// running many curations against the same Nominatim budget.
type Postgres struct {
	pool Pool
	ttl  time.Duration
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	key       TEXT PRIMARY KEY,
	found     BOOLEAN NOT NULL,
	cached_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// NewPostgres connects to connString and ensures the cache table exists.
// A ttl of zero means entries never expire.
func NewPostgres(ctx context.Context, connString string, ttl time.Duration) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "geocache: connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "geocache: ping postgres")
	}
	if _, err := pool.Exec(ctx, postgresMigration); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "geocache: migrate")
	}
	return &Postgres{pool: pool, ttl: ttl}, nil
}

func (p *Postgres) Get(ctx context.Context, lat, lon float64) (bool, bool, error) {
	query := `SELECT found FROM geocode_cache WHERE key = $1`
	args := []any{Key(lat, lon)}
	if p.ttl > 0 {
		query += ` AND cached_at > $2`
		args = append(args, time.Now().UTC().Add(-p.ttl))
	}

	var found bool
	err := p.pool.QueryRow(ctx, query, args...).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, eris.Wrap(err, "geocache: postgres get")
	}
	return found, true, nil
}

func (p *Postgres) Put(ctx context.Context, lat, lon float64, found bool) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO geocode_cache (key, found, cached_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET found = EXCLUDED.found, cached_at = now()`,
		Key(lat, lon), found,
	)
	return eris.Wrap(err, "geocache: postgres put")
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
