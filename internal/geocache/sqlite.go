package geocache

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLite implements Store on a local SQLite file via modernc.org/sqlite.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	key       TEXT PRIMARY KEY,
	found     INTEGER NOT NULL,
	cached_at DATETIME NOT NULL
);
`

// NewSQLite opens (creating if needed) the cache database at path. A ttl of
// zero means entries never expire.
func NewSQLite(path string, ttl time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "geocache: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck,gosec
			return nil, eris.Wrapf(err, "geocache: exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close() //nolint:errcheck,gosec
		return nil, eris.Wrap(err, "geocache: migrate")
	}
	return &SQLite{db: db, ttl: ttl}, nil
}

func (s *SQLite) Get(ctx context.Context, lat, lon float64) (bool, bool, error) {
	query := `SELECT found FROM geocode_cache WHERE key = ?`
	args := []any{Key(lat, lon)}
	if s.ttl > 0 {
		query += ` AND cached_at > ?`
		args = append(args, time.Now().UTC().Add(-s.ttl))
	}

	var found bool
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&found)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, eris.Wrap(err, "geocache: sqlite get")
	}
	return found, true, nil
}

func (s *SQLite) Put(ctx context.Context, lat, lon float64, found bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO geocode_cache (key, found, cached_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET found = excluded.found, cached_at = excluded.cached_at`,
		Key(lat, lon), found, time.Now().UTC(),
	)
	return eris.Wrap(err, "geocache: sqlite put")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
