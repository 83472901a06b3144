package geocache

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T, ttl time.Duration) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &Postgres{pool: mock, ttl: ttl}, mock
}

func TestPostgresGetMiss(t *testing.T) {
	p, mock := newMockPostgres(t, 0)

	mock.ExpectQuery(`SELECT found FROM geocode_cache WHERE key = \$1`).
		WithArgs(Key(-23.5505, -46.6333)).
		WillReturnError(pgx.ErrNoRows)

	_, hit, err := p.Get(context.Background(), -23.5505, -46.6333)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetHit(t *testing.T) {
	p, mock := newMockPostgres(t, 0)

	mock.ExpectQuery(`SELECT found FROM geocode_cache WHERE key = \$1`).
		WithArgs(Key(10, 20)).
		WillReturnRows(pgxmock.NewRows([]string{"found"}).AddRow(true))

	found, hit, err := p.Get(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetWithTTL(t *testing.T) {
	p, mock := newMockPostgres(t, 24*time.Hour)

	mock.ExpectQuery(`SELECT found FROM geocode_cache WHERE key = \$1 AND cached_at > \$2`).
		WithArgs(Key(10, 20), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, hit, err := p.Get(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPut(t *testing.T) {
	p, mock := newMockPostgres(t, 0)

	mock.ExpectExec(`INSERT INTO geocode_cache`).
		WithArgs(Key(10, 20), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, p.Put(context.Background(), 10, 20, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetError(t *testing.T) {
	p, mock := newMockPostgres(t, 0)

	mock.ExpectQuery(`SELECT found FROM geocode_cache`).
		WithArgs(Key(10, 20)).
		WillReturnError(assert.AnError)

	_, _, err := p.Get(context.Background(), 10, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres get")
}
