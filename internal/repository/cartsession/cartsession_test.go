package cartsession

import (
	"context"
	"os"
	"testing"
	"time"

	"matcha-storefront/internal/domain"
	"matcha-storefront/internal/migrate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise runs the contract every Repository implementation must honour.
func exercise(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()
	session := uuid.NewString()

	_, err := repo.Get(ctx, session)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Save(ctx, session, "gid://shopify/Cart/1"))
	got, err := repo.Get(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/1", got)

	require.NoError(t, repo.Save(ctx, session, "gid://shopify/Cart/2"))
	got, err = repo.Get(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/2", got)

	require.NoError(t, repo.Delete(ctx, session))
	_, err = repo.Get(ctx, session)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Ping(ctx))
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestPostgres(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE cart_sessions`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	exercise(t, NewPostgres(pool, time.Hour, nil))
}

func TestPostgres_ExpiredIsNotFound(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO cart_sessions (session_id, cart_id, expires_at) VALUES ('old', 'gid://shopify/Cart/old', now() - interval '1 minute')
ON CONFLICT (session_id) DO UPDATE SET expires_at = EXCLUDED.expires_at`); err != nil {
		t.Fatalf("insert expired: %v", err)
	}

	_, err := NewPostgres(pool, time.Hour, nil).Get(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	exercise(t, NewRedis(client, time.Minute))
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
