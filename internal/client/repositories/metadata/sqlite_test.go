package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:metadata_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM metadata`)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_GetAbsentKeyReturnsNil(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	v, err := repo.Get(context.Background(), "token")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSQLiteRepository_SetGetRoundTrip(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "token", []byte("tok-123")))

	v, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("tok-123"), v)
}

func TestSQLiteRepository_SetOverwrites(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "token", []byte("old")))
	require.NoError(t, repo.Set(ctx, "token", []byte("new")))

	v, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestSQLiteRepository_DeleteAndClear(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "token", []byte("t")))
	require.NoError(t, repo.Set(ctx, "profile", []byte("{}")))

	require.NoError(t, repo.Delete(ctx, "token"))
	v, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, repo.Delete(ctx, "token"), "deleting absent key is fine")

	require.NoError(t, repo.Clear(ctx))
	v, err = repo.Get(ctx, "profile")
	require.NoError(t, err)
	require.Nil(t, v)
}
