package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"

	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/config"
)

func newSQLiteStore(t *testing.T) *GormLocalStore {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"), zap.NewNop(), gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return NewGormLocalStore(db.DB)
}

// newMockLocalStore creates a GormLocalStore with a mocked postgres connection
func newMockLocalStore(t *testing.T) (*GormLocalStore, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), zap.NewNop(), gormlogger.Silent)
	require.NoError(t, err)

	return NewGormLocalStore(db.DB), mock, mockDB
}

func TestGormLocalStore_RoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	user := identity.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}
	require.NoError(t, store.Put(ctx, shared.KeySessionUser, user))

	var got identity.User
	require.NoError(t, store.Get(ctx, shared.KeySessionUser, &got))
	assert.Equal(t, user, got)
}

func TestGormLocalStore_PutReplaces(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, shared.KeySessionToken, "first"))
	require.NoError(t, store.Put(ctx, shared.KeySessionToken, "second"))

	var got string
	require.NoError(t, store.Get(ctx, shared.KeySessionToken, &got))
	assert.Equal(t, "second", got)
}

func TestGormLocalStore_GetMissing(t *testing.T) {
	store := newSQLiteStore(t)

	var got string
	err := store.Get(context.Background(), "absent", &got)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormLocalStore_Delete(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, shared.KeyWishlistSnapshot, []string{"p1"}))
	require.NoError(t, store.Delete(ctx, shared.KeyWishlistSnapshot))
	require.NoError(t, store.Delete(ctx, shared.KeyWishlistSnapshot))

	var got []string
	assert.True(t, shared.IsNotFound(store.Get(ctx, shared.KeyWishlistSnapshot, &got)))
}

func TestGormLocalStore_Postgres(t *testing.T) {
	t.Run("put upserts by key", func(t *testing.T) {
		store, mock, mockDB := newMockLocalStore(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "local_entries"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.Put(context.Background(), shared.KeySessionToken, "tok")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get missing row returns not found", func(t *testing.T) {
		store, mock, mockDB := newMockLocalStore(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "local_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

		var got string
		err := store.Get(context.Background(), shared.KeySessionToken, &got)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get decodes stored json", func(t *testing.T) {
		store, mock, mockDB := newMockLocalStore(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "local_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
				AddRow(shared.KeySessionUser, `{"_id":"u1","name":"Ann"}`, time.Now()))

		var got identity.User
		require.NoError(t, store.Get(context.Background(), shared.KeySessionUser, &got))
		assert.Equal(t, "u1", got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete issues a keyed delete", func(t *testing.T) {
		store, mock, mockDB := newMockLocalStore(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "local_entries"`).
			WithArgs(shared.KeyCartSnapshot).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, store.Delete(context.Background(), shared.KeyCartSnapshot))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(config.StorageConfig{Driver: "memory"}, zap.NewNop(), "silent")
	assert.Error(t, err)
}
