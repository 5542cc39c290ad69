package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

var sqliteSeq atomic.Int64

func newSQLiteGateway(t *testing.T) *BunGateway {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, sqliteSeq.Add(1))

	db, err := Open(context.Background(), DBConfig{Driver: DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	g := NewBunGateway(db)
	require.NoError(t, g.EnsureSchema(context.Background()))
	return g
}

func TestBunGateway_SQLiteContract(t *testing.T) {
	runGatewayContract(t, func(t *testing.T) vitalset.Gateway {
		return newSQLiteGateway(t)
	})
}

func TestBunGateway_SaveUnknownIDInserts(t *testing.T) {
	g := newSQLiteGateway(t)
	ctx := context.Background()

	rec := sampleVitalSet()
	rec.ID = 42
	saved, err := g.Save(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, int64(42), saved.ID)

	got, ok, err := g.FindByID(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestBunGateway_EnsureSchemaIsIdempotent(t *testing.T) {
	g := newSQLiteGateway(t)
	assert.NoError(t, g.EnsureSchema(context.Background()))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), DBConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func newMockGateway(t *testing.T) (*BunGateway, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return NewBunGateway(db), mock
}

func TestBunGateway_PostgresFindAllEmpty(t *testing.T) {
	g, mock := newMockGateway(t)

	mock.ExpectQuery(`SELECT .* FROM "vital_sets" AS "vs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

	_, err := g.FindAll(context.Background())
	assert.ErrorIs(t, err, vitalset.ErrNoDataFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBunGateway_PostgresInsertReturnsID(t *testing.T) {
	g, mock := newMockGateway(t)

	mock.ExpectQuery(`INSERT INTO "vital_sets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	saved, err := g.Save(context.Background(), sampleVitalSet())
	require.NoError(t, err)
	assert.Equal(t, int64(9), saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBunGateway_PostgresQueryErrorIsWrapped(t *testing.T) {
	g, mock := newMockGateway(t)
	boom := errors.New("connection reset by peer")

	mock.ExpectQuery(`FROM "vital_sets"`).WillReturnError(boom)

	_, ok, err := g.FindByID(context.Background(), 3)
	require.Error(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "select vital set 3")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBunGateway_PostgresRowsAffectedErrorStopsSave(t *testing.T) {
	g, mock := newMockGateway(t)
	boom := errors.New("rows affected not supported")

	mock.ExpectExec(`UPDATE "vital_sets"`).WillReturnResult(sqlmock.NewErrorResult(boom))

	rec := sampleVitalSet()
	rec.ID = 5
	_, err := g.Save(context.Background(), rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "vital set 5")
	assert.NoError(t, mock.ExpectationsWereMet(), "no insert should follow a failed update")
}
