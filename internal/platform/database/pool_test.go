package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ficha/internal/platform/config"
)

func TestNewWithoutURLIsDisabled(t *testing.T) {
	pool, err := New(config.DatabaseConfig{})
	require.NoError(t, err)
	assert.Nil(t, pool)
	assert.NoError(t, pool.Close())
	assert.Error(t, pool.Health(context.Background()))
}

func TestMigrateAppliesEmbeddedSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS tenant_configs")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	pool := &Pool{db: db}
	require.NoError(t, pool.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateReportsFailingFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))

	err = (&Pool{db: db}).Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_tenant_configs.sql")
}

func TestHealthPings(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	pool := &Pool{db: db}
	require.NoError(t, pool.Health(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
