package store

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ficha/internal/tenant/models"
	"ficha/pkg/platform/sentinel"
)

type backend interface {
	Get(ctx context.Context, id string) (*models.TenantConfig, error)
	Put(ctx context.Context, cfg *models.TenantConfig) error
}

func sample() *models.TenantConfig {
	at := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	cfg, _ := models.Seed(models.DemoTenantID)
	cfg.CreatedAt = &at
	cfg.LicenseKey = "LIC-42"
	return cfg
}

func exerciseRoundTrip(t *testing.T, s backend) {
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	cfg := sample()
	require.NoError(t, s.Put(ctx, cfg))

	got, err := s.Get(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, cfg.Name, got.Name)
	assert.Equal(t, cfg.LicenseKey, got.LicenseKey)
	require.NotNil(t, got.CreatedAt)
	assert.True(t, cfg.CreatedAt.Equal(*got.CreatedAt))

	// Last writer wins.
	cfg.AccentColor = "#112233"
	require.NoError(t, s.Put(ctx, cfg))
	got, err = s.Get(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, "#112233", got.AccentColor)
}

func TestInMemory(t *testing.T) {
	exerciseRoundTrip(t, NewInMemory())
}

func TestInMemoryReturnsCopies(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, sample()))

	got, err := s.Get(ctx, models.DemoTenantID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := s.Get(ctx, models.DemoTenantID)
	require.NoError(t, err)
	assert.Equal(t, "Demo Hotel", again.Name)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore(t *testing.T) {
	mr, client := newRedis(t)
	exerciseRoundTrip(t, NewRedis(client))
	assert.True(t, mr.Exists(HotelsKey))
	assert.Equal(t, []string{models.DemoTenantID}, client.HKeys(context.Background(), HotelsKey).Val())
}

func TestRedisStoreCorruptRecord(t *testing.T) {
	_, client := newRedis(t)
	require.NoError(t, client.HSet(context.Background(), HotelsKey, "broken", "{").Err())

	_, err := NewRedis(client).Get(context.Background(), "broken")
	require.Error(t, err)
	assert.False(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestRedisStoreReadsLegacyThemeColor(t *testing.T) {
	_, client := newRedis(t)
	require.NoError(t, client.HSet(context.Background(), HotelsKey, "old-inn",
		`{"id":"old-inn","name":"Old Inn","theme_color":"#10B981"}`).Err())

	got, err := NewRedis(client).Get(context.Background(), "old-inn")
	require.NoError(t, err)
	assert.Empty(t, got.AccentColor)
	assert.Equal(t, models.DeprecatedAccent, got.EffectiveAccent())
}

func TestPostgresStoreGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewPostgres(db)

	raw, err := json.Marshal(sample())
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT config FROM tenant_configs WHERE id = $1`)).
		WithArgs(models.DemoTenantID).
		WillReturnRows(sqlmock.NewRows([]string{"config"}).AddRow(raw))

	got, err := s.Get(context.Background(), models.DemoTenantID)
	require.NoError(t, err)
	assert.Equal(t, "LIC-42", got.LicenseKey)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT config FROM tenant_configs`)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"config"}))
	_, err = s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT config FROM tenant_configs`)).
		WithArgs("flaky").
		WillReturnError(errors.New("connection reset"))
	_, err = s.Get(context.Background(), "flaky")
	assert.ErrorContains(t, err, "connection reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorePutUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tenant_configs (id, config, updated_at)`)).
		WithArgs(models.DemoTenantID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPostgres(db).Put(context.Background(), sample()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
