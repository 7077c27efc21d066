// AngelaMos | 2026
// repository_test.go

package asset

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

var assetCols = []string{
	"id", "name", "type", "description", "purchasedate", "created_at", "updated_at",
}

func TestRepositoryListNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM assets\s+ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow("a2", "Forklift", "Vehicle", nil, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), now, now).
			AddRow("a1", "Drill", "tool", "cordless", nil, now.Add(-time.Hour), now))

	assets, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)

	assert.Equal(t, "a2", assets[0].ID)
	require.NotNil(t, assets[0].PurchaseDate)
	assert.Equal(t, "2024-05-01", assets[0].PurchaseDate.String())
	assert.Nil(t, assets[0].Description)

	require.NotNil(t, assets[1].Description)
	assert.Equal(t, "cordless", *assets[1].Description)
	assert.Nil(t, assets[1].PurchaseDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListEmptyIsNotNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .* FROM assets`).
		WillReturnRows(sqlmock.NewRows(assetCols))

	assets, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, assets)
	assert.Empty(t, assets)
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`FROM assets\s+WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(assetCols))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryCreateStoresNulls(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO assets`).
		WithArgs("id-1", "Boiler", "building", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	a := &Asset{ID: "id-1", Name: "Boiler", Type: "building"}
	require.NoError(t, repo.Create(context.Background(), a))

	assert.Equal(t, now, a.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateConstraintViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO assets`).
		WillReturnError(&pgconn.PgError{
			Code:    "23514",
			Message: `new row for relation "assets" violates check constraint "assets_name_check"`,
		})

	d := schedule.Date{Year: 2026, Month: time.January, Day: 1}
	err := repo.Create(context.Background(), &Asset{ID: "x", Name: " ", Type: "t", PurchaseDate: &d})
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "assets_name_check")
	assert.True(t, errors.Is(err, core.ErrConstraint))
}

func TestRepositoryUpdateMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`UPDATE assets`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	err := repo.Update(context.Background(), &Asset{ID: "gone", Name: "n", Type: "t"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryDeleteIsUnconditional(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM assets WHERE id = \$1`).
		WithArgs("nobody").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "nobody"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`COUNT\(DISTINCT lower\(type\)\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"total", "distinct_types", "recently_added", "with_purchase_date"},
		).AddRow(12, 4, 3, 7))

	stats, err := repo.Stats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 12, DistinctTypes: 4, RecentlyAdded: 3, WithPurchaseDate: 7}, *stats)
}
