// AngelaMos | 2026
// repository.go

package asset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Asset, error)
	GetByID(ctx context.Context, id string) (*Asset, error)
	Create(ctx context.Context, asset *Asset) error
	Update(ctx context.Context, asset *Asset) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, since time.Time) (*Stats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const assetColumns = `id, name, type, description, purchasedate, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		ORDER BY created_at DESC`

	assets := []Asset{}
	if err := r.db.SelectContext(ctx, &assets, query); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	return assets, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE id = $1`

	var asset Asset
	err := r.db.GetContext(ctx, &asset, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get asset: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}

	return &asset, nil
}

func (r *repository) Create(ctx context.Context, asset *Asset) error {
	query := `
		INSERT INTO assets (id, name, type, description, purchasedate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, asset, query,
		asset.ID,
		asset.Name,
		asset.Type,
		asset.Description,
		asset.PurchaseDate,
	)
	if err != nil {
		return fmt.Errorf("create asset: %w", core.GatewayError(err))
	}

	return nil
}

func (r *repository) Update(ctx context.Context, asset *Asset) error {
	query := `
		UPDATE assets
		SET name = $2, type = $3, description = $4, purchasedate = $5,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, asset, query,
		asset.ID,
		asset.Name,
		asset.Type,
		asset.Description,
		asset.PurchaseDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update asset: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update asset: %w", core.GatewayError(err))
	}

	return nil
}

// Delete removes the asset row. Its tasks go with it through the foreign
// key, and deleting a missing id is not an error.
func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM assets WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete asset: %w", core.GatewayError(err))
	}

	return nil
}

func (r *repository) Stats(ctx context.Context, since time.Time) (*Stats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(DISTINCT lower(type)) AS distinct_types,
			COUNT(*) FILTER (WHERE created_at >= $1) AS recently_added,
			COUNT(purchasedate) AS with_purchase_date
		FROM assets`

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query, since); err != nil {
		return nil, fmt.Errorf("asset stats: %w", err)
	}

	return &stats, nil
}
