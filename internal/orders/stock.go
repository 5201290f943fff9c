package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
)

// StockKeeper guards the one shared mutable resource in the system:
// FarmerListing.quantity_available.
type StockKeeper interface {
	Decrement(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, qty int) (bool, error)
	Restore(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, qty int) error
}

type stockKeeperImpl struct{}

// NewStockKeeper exposes the default stock keeper implementation.
func NewStockKeeper() StockKeeper {
	return stockKeeperImpl{}
}

// Decrement only lands when enough stock remains at the instant of the
// write; a zero-row result means a concurrent order got there first.
func (stockKeeperImpl) Decrement(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	if tx == nil {
		return false, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock decrement")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE farmer_listings
		SET quantity_available = quantity_available - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity_available >= ?
	`, qty, listingID, qty)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
	}
	return res.RowsAffected > 0, nil
}

func (stockKeeperImpl) Restore(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock restore")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE farmer_listings
		SET quantity_available = quantity_available + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, listingID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restore stock")
	}
	return nil
}
