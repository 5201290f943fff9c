package orders

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStockTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`
CREATE TABLE IF NOT EXISTS farmer_listings (
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL,
  catalog_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity_available INTEGER NOT NULL DEFAULT 0,
  unit TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return conn
}

func seedListing(t *testing.T, conn *gorm.DB, qty int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, conn.Exec(`
		INSERT INTO farmer_listings (id, farmer_id, catalog_id, price, quantity_available, unit, status)
		VALUES (?, ?, ?, '10.00', ?, 'kg', 'active')
	`, id, uuid.New(), uuid.New(), qty).Error)
	return id
}

func remainingQty(t *testing.T, conn *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var qty int
	require.NoError(t, conn.Raw(`SELECT quantity_available FROM farmer_listings WHERE id = ?`, id).Scan(&qty).Error)
	return qty
}

func TestStockKeeperDecrement(t *testing.T) {
	conn := setupStockTestDB(t)
	keeper := NewStockKeeper()
	ctx := context.Background()

	id := seedListing(t, conn, 5)

	ok, err := keeper.Decrement(ctx, conn, id, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, remainingQty(t, conn, id))

	// More than remains: the guard must refuse rather than go negative.
	ok, err = keeper.Decrement(ctx, conn, id, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, remainingQty(t, conn, id))

	// Exactly what remains exhausts the listing.
	ok, err = keeper.Decrement(ctx, conn, id, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, remainingQty(t, conn, id))

	ok, err = keeper.Decrement(ctx, conn, id, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStockKeeperNoOversellUnderContention(t *testing.T) {
	conn := setupStockTestDB(t)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// Serialize writes on one connection; sqlite would otherwise return
	// busy errors instead of queueing the concurrent updates.
	sqlDB.SetMaxOpenConns(1)

	keeper := NewStockKeeper()
	ctx := context.Background()

	const (
		available = 10
		perOrder  = 2
		attempts  = 25
	)
	id := seedListing(t, conn, available)

	var wg sync.WaitGroup
	var successes, failures atomic.Int64
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := keeper.Decrement(ctx, conn, id, perOrder)
			if err != nil {
				failures.Add(1)
				return
			}
			if ok {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures.Load(), "decrements must not error under contention")
	assert.Equal(t, int64(available/perOrder), successes.Load(),
		"only as many orders may land as the stock covers")
	assert.Equal(t, 0, remainingQty(t, conn, id), "stock must never go negative")
}

func TestStockKeeperRestore(t *testing.T) {
	conn := setupStockTestDB(t)
	keeper := NewStockKeeper()
	ctx := context.Background()

	id := seedListing(t, conn, 1)
	require.NoError(t, keeper.Restore(ctx, conn, id, 4))
	assert.Equal(t, 5, remainingQty(t, conn, id))
}

func TestStockKeeperRequiresTx(t *testing.T) {
	keeper := NewStockKeeper()
	ctx := context.Background()

	_, err := keeper.Decrement(ctx, nil, uuid.New(), 1)
	assert.Error(t, err)
	assert.Error(t, keeper.Restore(ctx, nil, uuid.New(), 1))
}

func TestStockKeeperIgnoresNonPositiveQty(t *testing.T) {
	keeper := NewStockKeeper()
	ctx := context.Background()

	ok, err := keeper.Decrement(ctx, nil, uuid.New(), 0)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, keeper.Restore(ctx, nil, uuid.New(), -2))
}
