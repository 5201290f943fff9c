package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS catalog_entries (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  standard_unit TEXT NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
);`}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func seedEntry(t *testing.T, conn *gorm.DB, name, category string, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, conn.Exec(`
INSERT INTO catalog_entries (id, name, category, standard_unit, created_at, updated_at)
VALUES (?, ?, ?, 'kg', ?, ?)`, id, name, category, createdAt, createdAt).Error)
	return id
}

func seedActiveListing(t *testing.T, conn *gorm.DB, catalogID uuid.UUID, price string, qty int, status enums.ListingStatus) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, conn.Exec(`
INSERT INTO farmer_listings (id, farmer_id, catalog_id, price, quantity_available, unit, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 'kg', ?, ?, ?)`,
		id, uuid.New(), catalogID, price, qty, status, time.Now().UTC(), time.Now().UTC()).Error)
	return id
}

func TestRepoListEntriesPagination(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := "pagination-" + uuid.NewString()[:8]
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedEntry(t, conn, "Entry", category, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.ListEntries(ctx, pagination.Params{Limit: 3}, category)
	require.NoError(t, err)
	require.Len(t, first.Entries, 3)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.ListEntries(ctx, pagination.Params{Limit: 3, Cursor: first.NextCursor}, category)
	require.NoError(t, err)
	require.Len(t, second.Entries, 2)
	assert.Empty(t, second.NextCursor)

	// Newest first, and no overlap between pages.
	seen := map[uuid.UUID]bool{}
	var prev *time.Time
	for _, entry := range append(first.Entries, second.Entries...) {
		assert.False(t, seen[entry.ID])
		seen[entry.ID] = true
		if prev != nil {
			assert.False(t, entry.CreatedAt.After(*prev))
		}
		createdAt := entry.CreatedAt
		prev = &createdAt
	}
}

func TestRepoListEntriesCategoryFilter(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := "filter-" + uuid.NewString()[:8]
	seedEntry(t, conn, "Tomatoes", category, time.Now().UTC())
	seedEntry(t, conn, "Milk", "other-"+uuid.NewString()[:8], time.Now().UTC())

	list, err := repo.ListEntries(ctx, pagination.Params{Limit: 10}, category)
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "Tomatoes", list.Entries[0].Name)
}

func TestRepoListActiveListings(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	catalogID := seedEntry(t, conn, "Tomatoes", "vegetables", time.Now().UTC())
	cheap := seedActiveListing(t, conn, catalogID, "3.00", 10, enums.ListingStatusActive)
	pricey := seedActiveListing(t, conn, catalogID, "5.00", 10, enums.ListingStatusActive)
	seedActiveListing(t, conn, catalogID, "1.00", 0, enums.ListingStatusActive)
	seedActiveListing(t, conn, catalogID, "2.00", 10, enums.ListingStatusInactive)

	listings, err := repo.ListActiveListings(ctx, catalogID)
	require.NoError(t, err)
	require.Len(t, listings, 2, "sold-out and inactive listings are hidden")
	assert.Equal(t, cheap, listings[0].ID)
	assert.Equal(t, pricey, listings[1].ID)
}
