package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/farmlink-co/farmlink-backend/pkg/migrate"
)

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestDeliveriesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_deliveries.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS deliveries",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_deliveries_order_farmer ON deliveries(order_id, farmer_id)",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS deliveries",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestListingsMigrationGuardsQuantity(t *testing.T) {
	content := readMigration(t, "*_create_farmer_listings.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS farmer_listings",
		"CHECK (quantity_available >= 0)",
		"CHECK (price > 0)",
		"DROP TABLE IF EXISTS farmer_listings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
