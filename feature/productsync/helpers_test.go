package productsync

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"epos-sync/feature/productsync/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memoryDSN returns a shared in-memory SQLite DSN unique to the test.
func memoryDSN(t *testing.T, side string) string {
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, side)
}

func openTestDB(t *testing.T, dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "failed to connect database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// setupTestDBs creates the EPOS and storefront schemas in two in-memory databases.
// The returned handles keep the databases alive until the test ends.
func setupTestDBs(t *testing.T) (src, dst *gorm.DB) {
	src = openTestDB(t, memoryDSN(t, "epos"))
	dst = openTestDB(t, memoryDSN(t, "web"))

	err := src.Exec(`CREATE TABLE epos_sync (
		sku TEXT,
		product TEXT,
		brand TEXT,
		status INTEGER,
		ro_sell NUMERIC,
		cost NUMERIC,
		tax_rate NUMERIC,
		barcode TEXT,
		rrp NUMERIC,
		soh NUMERIC,
		weight NUMERIC,
		store INTEGER,
		collect INTEGER,
		delivery INTEGER,
		date_created DATETIME,
		last_updated DATETIME,
		category TEXT,
		subcategory TEXT
	)`).Error
	require.NoError(t, err, "failed to create epos_sync")

	createTable(t, dst, models.ProductTable, models.ProductDefaults(time.Time{}))
	createTable(t, dst, models.BrandTable, models.BrandDefaults("", time.Time{}))
	err = dst.Exec(`CREATE TABLE Product_Manufacturer_Mapping (
		Id INTEGER PRIMARY KEY AUTOINCREMENT,
		ProductId INTEGER,
		ManufacturerId INTEGER,
		IsFeaturedProduct INTEGER,
		DisplayOrder INTEGER
	)`).Error
	require.NoError(t, err, "failed to create Product_Manufacturer_Mapping")

	return src, dst
}

// createTable creates a table with an identity column plus one column per default.
func createTable(t *testing.T, db *gorm.DB, table string, defaults map[string]any) {
	cols := []string{"Id INTEGER PRIMARY KEY AUTOINCREMENT"}
	for name, v := range defaults {
		var typ string
		switch v.(type) {
		case bool, int:
			typ = "INTEGER"
		case decimal.Decimal:
			typ = "NUMERIC"
		case time.Time:
			typ = "DATETIME"
		default:
			typ = "TEXT"
		}
		cols = append(cols, name+" "+typ)
	}
	err := db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", "))).Error
	require.NoError(t, err, "failed to create %s", table)
}

// seedSource inserts an active, in-stock, collectable EPOS product and applies overrides.
func seedSource(t *testing.T, db *gorm.DB, sku string, overrides map[string]any) {
	row := map[string]any{
		"sku":         sku,
		"product":     "Product " + sku,
		"brand":       nil,
		"status":      1,
		"ro_sell":     "10.00",
		"cost":        "4.50",
		"tax_rate":    20,
		"barcode":     "50000" + sku,
		"rrp":         "12.00",
		"soh":         5,
		"weight":      "0.5",
		"store":       1,
		"collect":     1,
		"delivery":    0,
		"category":    "Garden",
		"subcategory": "Tools",
	}
	for k, v := range overrides {
		row[k] = v
	}
	require.NoError(t, db.Table(models.SourceTable).Create(row).Error)
}

// seedProduct inserts a live storefront product that matches the default EPOS product.
func seedProduct(t *testing.T, db *gorm.DB, sku string, overrides map[string]any) int {
	row := models.ProductDefaults(time.Now().UTC())
	row["Sku"] = sku
	row["Name"] = "Product " + sku
	row["Published"] = true
	row["Price"] = decimal.RequireFromString("10.00")
	row["StockQuantity"] = 5
	row["Gtin"] = "50000" + sku
	row["TaxCategoryId"] = models.TaxCategoryStandard
	for k, v := range overrides {
		row[k] = v
	}
	require.NoError(t, db.Table(models.ProductTable).Create(row).Error)

	var ids []int
	require.NoError(t, db.Table(models.ProductTable).Where("Sku = ?", sku).Order("Id DESC").Limit(1).Pluck("Id", &ids).Error)
	require.Len(t, ids, 1)
	return ids[0]
}

// seedBrand creates a manufacturer and returns its id.
func seedBrand(t *testing.T, db *gorm.DB, name string) int {
	require.NoError(t, db.Table(models.BrandTable).Create(models.BrandDefaults(name, time.Now().UTC())).Error)
	brand, err := findBrand(context.Background(), db, name)
	require.NoError(t, err)
	require.NotNil(t, brand)
	return brand.ID
}

// linkBrand links productID to brandID directly.
func linkBrand(t *testing.T, db *gorm.DB, productID, brandID int) {
	require.NoError(t, db.Create(&models.BrandLink{ProductID: productID, BrandID: brandID, DisplayOrder: 1}).Error)
}

func readProduct(t *testing.T, db *gorm.DB, id int) map[string]any {
	var row map[string]any
	require.NoError(t, db.Table(models.ProductTable).Where("Id = ?", id).Take(&row).Error)
	return row
}

func countRows(t *testing.T, db *gorm.DB, table string, query string, args ...any) int64 {
	var n int64
	q := db.Table(table)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func newTestAdapter(src, dst *gorm.DB) *ProductAdapter {
	return NewAdapter(src, dst, zap.NewNop())
}

func ptr[T any](v T) *T {
	return &v
}
