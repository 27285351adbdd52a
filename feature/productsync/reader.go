package productsync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"epos-sync/core/utils"
	"epos-sync/feature/productsync/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// sourceRow is the raw projection of one epos_sync row.
type sourceRow struct {
	Sku         string              `gorm:"column:sku"`
	Product     *string             `gorm:"column:product"`
	Brand       *string             `gorm:"column:brand"`
	Status      *bool               `gorm:"column:status"`
	RoSell      decimal.NullDecimal `gorm:"column:ro_sell"`
	Cost        decimal.NullDecimal `gorm:"column:cost"`
	TaxRate     decimal.NullDecimal `gorm:"column:tax_rate"`
	Barcode     *string             `gorm:"column:barcode"`
	Rrp         decimal.NullDecimal `gorm:"column:rrp"`
	Soh         decimal.NullDecimal `gorm:"column:soh"`
	Weight      decimal.NullDecimal `gorm:"column:weight"`
	Store       *bool               `gorm:"column:store"`
	Collect     *bool               `gorm:"column:collect"`
	Delivery    *bool               `gorm:"column:delivery"`
	DateCreated *time.Time          `gorm:"column:date_created"`
	LastUpdated *time.Time          `gorm:"column:last_updated"`
	Category    *string             `gorm:"column:category"`
	Subcategory *string             `gorm:"column:subcategory"`
}

// destinationRow is the raw projection of one Product row joined to its brand.
type destinationRow struct {
	ID                   int                 `gorm:"column:id"`
	Sku                  string              `gorm:"column:sku"`
	Name                 *string             `gorm:"column:name"`
	BrandID              *int                `gorm:"column:brand_id"`
	BrandName            *string             `gorm:"column:brand_name"`
	Price                decimal.NullDecimal `gorm:"column:price"`
	ProductCost          decimal.NullDecimal `gorm:"column:product_cost"`
	StockQuantity        int                 `gorm:"column:stock_quantity"`
	Gtin                 *string             `gorm:"column:gtin"`
	Weight               decimal.NullDecimal `gorm:"column:weight"`
	Published            bool                `gorm:"column:published"`
	Deleted              bool                `gorm:"column:deleted"`
	DisableBuyButton     bool                `gorm:"column:disable_buy_button"`
	OrderMaximumQuantity int                 `gorm:"column:order_maximum_quantity"`
}

// ReadSource returns every EPOS product with a numeric SKU that is sold in store or for
// collection, in read order.
func ReadSource(ctx context.Context, db *gorm.DB) ([]models.SourceRecord, error) {
	var rows []sourceRow
	err := db.WithContext(ctx).
		Table(models.SourceTable).
		Select(models.SourceColumns).
		Where("store = ? OR collect = ?", true, true).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", models.SourceTable, err)
	}

	records := make([]models.SourceRecord, 0, len(rows))
	for _, row := range rows {
		sku, ok := utils.ParseSKU(row.Sku)
		if !ok {
			continue
		}

		store, collect := boolOf(row.Store), boolOf(row.Collect)
		if !store && !collect {
			continue
		}

		records = append(records, models.SourceRecord{
			SKU:          sku,
			Name:         stringOf(row.Product),
			Brand:        row.Brand,
			Active:       boolOf(row.Status),
			SellPrice:    decimalOf(row.RoSell),
			Cost:         decimalOf(row.Cost),
			TaxRate:      decimalOf(row.TaxRate),
			Barcode:      stringOf(row.Barcode),
			RRP:          decimalOf(row.Rrp),
			StockOnHand:  int(decimalOf(row.Soh).IntPart()),
			Weight:       decimalOf(row.Weight),
			StoreFlag:    store,
			CollectFlag:  collect,
			DeliveryFlag: boolOf(row.Delivery),
			Category:     stringOf(row.Category),
			Subcategory:  stringOf(row.Subcategory),
			CreatedAt:    row.DateCreated,
			LastUpdated:  row.LastUpdated,
		})
	}

	return records, nil
}

// ReadDestination returns every live storefront product with a numeric SKU, each carrying
// the brand it is linked to (nil when unlinked), ordered by ascending SKU.
//
// A product linked to several manufacturers yields one record; the lowest link wins.
func ReadDestination(ctx context.Context, db *gorm.DB) ([]models.DestinationRecord, error) {
	var rows []destinationRow
	err := db.WithContext(ctx).
		Table(models.ProductTable + " AS p").
		Select(`p.Id AS id, p.Sku AS sku, p.Name AS name, m.Id AS brand_id, m.Name AS brand_name,
			p.Price AS price, p.ProductCost AS product_cost, p.StockQuantity AS stock_quantity,
			p.Gtin AS gtin, p.Weight AS weight, p.Published AS published, p.Deleted AS deleted,
			p.DisableBuyButton AS disable_buy_button, p.OrderMaximumQuantity AS order_maximum_quantity`).
		Joins("LEFT JOIN " + models.BrandLinkTable + " pmm ON pmm.ProductId = p.Id").
		Joins("LEFT JOIN " + models.BrandTable + " m ON m.Id = pmm.ManufacturerId").
		Where("p.Deleted = ?", false).
		Order("p.Id").
		Order("pmm.Id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", models.ProductTable, err)
	}

	seen := make(map[int]struct{}, len(rows))
	records := make([]models.DestinationRecord, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.ID]; dup {
			continue
		}
		seen[row.ID] = struct{}{}

		sku, ok := utils.ParseSKU(row.Sku)
		if !ok {
			continue
		}

		records = append(records, models.DestinationRecord{
			ID:                   row.ID,
			SKU:                  sku,
			Name:                 stringOf(row.Name),
			BrandID:              row.BrandID,
			BrandName:            row.BrandName,
			Price:                decimalOf(row.Price),
			Cost:                 decimalOf(row.ProductCost),
			StockOnHand:          row.StockQuantity,
			Barcode:              stringOf(row.Gtin),
			Weight:               decimalOf(row.Weight),
			Published:            row.Published,
			Deleted:              row.Deleted,
			BuyButtonDisabled:    row.DisableBuyButton,
			OrderMaximumQuantity: row.OrderMaximumQuantity,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SKU != records[j].SKU {
			return records[i].SKU < records[j].SKU
		}
		return records[i].ID < records[j].ID
	})

	return records, nil
}

func stringOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolOf(b *bool) bool {
	return b != nil && *b
}

func decimalOf(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
