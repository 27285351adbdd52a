package productsync

import (
	"context"
	"fmt"
	"time"

	"epos-sync/core/reconcile"
	"epos-sync/core/utils"
	"epos-sync/feature/productsync/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BrandStats counts brand linkage writes made during one run.
type BrandStats struct {
	BrandsCreated  int `json:"brands_created"`
	LinksCreated   int `json:"links_created"`
	LinksRepointed int `json:"links_repointed"`
	LinksRemoved   int `json:"links_removed"`
}

func (b *BrandStats) record(r LinkResult) {
	if r.BrandCreated {
		b.BrandsCreated++
	}
	switch r.Change {
	case LinkCreated:
		b.LinksCreated++
	case LinkRepointed:
		b.LinksRepointed++
	case LinkRemoved:
		b.LinksRemoved++
	}
}

// ProductAdapter reconciles EPOS products into the storefront Product table.
// It implements reconcile.Adapter and reconcile.Mutator.
type ProductAdapter struct {
	source      *gorm.DB
	destination *gorm.DB
	logger      *zap.Logger
	now         func() time.Time
	brands      BrandStats

	// deleted maps numeric SKU to the first soft-deleted product id, loaded on first use
	deleted map[int64]int
}

// NewAdapter creates a product adapter reading from source and writing to destination.
func NewAdapter(source, destination *gorm.DB, logger *zap.Logger) *ProductAdapter {
	return &ProductAdapter{
		source:      source,
		destination: destination,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Name returns the adapter name.
func (a *ProductAdapter) Name() string {
	return "products"
}

// BrandStats returns the brand writes made so far.
func (a *ProductAdapter) BrandStats() BrandStats {
	return a.brands
}

// LoadSource reads the EPOS extract.
func (a *ProductAdapter) LoadSource(ctx context.Context) ([]reconcile.SourceItem, error) {
	records, err := ReadSource(ctx, a.source)
	if err != nil {
		return nil, err
	}
	items := make([]reconcile.SourceItem, len(records))
	for i := range records {
		items[i] = records[i]
	}
	return items, nil
}

// LoadDestination reads the live storefront extract.
func (a *ProductAdapter) LoadDestination(ctx context.Context) ([]reconcile.DestItem, error) {
	records, err := ReadDestination(ctx, a.destination)
	if err != nil {
		return nil, err
	}
	a.deleted = nil
	items := make([]reconcile.DestItem, len(records))
	for i := range records {
		items[i] = records[i]
	}
	return items, nil
}

// SourceKey returns the SKU of an EPOS product.
func (a *ProductAdapter) SourceKey(item reconcile.SourceItem) string {
	return utils.FormatSKU(item.(models.SourceRecord).SKU)
}

// DestKey returns the SKU of a storefront product.
func (a *ProductAdapter) DestKey(item reconcile.DestItem) string {
	return utils.FormatSKU(item.(models.DestinationRecord).SKU)
}

// CompareFields applies the needs-update predicate.
func (a *ProductAdapter) CompareFields(dest reconcile.DestItem, src reconcile.SourceItem) []string {
	return NeedsUpdate(dest.(models.DestinationRecord), src.(models.SourceRecord))
}

// Update rewrites a matched product from its EPOS record, brand first.
func (a *ProductAdapter) Update(ctx context.Context, dest reconcile.DestItem, src reconcile.SourceItem) error {
	d := dest.(models.DestinationRecord)
	return a.rewrite(ctx, d.ID, src.(models.SourceRecord))
}

// SoftDelete flags a product without an EPOS record as deleted. No other column changes.
func (a *ProductAdapter) SoftDelete(ctx context.Context, dest reconcile.DestItem) error {
	d := dest.(models.DestinationRecord)
	err := a.destination.WithContext(ctx).
		Table(models.ProductTable).
		Where("Id = ?", d.ID).
		Update("Deleted", true).Error
	if err != nil {
		return fmt.Errorf("failed to soft delete product %d (sku %d): %w", d.ID, d.SKU, err)
	}
	return nil
}

// Create reinstates a soft-deleted product with the same SKU if there is one, and inserts
// a new product otherwise.
func (a *ProductAdapter) Create(ctx context.Context, src reconcile.SourceItem) (reconcile.CreateOutcome, error) {
	s := src.(models.SourceRecord)

	twinID, found, err := a.findDeleted(ctx, s.SKU)
	if err != nil {
		return "", err
	}

	if found {
		if Derive(s).Deleted {
			// Still suppressed in EPOS; the twin already reflects that
			return reconcile.OutcomeUnchanged, nil
		}
		if err := a.rewrite(ctx, twinID, s); err != nil {
			return "", err
		}
		a.logger.Debug("Reinstated product", zap.Int64("sku", s.SKU), zap.Int("product_id", twinID))
		return reconcile.OutcomeReinstated, nil
	}

	productID, err := a.insert(ctx, s)
	if err != nil {
		return "", err
	}
	if s.Brand != nil {
		if err := a.linkBrand(ctx, productID, s); err != nil {
			return "", err
		}
	}
	return reconcile.OutcomeInserted, nil
}

// rewrite applies the brand linkage and the derived field set to productID.
func (a *ProductAdapter) rewrite(ctx context.Context, productID int, s models.SourceRecord) error {
	if err := a.linkBrand(ctx, productID, s); err != nil {
		return err
	}

	f := Derive(s)
	err := a.destination.WithContext(ctx).
		Table(models.ProductTable).
		Where("Id = ?", productID).
		Updates(map[string]any{
			"Deleted":              f.Deleted,
			"StockQuantity":        f.StockOnHand,
			"Price":                f.Price,
			"Gtin":                 f.Barcode,
			"Weight":               f.Weight,
			"OrderMaximumQuantity": f.OrderMaximumQuantity,
			"DisableBuyButton":     f.BuyButtonDisabled,
			"TaxCategoryId":        f.TaxCategoryID,
			"IsShipEnabled":        false,
			"UpdatedOnUtc":         a.now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update product %d (sku %d): %w", productID, s.SKU, err)
	}
	return nil
}

// linkBrand keeps the product's brand link in line with the EPOS brand.
func (a *ProductAdapter) linkBrand(ctx context.Context, productID int, s models.SourceRecord) error {
	var (
		result LinkResult
		err    error
	)
	if s.Brand == nil {
		result, err = RemoveBrandLinks(ctx, a.destination, productID)
	} else {
		result, err = EnsureBrandLink(ctx, a.destination, productID, *s.Brand, a.now())
	}
	if err != nil {
		return err
	}

	a.brands.record(result)
	if result.BrandCreated {
		a.logger.Info("Created brand", zap.String("brand", s.BrandName()), zap.Int("brand_id", result.BrandID))
	}
	return nil
}

// insert adds a new product built from the storefront defaults and the derived field set,
// and returns its id.
func (a *ProductAdapter) insert(ctx context.Context, s models.SourceRecord) (int, error) {
	now := a.now()
	f := Derive(s)
	sku := utils.FormatSKU(s.SKU)

	row := models.ProductDefaults(now)
	row["Name"] = s.Name
	row["Sku"] = sku
	row["Gtin"] = f.Barcode
	row["TaxCategoryId"] = f.TaxCategoryID
	row["StockQuantity"] = f.StockOnHand
	row["Price"] = f.Price
	row["ProductCost"] = s.Cost
	row["Weight"] = f.Weight
	row["DisableBuyButton"] = f.BuyButtonDisabled
	row["OrderMaximumQuantity"] = f.OrderMaximumQuantity
	row["Deleted"] = f.Deleted

	if err := a.destination.WithContext(ctx).Table(models.ProductTable).Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to insert product sku %d: %w", s.SKU, err)
	}

	var ids []int
	err := a.destination.WithContext(ctx).
		Table(models.ProductTable).
		Where("Sku = ?", sku).
		Order("Id DESC").
		Limit(1).
		Pluck("Id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read back product sku %d: %w", s.SKU, err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("product sku %d not found after insert", s.SKU)
	}
	return ids[0], nil
}

// findDeleted returns the id of a soft-deleted product with the given SKU. SKUs are
// compared numerically, the same way live products are matched, so "0100" is 100.
// A returned id is consumed and never handed out twice.
func (a *ProductAdapter) findDeleted(ctx context.Context, sku int64) (int, bool, error) {
	if a.deleted == nil {
		if err := a.loadDeleted(ctx); err != nil {
			return 0, false, fmt.Errorf("failed to look up deleted product sku %d: %w", sku, err)
		}
	}

	id, ok := a.deleted[sku]
	if ok {
		delete(a.deleted, sku)
	}
	return id, ok, nil
}

// loadDeleted indexes the soft-deleted products by numeric SKU, lowest id first.
func (a *ProductAdapter) loadDeleted(ctx context.Context) error {
	var rows []struct {
		ID  int    `gorm:"column:Id"`
		SKU string `gorm:"column:Sku"`
	}
	err := a.destination.WithContext(ctx).
		Table(models.ProductTable).
		Select("Id", "Sku").
		Where("Deleted = ?", true).
		Order("Id").
		Find(&rows).Error
	if err != nil {
		return err
	}

	index := make(map[int64]int, len(rows))
	for _, r := range rows {
		sku, ok := utils.ParseSKU(r.SKU)
		if !ok {
			continue
		}
		if _, seen := index[sku]; !seen {
			index[sku] = r.ID
		}
	}
	a.deleted = index
	return nil
}
