package productsync

import (
	"fmt"

	"epos-sync/feature/productsync/models"

	"github.com/shopspring/decimal"
)

// DerivedFields are the storefront values computed from one EPOS product. They are written
// as a whole on update and reinstatement, and seed a newly inserted product.
type DerivedFields struct {
	Deleted              bool
	StockOnHand          int
	BuyButtonDisabled    bool
	OrderMaximumQuantity int
	Weight               decimal.Decimal
	Price                decimal.Decimal
	Barcode              string
	TaxCategoryID        int
}

// Derive computes the storefront values for s.
//
// A product that is inactive, or sold on no channel, is suppressed. Stock below one
// disables buying, and so does a product that cannot be collected, whatever its stock.
func Derive(s models.SourceRecord) DerivedFields {
	d := DerivedFields{
		Deleted:       !(s.Active && (s.StoreFlag || s.CollectFlag)),
		Weight:        s.Weight,
		Price:         s.SellPrice,
		Barcode:       s.Barcode,
		TaxCategoryID: models.TaxCategoryFor(s.TaxRate),
	}

	if s.StockOnHand > 0 {
		d.StockOnHand = s.StockOnHand
		d.BuyButtonDisabled = false
		d.OrderMaximumQuantity = models.MaxOrderQuantity
	} else {
		d.StockOnHand = 0
		d.BuyButtonDisabled = true
		d.OrderMaximumQuantity = 0
	}

	if !s.CollectFlag {
		d.BuyButtonDisabled = true
		d.OrderMaximumQuantity = 0
	}

	return d
}

// NeedsUpdate reports every reason the storefront product d must be rewritten from s.
// An empty result means the pair is in sync and no write is issued.
func NeedsUpdate(d models.DestinationRecord, s models.SourceRecord) []string {
	var reasons []string

	if !d.Price.Equal(s.SellPrice) {
		reasons = append(reasons, fmt.Sprintf("price %s -> %s", d.Price.String(), s.SellPrice.String()))
	}

	// Negative EPOS stock is stored as zero, so it is compared in that form
	if stock := Derive(s).StockOnHand; d.StockOnHand != stock {
		reasons = append(reasons, fmt.Sprintf("stock %d -> %d", d.StockOnHand, stock))
	}

	switch {
	case d.BrandName == nil && s.Brand != nil && *s.Brand != models.UnbrandedName:
		reasons = append(reasons, fmt.Sprintf("brand unlinked -> %q", *s.Brand))
	case d.BrandName != nil && (s.Brand == nil || *d.BrandName != *s.Brand):
		reasons = append(reasons, fmt.Sprintf("brand %q -> %q", *d.BrandName, s.BrandName()))
	}

	if !d.BuyButtonDisabled && !s.CollectFlag {
		reasons = append(reasons, "buy button enabled for store-only product")
	}

	return reasons
}
