package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table names on both sides of the sync.
const (
	SourceTable      = "epos_sync"
	ProductTable     = "Product"
	BrandTable       = "Manufacturer"
	BrandLinkTable   = "Product_Manufacturer_Mapping"
	UnbrandedName    = "Unbranded"
	MaxOrderQuantity = 10000
)

// SourceRecord is one product of the EPOS extract. It is read-only.
type SourceRecord struct {
	SKU          int64           `json:"sku"`
	Name         string          `json:"name"`
	Brand        *string         `json:"brand"`
	Active       bool            `json:"active"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	Cost         decimal.Decimal `json:"cost"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Barcode      string          `json:"barcode"`
	RRP          decimal.Decimal `json:"rrp"`
	StockOnHand  int             `json:"stock_on_hand"`
	Weight       decimal.Decimal `json:"weight"`
	StoreFlag    bool            `json:"store"`
	CollectFlag  bool            `json:"collect"`
	DeliveryFlag bool            `json:"delivery"`
	Category     string          `json:"category"`
	Subcategory  string          `json:"subcategory"`
	CreatedAt    *time.Time      `json:"date_created,omitempty"`
	LastUpdated  *time.Time      `json:"last_updated,omitempty"`
}

// BrandName returns the brand for logging, or "" when the product has none.
func (s SourceRecord) BrandName() string {
	if s.Brand == nil {
		return ""
	}
	return *s.Brand
}

// DestinationRecord is one live storefront product together with its linked brand.
type DestinationRecord struct {
	ID                   int             `json:"id"`
	SKU                  int64           `json:"sku"`
	Name                 string          `json:"name"`
	BrandID              *int            `json:"brand_id"`
	BrandName            *string         `json:"brand_name"`
	Price                decimal.Decimal `json:"price"`
	Cost                 decimal.Decimal `json:"cost"`
	StockOnHand          int             `json:"stock_on_hand"`
	Barcode              string          `json:"barcode"`
	Weight               decimal.Decimal `json:"weight"`
	Published            bool            `json:"published"`
	Deleted              bool            `json:"deleted"`
	BuyButtonDisabled    bool            `json:"buy_button_disabled"`
	OrderMaximumQuantity int             `json:"order_maximum_quantity"`
}

// Brand is a storefront manufacturer. Only the columns the sync reads are mapped.
type Brand struct {
	ID   int    `gorm:"column:Id;primaryKey"`
	Name string `gorm:"column:Name"`
}

// TableName overrides the table name used by Brand.
func (Brand) TableName() string {
	return BrandTable
}

// BrandLink associates a product with a manufacturer.
type BrandLink struct {
	ID                int  `gorm:"column:Id;primaryKey"`
	ProductID         int  `gorm:"column:ProductId"`
	BrandID           int  `gorm:"column:ManufacturerId"`
	IsFeaturedProduct bool `gorm:"column:IsFeaturedProduct"`
	DisplayOrder      int  `gorm:"column:DisplayOrder"`
}

// TableName overrides the table name used by BrandLink.
func (BrandLink) TableName() string {
	return BrandLinkTable
}
