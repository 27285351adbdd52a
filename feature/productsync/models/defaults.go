package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Tax categories of the storefront.
const (
	TaxCategoryStandard = 1
	TaxCategoryReduced  = 2
	TaxCategoryOther    = 3
)

var (
	standardRate = decimal.NewFromInt(20)
	reducedRate  = decimal.NewFromInt(5)
)

// TaxCategoryFor maps an EPOS tax rate percentage to a storefront tax category.
// Any rate other than 20 or 5 falls back to TaxCategoryOther.
func TaxCategoryFor(rate decimal.Decimal) int {
	switch {
	case rate.Equal(standardRate):
		return TaxCategoryStandard
	case rate.Equal(reducedRate):
		return TaxCategoryReduced
	default:
		return TaxCategoryOther
	}
}

// ProductDefaults returns the storefront-only column values of a newly inserted product.
// Columns sourced from EPOS (Name, Sku, Gtin, Price, ...) are included with zero values
// and are overwritten by the caller. A fresh map is returned on every call.
func ProductDefaults(now time.Time) map[string]any {
	zero := decimal.Zero
	ceiling := decimal.NewFromInt(10000)

	return map[string]any{
		"ProductTypeId":                                          5,
		"ParentGroupedProductId":                                 0,
		"VisibleIndividually":                                    true,
		"Name":                                                   "",
		"ProductTemplateId":                                      1,
		"VendorId":                                               0,
		"ShowOnHomepage":                                         false,
		"AllowCustomerReviews":                                   true,
		"ApprovedRatingSum":                                      0,
		"NotApprovedRatingSum":                                   0,
		"ApprovedTotalReviews":                                   0,
		"NotApprovedTotalReviews":                                0,
		"SubjectToAcl":                                           false,
		"LimitedToStores":                                        false,
		"Sku":                                                    "",
		"ManufacturerPartNumber":                                 "-",
		"Gtin":                                                   "",
		"IsGiftCard":                                             false,
		"GiftCardTypeId":                                         0,
		"IsDownload":                                             false,
		"DownloadId":                                             0,
		"UnlimitedDownloads":                                     true,
		"MaxNumberOfDownloads":                                   0,
		"DownloadActivationTypeId":                               0,
		"HasSampleDownload":                                      false,
		"SampleDownloadId":                                       0,
		"HasUserAgreement":                                       false,
		"IsRecurring":                                            false,
		"RecurringCycleLength":                                   0,
		"RecurringCyclePeriodId":                                 0,
		"RecurringTotalCycles":                                   0,
		"IsRental":                                               false,
		"RentalPriceLength":                                      0,
		"RentalPricePeriodId":                                    0,
		"IsShipEnabled":                                          false,
		"IsFreeShipping":                                         false,
		"ShipSeparately":                                         false,
		"AdditionalShippingCharge":                               zero,
		"DeliveryDateId":                                         0,
		"IsTaxExempt":                                            false,
		"TaxCategoryId":                                          TaxCategoryOther,
		"IsTelecommunicationsOrBroadcastingOrElectronicServices": false,
		"ManageInventoryMethodId":                                1,
		"ProductAvailabilityRangeId":                             0,
		"UseMultipleWarehouses":                                  false,
		"WarehouseId":                                            0,
		"StockQuantity":                                          0,
		"DisplayStockAvailability":                               true,
		"DisplayStockQuantity":                                   false,
		"MinStockQuantity":                                       0,
		"LowStockActivityId":                                     1,
		"NotifyAdminForQuantityBelow":                            1,
		"BackorderModeId":                                        0,
		"AllowBackInStockSubscriptions":                          false,
		"OrderMinimumQuantity":                                   1,
		"OrderMaximumQuantity":                                   MaxOrderQuantity,
		"AllowAddingOnlyExistingAttributeCombinations":           false,
		"NotReturnable":                                          false,
		"DisableBuyButton":                                       false,
		"DisableWishlistButton":                                  false,
		"AvailableForPreOrder":                                   false,
		"CallForPrice":                                           false,
		"Price":                                                  zero,
		"OldPrice":                                               zero,
		"ProductCost":                                            zero,
		"CustomerEntersPrice":                                    false,
		"MinimumCustomerEnteredPrice":                            zero,
		"MaximumCustomerEnteredPrice":                            ceiling,
		"BasepriceEnabled":                                       false,
		"BasepriceAmount":                                        zero,
		"BasepriceUnitId":                                        1,
		"BasepriceBaseAmount":                                    zero,
		"BasepriceBaseUnitId":                                    1,
		"MarkAsNew":                                              false,
		"HasTierPrices":                                          false,
		"HasDiscountsApplied":                                    false,
		"Weight":                                                 zero,
		"Length":                                                 zero,
		"Width":                                                  zero,
		"Height":                                                 zero,
		"DisplayOrder":                                           0,
		"Published":                                              false,
		"Deleted":                                                false,
		"CreatedOnUtc":                                           now,
		"UpdatedOnUtc":                                           now,
		"RequireOtherProducts":                                   false,
		"AutomaticallyAddRequiredProducts":                       false,
	}
}

// BrandDefaults returns the column values of a newly created manufacturer.
func BrandDefaults(name string, now time.Time) map[string]any {
	return map[string]any{
		"Name":                           name,
		"ManufacturerTemplateId":         1,
		"PictureId":                      0,
		"PageSize":                       12,
		"AllowCustomersToSelectPageSize": true,
		"PageSizeOptions":                "12, 24, 48",
		"SubjectToAcl":                   false,
		"LimitedToStores":                false,
		"Published":                      true,
		"Deleted":                        false,
		"DisplayOrder":                   0,
		"CreatedOnUtc":                   now,
		"UpdatedOnUtc":                   now,
		"PriceRangeFiltering":            true,
		"PriceFrom":                      decimal.Zero,
		"PriceTo":                        decimal.NewFromInt(10000),
		"ManuallyPriceRange":             false,
	}
}

// SourceColumns lists the EPOS columns the source reader selects.
var SourceColumns = []string{
	"sku", "product", "brand", "status", "ro_sell", "cost", "tax_rate", "barcode", "rrp",
	"soh", "weight", "store", "collect", "delivery", "date_created", "last_updated",
	"category", "subcategory",
}

// BrandLinkColumns lists the columns the sync writes to Product_Manufacturer_Mapping.
var BrandLinkColumns = []string{"Id", "ProductId", "ManufacturerId", "IsFeaturedProduct", "DisplayOrder"}

// ProductColumns returns every Product column the sync reads or writes, sorted.
func ProductColumns() []string {
	return columnsOf(ProductDefaults(time.Time{}))
}

// BrandColumns returns every Manufacturer column the sync reads or writes, sorted.
func BrandColumns() []string {
	return columnsOf(BrandDefaults("", time.Time{}))
}

func columnsOf(defaults map[string]any) []string {
	cols := make([]string, 0, len(defaults)+1)
	cols = append(cols, "Id")
	for col := range defaults {
		cols = append(cols, col)
	}
	sort.Strings(cols[1:])
	return cols
}
