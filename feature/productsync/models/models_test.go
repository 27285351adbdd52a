package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxCategoryFor(t *testing.T) {
	tests := []struct {
		rate     string
		expected int
	}{
		{"20", TaxCategoryStandard},
		{"20.00", TaxCategoryStandard},
		{"5", TaxCategoryReduced},
		{"5.0", TaxCategoryReduced},
		{"0", TaxCategoryOther},
		{"12.5", TaxCategoryOther},
		{"-20", TaxCategoryOther},
		{"100", TaxCategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			assert.Equal(t, tt.expected, TaxCategoryFor(decimal.RequireFromString(tt.rate)))
		})
	}
}

func TestProductDefaults(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d := ProductDefaults(now)

	assert.Len(t, d, 87)
	assert.Equal(t, 5, d["ProductTypeId"])
	assert.Equal(t, "-", d["ManufacturerPartNumber"])
	assert.Equal(t, false, d["Published"], "new products wait for review")
	assert.Equal(t, MaxOrderQuantity, d["OrderMaximumQuantity"])
	assert.Equal(t, now, d["CreatedOnUtc"])

	// Each call returns an independent map
	d["Name"] = "changed"
	assert.Equal(t, "", ProductDefaults(now)["Name"])
}

func TestBrandDefaults(t *testing.T) {
	d := BrandDefaults("Acme", time.Now())

	assert.Equal(t, "Acme", d["Name"])
	assert.Equal(t, "12, 24, 48", d["PageSizeOptions"])
	assert.Equal(t, true, d["Published"])
	assert.Equal(t, 12, d["PageSize"])
}

func TestColumns(t *testing.T) {
	cols := ProductColumns()
	assert.Equal(t, "Id", cols[0])
	assert.Len(t, cols, 88)
	assert.Contains(t, cols, "DisableBuyButton")
	assert.IsIncreasing(t, cols[1:])

	assert.Contains(t, BrandColumns(), "PriceRangeFiltering")
}

func TestSourceRecord_BrandName(t *testing.T) {
	acme := "Acme"
	assert.Equal(t, "Acme", SourceRecord{Brand: &acme}.BrandName())
	assert.Equal(t, "", SourceRecord{}.BrandName())
}
