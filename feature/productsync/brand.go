package productsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"epos-sync/feature/productsync/models"

	"gorm.io/gorm"
)

// LinkChange describes what happened to a product's brand link.
type LinkChange string

const (
	LinkUnchanged LinkChange = "unchanged"
	LinkCreated   LinkChange = "created"
	LinkRepointed LinkChange = "repointed"
	LinkRemoved   LinkChange = "removed"
)

// LinkResult is the outcome of one brand linkage.
type LinkResult struct {
	BrandID      int
	BrandCreated bool
	Change       LinkChange
}

// EnsureBrandLink makes brandName the one brand of productID.
//
// The brand is looked up by exact name and created with display defaults when missing.
// An existing link pointing elsewhere is repointed in place; a missing link is created.
// Repeated calls with the same name leave exactly one brand row and one link row.
func EnsureBrandLink(ctx context.Context, db *gorm.DB, productID int, brandName string, now time.Time) (LinkResult, error) {
	var result LinkResult

	brand, err := findBrand(ctx, db, brandName)
	if err != nil {
		return result, err
	}

	if brand == nil {
		if err := db.WithContext(ctx).Table(models.BrandTable).Create(models.BrandDefaults(brandName, now)).Error; err != nil {
			return result, fmt.Errorf("failed to create brand %q: %w", brandName, err)
		}
		// The insert does not return the identity on every dialect; read it back
		brand, err = findBrand(ctx, db, brandName)
		if err != nil {
			return result, err
		}
		if brand == nil {
			return result, fmt.Errorf("brand %q not found after insert", brandName)
		}
		result.BrandCreated = true
	}
	result.BrandID = brand.ID

	var link models.BrandLink
	err = db.WithContext(ctx).
		Where("ProductId = ?", productID).
		Order("Id").
		Take(&link).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		link = models.BrandLink{
			ProductID:         productID,
			BrandID:           brand.ID,
			IsFeaturedProduct: false,
			DisplayOrder:      1,
		}
		if err := db.WithContext(ctx).Create(&link).Error; err != nil {
			return result, fmt.Errorf("failed to link product %d to brand %d: %w", productID, brand.ID, err)
		}
		result.Change = LinkCreated
	case err != nil:
		return result, fmt.Errorf("failed to read brand link of product %d: %w", productID, err)
	case link.BrandID != brand.ID:
		err := db.WithContext(ctx).
			Model(&models.BrandLink{}).
			Where("Id = ?", link.ID).
			Update("ManufacturerId", brand.ID).Error
		if err != nil {
			return result, fmt.Errorf("failed to repoint brand link of product %d: %w", productID, err)
		}
		result.Change = LinkRepointed
	default:
		result.Change = LinkUnchanged
	}

	if result.Change != LinkCreated {
		if err := dropExtraLinks(ctx, db, productID, link.ID); err != nil {
			return result, err
		}
	}

	return result, nil
}

// dropExtraLinks removes every brand link of productID except keepID, leaving one link.
func dropExtraLinks(ctx context.Context, db *gorm.DB, productID, keepID int) error {
	err := db.WithContext(ctx).
		Where("ProductId = ? AND Id <> ?", productID, keepID).
		Delete(&models.BrandLink{}).Error
	if err != nil {
		return fmt.Errorf("failed to drop extra brand links of product %d: %w", productID, err)
	}
	return nil
}

// RemoveBrandLinks drops every brand link of productID. It is used when the EPOS product
// no longer carries a brand.
func RemoveBrandLinks(ctx context.Context, db *gorm.DB, productID int) (LinkResult, error) {
	res := db.WithContext(ctx).
		Where("ProductId = ?", productID).
		Delete(&models.BrandLink{})
	if res.Error != nil {
		return LinkResult{}, fmt.Errorf("failed to unlink brand of product %d: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return LinkResult{Change: LinkUnchanged}, nil
	}
	return LinkResult{Change: LinkRemoved}, nil
}

// findBrand returns the first brand named exactly name, or nil.
func findBrand(ctx context.Context, db *gorm.DB, name string) (*models.Brand, error) {
	var brands []models.Brand
	err := db.WithContext(ctx).
		Where("Name = ?", name).
		Order("Id").
		Limit(1).
		Find(&brands).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up brand %q: %w", name, err)
	}
	if len(brands) == 0 {
		return nil, nil
	}
	return &brands[0], nil
}
