// Package productsync reconciles the EPOS product catalog into the storefront catalog.
//
// EPOS is the source of truth. A run reads both catalogs, joins them on SKU through
// core/reconcile, and writes the storefront so that price, stock, brand and buyability
// follow EPOS.
//
// # Classification
//
//   - Storefront product without an EPOS record: soft deleted (Deleted = 1, nothing else).
//   - Matched pair: rewritten from EPOS when NeedsUpdate reports a difference.
//   - EPOS product without a live storefront product: a soft-deleted product with the same
//     SKU is reinstated; otherwise a new product is inserted from the storefront defaults.
//
// # Brands
//
// Every rewrite and insert keeps the product's Product_Manufacturer_Mapping row in line with
// the EPOS brand name, creating the Manufacturer on first use (see EnsureBrandLink).
//
// # Runs
//
// Service opens both databases per run and closes them when it ends, whatever the outcome.
// A write failure aborts the run unless continue-on-error is set. Each run produces a
// RunReport, optionally archived to object storage.
package productsync
